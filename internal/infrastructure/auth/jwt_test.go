package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davomat-inc/davomat/internal/shared/authorization"
	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
)

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func newTestJWTService() *JWTService {
	return NewJWTService(JWTConfig{
		AccessSecret:  "access-secret-0123456789",
		RefreshSecret: "refresh-secret-0123456789",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    30 * 24 * time.Hour,
	})
}

func TestAccessToken_RoundTrip(t *testing.T) {
	s := newTestJWTService()

	token, err := s.SignAccess("user-1", authorization.RoleTeacher, 3)
	require.NoError(t, err)

	claims, err := s.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, authorization.RoleTeacher, claims.Role)
	require.NotNil(t, claims.Version)
	assert.Equal(t, 3, *claims.Version)
}

func TestAccessToken_Expired(t *testing.T) {
	issued := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	s := newTestJWTService().WithClock(func() time.Time { return issued })

	token, err := s.SignAccess("user-1", authorization.RoleAdmin, 0)
	require.NoError(t, err)

	later := s.WithClock(func() time.Time { return issued.Add(16 * time.Minute) })
	_, err = later.VerifyAccess(token)
	assert.Equal(t, apperrors.ErrorTypeTokenExpired, apperrors.TypeOf(err))
}

func TestVerify_RejectsWrongSecretDomain(t *testing.T) {
	s := newTestJWTService()

	refresh, err := s.SignRefresh("user-1")
	require.NoError(t, err)

	_, err = s.VerifyAccess(refresh)
	assert.Equal(t, apperrors.ErrorTypeTokenInvalid, apperrors.TypeOf(err))

	access, err := s.SignAccess("user-1", authorization.RoleAdmin, 0)
	require.NoError(t, err)
	_, err = s.VerifyRefresh(access)
	assert.Equal(t, apperrors.ErrorTypeTokenInvalid, apperrors.TypeOf(err))
}

func TestVerify_RejectsNonHMAC(t *testing.T) {
	s := newTestJWTService()

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.VerifyAccess(unsigned)
	assert.Equal(t, apperrors.ErrorTypeTokenInvalid, apperrors.TypeOf(err))

	_, err = s.VerifyAccess("not.a.jwt")
	assert.Equal(t, apperrors.ErrorTypeTokenInvalid, apperrors.TypeOf(err))
}

func TestRefreshToken_UniquePerCall(t *testing.T) {
	s := newTestJWTService()
	fixed := time.Now().UTC()
	s = s.WithClock(func() time.Time { return fixed })

	a, err := s.SignRefresh("user-1")
	require.NoError(t, err)
	b, err := s.SignRefresh("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	claims, err := s.VerifyRefresh(a)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestAccessToken_MissingVersion(t *testing.T) {
	s := newTestJWTService()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": "ADMIN",
		"exp":  time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("access-secret-0123456789"))
	require.NoError(t, err)

	claims, err := s.VerifyAccess(token)
	require.NoError(t, err)
	assert.Nil(t, claims.Version)
}
