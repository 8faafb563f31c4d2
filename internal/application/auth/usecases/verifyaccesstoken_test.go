package usecases

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davomat-inc/davomat/internal/domain/user"
	"github.com/davomat-inc/davomat/internal/infrastructure/auth"
	"github.com/davomat-inc/davomat/internal/shared/authorization"
	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

func claimsFor(sub string, version *int) *auth.AccessClaims {
	return &auth.AccessClaims{
		Role:             authorization.RoleAdmin,
		Version:          version,
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub},
	}
}

func intPtr(v int) *int { return &v }

func TestVerifyAccessToken(t *testing.T) {
	active := newTestUser(t, user.StatusActive, "hashed:x", true, 2)
	blocked := newTestUser(t, user.StatusBlocked, "hashed:x", false, 2)

	tests := []struct {
		name        string
		claims      *auth.AccessClaims
		verifyErr   error
		user        *user.User
		wantType    apperrors.ErrorType
		wantMessage string
	}{
		{name: "codec failure", verifyErr: apperrors.NewTokenInvalidError("invalid token"), wantType: apperrors.ErrorTypeTokenInvalid, wantMessage: "invalid token"},
		{name: "expired", verifyErr: apperrors.NewTokenExpiredError("token expired"), wantType: apperrors.ErrorTypeTokenExpired, wantMessage: "token expired"},
		{name: "empty subject", claims: claimsFor("", intPtr(2)), wantType: apperrors.ErrorTypeTokenInvalid, wantMessage: "malformed payload"},
		{name: "missing generation", claims: claimsFor(active.ID(), nil), wantType: apperrors.ErrorTypeTokenInvalid, wantMessage: "missing generation"},
		{name: "unknown user", claims: claimsFor(active.ID(), intPtr(2)), wantType: apperrors.ErrorTypeTokenInvalid, wantMessage: "user not found"},
		{name: "inactive user", claims: claimsFor(blocked.ID(), intPtr(2)), user: blocked, wantType: apperrors.ErrorTypeAccountInactive},
		{name: "stale generation", claims: claimsFor(active.ID(), intPtr(1)), user: active, wantType: apperrors.ErrorTypeTokenRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &mockVerifier{
				VerifyAccessFunc: func(token string) (*auth.AccessClaims, error) {
					return tt.claims, tt.verifyErr
				},
			}
			repo := &mockUserRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*user.User, error) { return tt.user, nil },
			}

			identity, err := NewVerifyAccessTokenUseCase(repo, verifier, logger.NewNop()).Execute(context.Background(), "token")

			assert.Nil(t, identity)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, apperrors.GetAppError(err).Message)
			}
		})
	}
}

func TestVerifyAccessToken_Success(t *testing.T) {
	u := newTestUser(t, user.StatusActive, "hashed:x", true, 2)
	verifier := &mockVerifier{
		VerifyAccessFunc: func(token string) (*auth.AccessClaims, error) {
			return claimsFor(u.ID(), intPtr(2)), nil
		},
	}
	repo := &mockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*user.User, error) { return u, nil },
	}

	identity, err := NewVerifyAccessTokenUseCase(repo, verifier, logger.NewNop()).Execute(context.Background(), "token")

	require.NoError(t, err)
	assert.Equal(t, &Identity{UserID: u.ID(), Role: authorization.RoleAdmin, MustChangePassword: true}, identity)
}
