package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davomat-inc/davomat/internal/shared/authorization"
)

func TestNewUser_Validates(t *testing.T) {
	_, err := NewUser("", "998900000001", authorization.RoleAdmin, StatusActive)
	assert.Error(t, err)

	_, err = NewUser("u1", "  ", authorization.RoleAdmin, StatusActive)
	assert.Error(t, err)

	_, err = NewUser("u1", "998900000001", "ROOT", StatusActive)
	assert.Error(t, err)

	u, err := NewUser("u1", " 998900000001 ", authorization.RoleTeacher, StatusInvited)
	require.NoError(t, err)
	assert.Equal(t, "998900000001", u.Phone())
	assert.False(t, u.IsActive())
	assert.False(t, u.HasPassword())
	assert.Equal(t, 0, u.TokenVersion())
}

func TestUser_ChangePasswordBumpsVersion(t *testing.T) {
	u, err := NewUser("u1", "998900000001", authorization.RoleAdmin, StatusActive)
	require.NoError(t, err)
	u.SetPasswordHash("old", true)
	assert.Equal(t, 0, u.TokenVersion())
	assert.True(t, u.MustChangePassword())

	u.ChangePassword("new")

	assert.Equal(t, "new", u.PasswordHash())
	assert.False(t, u.MustChangePassword())
	assert.Equal(t, 1, u.TokenVersion())
}

func TestReconstructUser_RejectsBadState(t *testing.T) {
	_, err := ReconstructUser(UserData{ID: "u1", Role: authorization.RoleAdmin, Status: "GONE"})
	assert.Error(t, err)

	_, err = ReconstructUser(UserData{ID: "u1", Role: authorization.RoleAdmin, Status: StatusActive, TokenVersion: -1})
	assert.Error(t, err)
}

func TestRefreshToken_Liveness(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	tok, err := NewRefreshToken("t1", "u1", "hash", now, 24*time.Hour)
	require.NoError(t, err)

	assert.True(t, tok.IsLive(now))
	assert.False(t, tok.IsExpired(now.Add(24*time.Hour)))
	assert.False(t, tok.IsLive(now.Add(24*time.Hour)))
	assert.True(t, tok.IsExpired(now.Add(25*time.Hour)))

	revokedAt := now
	tok.RevokedAt = &revokedAt
	assert.False(t, tok.IsLive(now))
}
