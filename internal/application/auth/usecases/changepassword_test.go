package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davomat-inc/davomat/internal/domain/user"
	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

func TestChangePassword_Success(t *testing.T) {
	u := newTestUser(t, user.StatusActive, "hashed:oldpassword", true, 4)
	var saved *user.User
	var bumped, revokedFor string
	repo := &mockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*user.User, error) { return u, nil },
		UpdateCredentialsFunc: func(ctx context.Context, u *user.User) error {
			saved = u
			return nil
		},
		BumpTokenVersionFunc: func(ctx context.Context, id string) (int, error) {
			bumped = id
			return 5, nil
		},
	}
	ledger := &mockRefreshLedger{
		RevokeAllFunc: func(ctx context.Context, userID string) (int64, error) {
			revokedFor = userID
			return 2, nil
		},
	}
	tx := &mockTransactor{}

	err := NewChangePasswordUseCase(repo, &mockPasswordHasher{}, ledger, tx, logger.NewNop()).
		Execute(context.Background(), ChangePasswordCommand{
			UserID:          u.ID(),
			CurrentPassword: "oldpassword",
			NewPassword:     "newpassword",
		})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "hashed:newpassword", saved.PasswordHash())
	assert.False(t, saved.MustChangePassword())
	assert.Equal(t, u.ID(), bumped)
	assert.Equal(t, u.ID(), revokedFor)
	assert.Equal(t, 1, tx.calls)
}

func TestChangePassword_Rejects(t *testing.T) {
	u := newTestUser(t, user.StatusActive, "hashed:oldpassword", false, 0)
	tests := []struct {
		name     string
		user     *user.User
		current  string
		next     string
		wantType apperrors.ErrorType
	}{
		{name: "short new password", user: u, current: "oldpassword", next: "short", wantType: apperrors.ErrorTypeValidation},
		{name: "wrong current password", user: u, current: "guess", next: "newpassword", wantType: apperrors.ErrorTypeInvalidCredentials},
		{name: "no password set", user: newTestUser(t, user.StatusActive, "", false, 0), current: "x", next: "newpassword", wantType: apperrors.ErrorTypePasswordNotSet},
		{name: "unknown user", user: nil, current: "x", next: "newpassword", wantType: apperrors.ErrorTypeTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*user.User, error) { return tt.user, nil },
				UpdateCredentialsFunc: func(ctx context.Context, u *user.User) error {
					t.Fatal("credentials must not be written")
					return nil
				},
			}
			tx := &mockTransactor{}

			err := NewChangePasswordUseCase(repo, &mockPasswordHasher{}, &mockRefreshLedger{}, tx, logger.NewNop()).
				Execute(context.Background(), ChangePasswordCommand{UserID: "u1", CurrentPassword: tt.current, NewPassword: tt.next})

			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
			assert.Equal(t, 0, tx.calls)
		})
	}
}

func TestChangePassword_RevokeFailureFailsTheChange(t *testing.T) {
	u := newTestUser(t, user.StatusActive, "hashed:oldpassword", false, 0)
	repo := &mockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*user.User, error) { return u, nil },
	}
	ledger := &mockRefreshLedger{
		RevokeAllFunc: func(ctx context.Context, userID string) (int64, error) {
			return 0, errors.New("db down")
		},
	}

	err := NewChangePasswordUseCase(repo, &mockPasswordHasher{}, ledger, &mockTransactor{}, logger.NewNop()).
		Execute(context.Background(), ChangePasswordCommand{UserID: u.ID(), CurrentPassword: "oldpassword", NewPassword: "newpassword"})

	require.Error(t, err)
	assert.False(t, apperrors.IsAppError(err))
}

func TestRevokeUserSessions(t *testing.T) {
	target := newTestUser(t, user.StatusActive, "hashed:x", false, 1)
	repo := &mockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*user.User, error) {
			if id == target.ID() {
				return target, nil
			}
			return nil, nil
		},
		BumpTokenVersionFunc: func(ctx context.Context, id string) (int, error) { return 2, nil },
	}
	ledger := &mockRefreshLedger{
		RevokeAllFunc: func(ctx context.Context, userID string) (int64, error) { return 3, nil },
	}
	uc := NewRevokeUserSessionsUseCase(repo, ledger, &mockTransactor{}, logger.NewNop())

	result, err := uc.Execute(context.Background(), RevokeUserSessionsCommand{ActorID: "admin", TargetUserID: target.ID()})
	require.NoError(t, err)
	assert.Equal(t, &RevokeUserSessionsResult{TokenVersion: 2, RevokedTokens: 3}, result)

	_, err = uc.Execute(context.Background(), RevokeUserSessionsCommand{ActorID: "admin", TargetUserID: "missing"})
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}
