package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davomat-inc/davomat/internal/domain/user"
	"github.com/davomat-inc/davomat/internal/shared/authorization"
	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

func TestSeedAdmin_CreatesOnce(t *testing.T) {
	var stored *user.User
	repo := &mockUserRepository{
		GetByPhoneFunc: func(ctx context.Context, phone string) (*user.User, error) {
			return stored, nil
		},
		CreateFunc: func(ctx context.Context, u *user.User) error {
			stored = u
			return nil
		},
	}
	uc := NewSeedAdminUseCase(repo, &mockPasswordHasher{}, logger.NewNop())
	cmd := SeedAdminCommand{Phone: "998900000001", Password: "SuperAdmin123!"}

	first, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, first.Created)
	require.NotNil(t, stored)
	assert.Equal(t, authorization.RoleAdmin, stored.Role())
	assert.True(t, stored.IsActive())
	assert.Equal(t, "hashed:SuperAdmin123!", stored.PasswordHash())
	assert.False(t, stored.MustChangePassword())

	second, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.UserID, second.UserID)
}

func TestSeedAdmin_Validates(t *testing.T) {
	uc := NewSeedAdminUseCase(&mockUserRepository{}, &mockPasswordHasher{}, logger.NewNop())

	_, err := uc.Execute(context.Background(), SeedAdminCommand{Phone: "", Password: "SuperAdmin123!"})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), SeedAdminCommand{Phone: "998900000001", Password: "short"})
	assert.True(t, apperrors.IsValidationError(err))
}
