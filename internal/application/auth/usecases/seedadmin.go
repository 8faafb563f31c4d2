package usecases

import (
	"context"
	"fmt"

	"github.com/davomat-inc/davomat/internal/domain/user"
	"github.com/davomat-inc/davomat/internal/shared/authorization"
	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/id"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

type SeedAdminCommand struct {
	Phone              string
	Password           string
	MustChangePassword bool
}

type SeedAdminResult struct {
	UserID  string
	Created bool
}

// SeedAdminUseCase creates the first administrator. Running it again for an
// existing phone leaves the account untouched.
type SeedAdminUseCase struct {
	userRepo       user.Repository
	passwordHasher user.PasswordHasher
	logger         logger.Interface
}

func NewSeedAdminUseCase(userRepo user.Repository, hasher user.PasswordHasher, logger logger.Interface) *SeedAdminUseCase {
	return &SeedAdminUseCase{
		userRepo:       userRepo,
		passwordHasher: hasher,
		logger:         logger,
	}
}

func (uc *SeedAdminUseCase) Execute(ctx context.Context, cmd SeedAdminCommand) (*SeedAdminResult, error) {
	if cmd.Phone == "" {
		return nil, apperrors.NewValidationError("phone is required")
	}
	if len([]rune(cmd.Password)) < MinPasswordLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}

	existing, err := uc.userRepo.GetByPhone(ctx, cmd.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		uc.logger.Infow("admin already exists, skipping", "user_id", existing.ID(), "role", existing.Role())
		return &SeedAdminResult{UserID: existing.ID(), Created: false}, nil
	}

	hash, err := uc.passwordHasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := user.NewUser(id.New(), cmd.Phone, authorization.RoleAdmin, user.StatusActive)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	u.SetPasswordHash(hash, cmd.MustChangePassword)

	if err := uc.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	uc.logger.Infow("admin created", "user_id", u.ID())
	return &SeedAdminResult{UserID: u.ID(), Created: true}, nil
}
