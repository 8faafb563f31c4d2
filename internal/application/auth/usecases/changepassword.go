package usecases

import (
	"context"
	"fmt"

	"github.com/davomat-inc/davomat/internal/domain/user"
	"github.com/davomat-inc/davomat/internal/shared/db"
	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

const MinPasswordLength = 8

type ChangePasswordCommand struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

type ChangePasswordUseCase struct {
	userRepo       user.Repository
	passwordHasher user.PasswordHasher
	ledger         RefreshLedger
	txMgr          db.Transactor
	logger         logger.Interface
}

func NewChangePasswordUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	ledger RefreshLedger,
	txMgr db.Transactor,
	logger logger.Interface,
) *ChangePasswordUseCase {
	return &ChangePasswordUseCase{
		userRepo:       userRepo,
		passwordHasher: hasher,
		ledger:         ledger,
		txMgr:          txMgr,
		logger:         logger,
	}
}

// Execute replaces the password and signs the user out everywhere: the token
// generation is bumped and every refresh token is revoked.
func (uc *ChangePasswordUseCase) Execute(ctx context.Context, cmd ChangePasswordCommand) error {
	if len([]rune(cmd.NewPassword)) < MinPasswordLength {
		return apperrors.NewValidationError(fmt.Sprintf("new password must be at least %d characters long", MinPasswordLength))
	}

	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return apperrors.NewTokenInvalidError("user not found")
	}
	if !u.HasPassword() {
		return apperrors.NewPasswordNotSetError()
	}

	ok, err := uc.passwordHasher.Verify(u.PasswordHash(), cmd.CurrentPassword)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return apperrors.NewInvalidCredentialsError()
	}

	hash, err := uc.passwordHasher.Hash(cmd.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.SetPasswordHash(hash, false)

	var version int
	var revoked int64
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.userRepo.UpdateCredentials(txCtx, u); err != nil {
			return err
		}
		v, err := uc.userRepo.BumpTokenVersion(txCtx, u.ID())
		if err != nil {
			return err
		}
		n, err := uc.ledger.RevokeAll(txCtx, u.ID())
		if err != nil {
			return err
		}
		version, revoked = v, n
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to change password", "user_id", u.ID(), "error", err)
		return fmt.Errorf("failed to change password: %w", err)
	}

	uc.logger.Infow("password changed", "user_id", u.ID(), "token_version", version, "revoked_tokens", revoked)
	return nil
}
