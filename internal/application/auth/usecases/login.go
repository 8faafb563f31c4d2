package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/davomat-inc/davomat/internal/domain/user"
	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/utils"
)

type LoginCommand struct {
	Phone    string
	Password string
}

type LoginUseCase struct {
	userRepo       user.Repository
	passwordHasher user.PasswordHasher
	accessIssuer   AccessIssuer
	ledger         RefreshLedger
	metrics        AuthMetrics
	logger         logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	accessIssuer AccessIssuer,
	ledger RefreshLedger,
	metrics AuthMetrics,
	logger logger.Interface,
) *LoginUseCase {
	if metrics == nil {
		metrics = nopAuthMetrics{}
	}
	return &LoginUseCase{
		userRepo:       userRepo,
		passwordHasher: hasher,
		accessIssuer:   accessIssuer,
		ledger:         ledger,
		metrics:        metrics,
		logger:         logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*AuthResult, error) {
	result, err := uc.login(ctx, strings.TrimSpace(cmd.Phone), cmd.Password)
	uc.metrics.LoginAttempt(outcome(err))
	if err != nil && apperrors.IsSecurityEvent(err) {
		uc.logger.Warnw("login rejected", "phone", utils.MaskPhone(cmd.Phone), "reason", errorType(err))
	}
	return result, err
}

func (uc *LoginUseCase) login(ctx context.Context, phone, password string) (*AuthResult, error) {
	u, err := uc.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		uc.logger.Errorw("failed to get user by phone", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	// unknown phone and wrong password are indistinguishable
	if u == nil {
		return nil, apperrors.NewInvalidCredentialsError()
	}
	if !u.IsActive() {
		return nil, apperrors.NewAccountInactiveError()
	}
	if !u.HasPassword() {
		return nil, apperrors.NewPasswordNotSetError()
	}

	ok, err := uc.passwordHasher.Verify(u.PasswordHash(), password)
	if err != nil {
		uc.logger.Errorw("stored password hash is unreadable", "user_id", u.ID(), "error", err)
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, apperrors.NewInvalidCredentialsError()
	}

	result, err := issueTokens(ctx, uc.accessIssuer, uc.ledger, u)
	if err != nil {
		uc.logger.Errorw("failed to issue tokens", "user_id", u.ID(), "error", err)
		return nil, err
	}

	uc.logger.Infow("user logged in", "user_id", u.ID(), "role", u.Role())
	return result, nil
}
