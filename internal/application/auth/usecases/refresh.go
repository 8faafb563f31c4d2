package usecases

import (
	"context"

	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

type RefreshCommand struct {
	RefreshToken string
}

type RefreshUseCase struct {
	accessIssuer AccessIssuer
	ledger       RefreshLedger
	metrics      AuthMetrics
	logger       logger.Interface
}

func NewRefreshUseCase(accessIssuer AccessIssuer, ledger RefreshLedger, metrics AuthMetrics, logger logger.Interface) *RefreshUseCase {
	if metrics == nil {
		metrics = nopAuthMetrics{}
	}
	return &RefreshUseCase{
		accessIssuer: accessIssuer,
		ledger:       ledger,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute rotates the refresh token and signs a fresh access token.
func (uc *RefreshUseCase) Execute(ctx context.Context, cmd RefreshCommand) (*AuthResult, error) {
	result, err := uc.refresh(ctx, cmd.RefreshToken)
	uc.metrics.RefreshAttempt(outcome(err))
	return result, err
}

func (uc *RefreshUseCase) refresh(ctx context.Context, raw string) (*AuthResult, error) {
	if raw == "" {
		return nil, apperrors.NewTokenInvalidError("missing token")
	}

	u, next, err := uc.ledger.Rotate(ctx, raw)
	if err != nil {
		return nil, err
	}

	accessToken, err := uc.accessIssuer.Sign(ctx, u.ID(), u.Role())
	if err != nil {
		uc.logger.Errorw("failed to sign access token", "user_id", u.ID(), "error", err)
		return nil, err
	}

	return &AuthResult{
		UserID:             u.ID(),
		Role:               u.Role(),
		AccessToken:        accessToken,
		RefreshToken:       next,
		MustChangePassword: u.MustChangePassword(),
	}, nil
}
