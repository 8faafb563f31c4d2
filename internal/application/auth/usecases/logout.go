package usecases

import (
	"context"

	"github.com/davomat-inc/davomat/internal/shared/logger"
)

type LogoutCommand struct {
	RefreshToken string
}

type LogoutUseCase struct {
	ledger RefreshLedger
	logger logger.Interface
}

func NewLogoutUseCase(ledger RefreshLedger, logger logger.Interface) *LogoutUseCase {
	return &LogoutUseCase{
		ledger: ledger,
		logger: logger,
	}
}

// Execute revokes the presented refresh token if it is still live. It never fails.
func (uc *LogoutUseCase) Execute(ctx context.Context, cmd LogoutCommand) {
	uc.ledger.Revoke(ctx, cmd.RefreshToken)
	uc.logger.Debugw("logout processed", "had_token", cmd.RefreshToken != "")
}
