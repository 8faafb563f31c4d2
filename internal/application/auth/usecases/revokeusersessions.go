package usecases

import (
	"context"
	"fmt"

	"github.com/davomat-inc/davomat/internal/domain/user"
	"github.com/davomat-inc/davomat/internal/shared/db"
	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

type RevokeUserSessionsCommand struct {
	ActorID      string
	TargetUserID string
}

type RevokeUserSessionsResult struct {
	TokenVersion  int   `json:"tokenVersion"`
	RevokedTokens int64 `json:"revokedTokens"`
}

// RevokeUserSessionsUseCase is the administrative forced logout.
type RevokeUserSessionsUseCase struct {
	userRepo user.Repository
	ledger   RefreshLedger
	txMgr    db.Transactor
	logger   logger.Interface
}

func NewRevokeUserSessionsUseCase(userRepo user.Repository, ledger RefreshLedger, txMgr db.Transactor, logger logger.Interface) *RevokeUserSessionsUseCase {
	return &RevokeUserSessionsUseCase{
		userRepo: userRepo,
		ledger:   ledger,
		txMgr:    txMgr,
		logger:   logger,
	}
}

func (uc *RevokeUserSessionsUseCase) Execute(ctx context.Context, cmd RevokeUserSessionsCommand) (*RevokeUserSessionsResult, error) {
	target, err := uc.userRepo.GetByID(ctx, cmd.TargetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if target == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}

	result := &RevokeUserSessionsResult{}
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		version, err := uc.userRepo.BumpTokenVersion(txCtx, target.ID())
		if err != nil {
			return err
		}
		revoked, err := uc.ledger.RevokeAll(txCtx, target.ID())
		if err != nil {
			return err
		}
		result.TokenVersion = version
		result.RevokedTokens = revoked
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to revoke user sessions", "target_user_id", target.ID(), "error", err)
		return nil, fmt.Errorf("failed to revoke user sessions: %w", err)
	}

	uc.logger.Warnw("user sessions revoked",
		"actor_id", cmd.ActorID,
		"target_user_id", target.ID(),
		"token_version", result.TokenVersion,
		"revoked_tokens", result.RevokedTokens,
	)
	return result, nil
}
