package usecases

import (
	"context"
	"fmt"

	"github.com/davomat-inc/davomat/internal/domain/user"
	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

type VerifyAccessTokenUseCase struct {
	userRepo user.Repository
	verifier AccessTokenVerifier
	logger   logger.Interface
}

func NewVerifyAccessTokenUseCase(userRepo user.Repository, verifier AccessTokenVerifier, logger logger.Interface) *VerifyAccessTokenUseCase {
	return &VerifyAccessTokenUseCase{
		userRepo: userRepo,
		verifier: verifier,
		logger:   logger,
	}
}

// Execute authenticates a bearer token against the current user row. A token
// whose generation differs from the stored one is revoked.
func (uc *VerifyAccessTokenUseCase) Execute(ctx context.Context, token string) (*Identity, error) {
	claims, err := uc.verifier.VerifyAccess(token)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, apperrors.NewTokenInvalidError("malformed payload")
	}
	if claims.Version == nil {
		return nil, apperrors.NewTokenInvalidError("missing generation")
	}

	u, err := uc.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		uc.logger.Errorw("failed to get user for access token", "user_id", claims.Subject, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, apperrors.NewTokenInvalidError("user not found")
	}
	if !u.IsActive() {
		return nil, apperrors.NewAccountInactiveError()
	}
	if *claims.Version != u.TokenVersion() {
		uc.logger.Warnw("stale access token generation", "user_id", u.ID(), "token_version", *claims.Version, "current_version", u.TokenVersion())
		return nil, apperrors.NewTokenRevokedError("token revoked")
	}

	return &Identity{
		UserID:             u.ID(),
		Role:               u.Role(),
		MustChangePassword: u.MustChangePassword(),
	}, nil
}
