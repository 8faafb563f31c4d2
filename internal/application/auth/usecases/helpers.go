package usecases

import (
	"context"
	"fmt"

	"github.com/davomat-inc/davomat/internal/domain/user"
	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
)

func errorType(err error) string {
	return string(apperrors.TypeOf(err))
}

// issueTokens signs an access token and records a new refresh token for u.
func issueTokens(ctx context.Context, access AccessIssuer, ledger RefreshLedger, u *user.User) (*AuthResult, error) {
	accessToken, err := access.Sign(ctx, u.ID(), u.Role())
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := ledger.Issue(ctx, u.ID())
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		UserID:             u.ID(),
		Role:               u.Role(),
		AccessToken:        accessToken,
		RefreshToken:       refreshToken,
		MustChangePassword: u.MustChangePassword(),
	}, nil
}
