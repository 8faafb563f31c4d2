package services

import (
	"context"
	"fmt"

	"github.com/davomat-inc/davomat/internal/domain/user"
	"github.com/davomat-inc/davomat/internal/shared/authorization"
)

type AccessTokenSigner interface {
	SignAccess(userID string, role authorization.UserRole, version int) (string, error)
}

// AccessTokenIssuer signs access tokens stamped with the user's current
// token generation.
type AccessTokenIssuer struct {
	users  user.Repository
	signer AccessTokenSigner
}

func NewAccessTokenIssuer(users user.Repository, signer AccessTokenSigner) *AccessTokenIssuer {
	return &AccessTokenIssuer{users: users, signer: signer}
}

// Sign uses generation 0 when the user row does not exist.
func (i *AccessTokenIssuer) Sign(ctx context.Context, userID string, role authorization.UserRole) (string, error) {
	version, ok, err := i.users.GetTokenVersion(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get token version: %w", err)
	}
	if !ok {
		version = 0
	}
	return i.signer.SignAccess(userID, role, version)
}
