package user

import (
	"context"
	"time"
)

// Repository persists accounts. Get methods return (nil, nil) when the row
// does not exist.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)

	// GetTokenVersion returns the current generation, or ok=false for an
	// unknown user.
	GetTokenVersion(ctx context.Context, id string) (version int, ok bool, err error)

	// UpdateCredentials writes the password hash, must-change flag and token
	// version of u.
	UpdateCredentials(ctx context.Context, u *User) error

	// BumpTokenVersion atomically increments the stored generation and
	// returns the new value.
	BumpTokenVersion(ctx context.Context, id string) (int, error)
}

// RefreshTokenRepository is the refresh token ledger store.
type RefreshTokenRepository interface {
	Create(ctx context.Context, t *RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)

	// RevokeIfLive sets revoked_at on the row only when it is still unrevoked.
	// It reports whether this call performed the revocation.
	RevokeIfLive(ctx context.Context, id string, at time.Time) (bool, error)

	// RevokeAllForUser revokes every unrevoked row of the user.
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error)
}
