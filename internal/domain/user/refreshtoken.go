package user

import (
	"fmt"
	"time"
)

// RefreshToken is one issued refresh token. Only the peppered hash of the
// raw token is stored. Rows are revoked, never deleted.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func NewRefreshToken(id, userID, tokenHash string, issuedAt time.Time, ttl time.Duration) (*RefreshToken, error) {
	if id == "" || userID == "" {
		return nil, fmt.Errorf("refresh token id and user id are required")
	}
	if tokenHash == "" {
		return nil, fmt.Errorf("token hash is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	issuedAt = issuedAt.UTC()
	return &RefreshToken{
		ID:        id,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: issuedAt.Add(ttl),
		CreatedAt: issuedAt,
	}, nil
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired reports whether the row expired strictly before now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// IsLive reports whether the row can still be exchanged at now.
func (t *RefreshToken) IsLive(now time.Time) bool {
	return !t.IsRevoked() && t.ExpiresAt.After(now)
}
