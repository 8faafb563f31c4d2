// Package services holds the token ledger and issuer shared by the auth use
// cases.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davomat-inc/davomat/internal/domain/user"
	"github.com/davomat-inc/davomat/internal/infrastructure/auth"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/db"
	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/id"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

// RefreshTokenSigner is the refresh half of the token codec.
type RefreshTokenSigner interface {
	SignRefresh(userID string) (string, error)
	VerifyRefresh(token string) (*auth.RefreshClaims, error)
	RefreshTTL() time.Duration
}

type TokenHasher interface {
	Hash(raw string) string
}

// LedgerMetrics records security relevant ledger events.
type LedgerMetrics interface {
	RefreshReuseDetected()
	SessionsRevoked(n int64)
}

type nopLedgerMetrics struct{}

func (nopLedgerMetrics) RefreshReuseDetected()   {}
func (nopLedgerMetrics) SessionsRevoked(n int64) {}

var errConcurrentReuse = errors.New("refresh token consumed concurrently")

// RefreshTokenLedger issues, rotates and revokes refresh tokens. Only the
// peppered hash of a token is stored, and every row can be consumed once.
type RefreshTokenLedger struct {
	tokens  user.RefreshTokenRepository
	users   user.Repository
	signer  RefreshTokenSigner
	hasher  TokenHasher
	txMgr   db.Transactor
	clock   biztime.Clock
	metrics LedgerMetrics
	logger  logger.Interface
}

func NewRefreshTokenLedger(
	tokens user.RefreshTokenRepository,
	users user.Repository,
	signer RefreshTokenSigner,
	hasher TokenHasher,
	txMgr db.Transactor,
	clock biztime.Clock,
	metrics LedgerMetrics,
	logger logger.Interface,
) *RefreshTokenLedger {
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	if metrics == nil {
		metrics = nopLedgerMetrics{}
	}
	return &RefreshTokenLedger{
		tokens:  tokens,
		users:   users,
		signer:  signer,
		hasher:  hasher,
		txMgr:   txMgr,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// Issue signs a new refresh token for userID and records its hash.
func (l *RefreshTokenLedger) Issue(ctx context.Context, userID string) (string, error) {
	raw, err := l.signer.SignRefresh(userID)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	row, err := user.NewRefreshToken(id.New(), userID, l.hasher.Hash(raw), l.clock.Now(), l.signer.RefreshTTL())
	if err != nil {
		return "", fmt.Errorf("failed to build refresh token: %w", err)
	}
	if err := l.tokens.Create(ctx, row); err != nil {
		l.logger.Errorw("failed to store refresh token", "user_id", userID, "error", err)
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return raw, nil
}

// Rotate consumes raw and returns its owner together with a replacement
// token. Presenting a token that is unknown or already consumed revokes
// every live token of the owner.
func (l *RefreshTokenLedger) Rotate(ctx context.Context, raw string) (*user.User, string, error) {
	claims, err := l.signer.VerifyRefresh(raw)
	if err != nil {
		return nil, "", err
	}
	userID := claims.Subject

	row, err := l.tokens.GetByHash(ctx, l.hasher.Hash(raw))
	if err != nil {
		return nil, "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	if row == nil || row.IsRevoked() {
		l.reuseDetected(ctx, userID)
		return nil, "", apperrors.NewTokenRevokedError("reuse detected")
	}

	now := l.clock.Now()
	if !row.IsLive(now) {
		l.revokeAllBestEffort(ctx, userID)
		return nil, "", apperrors.NewTokenExpiredError("expired")
	}

	u, err := l.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		l.revokeAllBestEffort(ctx, userID)
		return nil, "", apperrors.NewTokenInvalidError("user not found")
	}
	if !u.IsActive() {
		l.revokeAllBestEffort(ctx, userID)
		return nil, "", apperrors.NewAccountInactiveError()
	}

	var next string
	err = l.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		revoked, err := l.tokens.RevokeIfLive(txCtx, row.ID, now)
		if err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
		if !revoked {
			return errConcurrentReuse
		}
		next, err = l.Issue(txCtx, userID)
		return err
	})
	if errors.Is(err, errConcurrentReuse) {
		l.reuseDetected(ctx, userID)
		return nil, "", apperrors.NewTokenRevokedError("reuse detected")
	}
	if err != nil {
		return nil, "", err
	}
	return u, next, nil
}

// Revoke consumes raw without issuing a replacement. Empty, unknown and
// already revoked tokens are ignored.
func (l *RefreshTokenLedger) Revoke(ctx context.Context, raw string) {
	if raw == "" {
		return
	}
	row, err := l.tokens.GetByHash(ctx, l.hasher.Hash(raw))
	if err != nil {
		l.logger.Warnw("failed to look up refresh token for revoke", "error", err)
		return
	}
	if row == nil || row.IsRevoked() {
		return
	}
	if _, err := l.tokens.RevokeIfLive(ctx, row.ID, l.clock.Now()); err != nil {
		l.logger.Warnw("failed to revoke refresh token", "user_id", row.UserID, "error", err)
	}
}

// RevokeAll revokes every live refresh token of userID.
func (l *RefreshTokenLedger) RevokeAll(ctx context.Context, userID string) (int64, error) {
	n, err := l.tokens.RevokeAllForUser(ctx, userID, l.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	l.metrics.SessionsRevoked(n)
	return n, nil
}

func (l *RefreshTokenLedger) reuseDetected(ctx context.Context, userID string) {
	l.logger.Warnw("refresh token reuse detected", "user_id", userID)
	l.metrics.RefreshReuseDetected()
	l.revokeAllBestEffort(ctx, userID)
}

func (l *RefreshTokenLedger) revokeAllBestEffort(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	if _, err := l.RevokeAll(ctx, userID); err != nil {
		l.logger.Errorw("failed to revoke user refresh tokens", "user_id", userID, "error", err)
	}
}
