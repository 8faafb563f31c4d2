package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/davomat-inc/davomat/internal/infrastructure/auth"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/models"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/testutil"
	"github.com/davomat-inc/davomat/internal/infrastructure/repository"
	"github.com/davomat-inc/davomat/internal/shared/db"
	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

const (
	testUserID = "01HZUSER000000000000000001"
	testPepper = "pepper-0123456789"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingMetrics struct {
	reuse   int
	revoked int64
}

func (m *countingMetrics) RefreshReuseDetected()   { m.reuse++ }
func (m *countingMetrics) SessionsRevoked(n int64) { m.revoked += n }

type ledgerFixture struct {
	gdb     *gorm.DB
	ledger  *RefreshTokenLedger
	tokens  *repository.RefreshTokenRepository
	users   *repository.UserRepository
	clock   *testClock
	metrics *countingMetrics
}

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		AccessSecret:  "access-secret-0123456789",
		RefreshSecret: "refresh-secret-0123456789",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    30 * 24 * time.Hour,
	})
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	gdb := testutil.NewSQLiteDB(t)
	testutil.SeedUser(t, gdb, testUserID, "998900000001", "ADMIN", "hash")

	f := &ledgerFixture{
		gdb:     gdb,
		tokens:  repository.NewRefreshTokenRepository(gdb),
		users:   repository.NewUserRepository(gdb, logger.NewNop()),
		clock:   &testClock{now: time.Now().UTC()},
		metrics: &countingMetrics{},
	}
	f.ledger = NewRefreshTokenLedger(
		f.tokens, f.users, newJWTService(), auth.NewTokenHasher(testPepper),
		db.NewTransactionManager(gdb), f.clock, f.metrics, logger.NewNop(),
	)
	return f
}

func (f *ledgerFixture) liveCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.gdb.Model(&models.RefreshTokenModel{}).Where("revoked_at IS NULL").Count(&n).Error)
	return n
}

func TestLedger_IssueStoresPepperedHash(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	raw, err := f.ledger.Issue(ctx, testUserID)
	require.NoError(t, err)

	sum := sha256.Sum256([]byte(raw + "." + testPepper))
	row, err := f.tokens.GetByHash(ctx, hex.EncodeToString(sum[:]))
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, testUserID, row.UserID)
	assert.WithinDuration(t, f.clock.Now().Add(30*24*time.Hour), row.ExpiresAt, time.Second)
	assert.Nil(t, row.RevokedAt)
}

func TestLedger_RotateReplacesToken(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	raw, err := f.ledger.Issue(ctx, testUserID)
	require.NoError(t, err)

	u, next, err := f.ledger.Rotate(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, testUserID, u.ID())
	assert.NotEqual(t, raw, next)
	assert.Equal(t, int64(1), f.liveCount(t))
}

func TestLedger_ReuseRevokesEverything(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	first, err := f.ledger.Issue(ctx, testUserID)
	require.NoError(t, err)
	_, second, err := f.ledger.Rotate(ctx, first)
	require.NoError(t, err)

	_, _, err = f.ledger.Rotate(ctx, first)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeTokenRevoked, apperrors.TypeOf(err))
	assert.Equal(t, "reuse detected", apperrors.GetAppError(err).Message)
	assert.Equal(t, 1, f.metrics.reuse)
	assert.Equal(t, int64(0), f.liveCount(t))

	// the descendant token died with the family
	_, _, err = f.ledger.Rotate(ctx, second)
	assert.Equal(t, apperrors.ErrorTypeTokenRevoked, apperrors.TypeOf(err))
}

func TestLedger_UnknownTokenIsReuse(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.ledger.Issue(ctx, testUserID)
	require.NoError(t, err)

	// validly signed but never recorded
	orphan, err := newJWTService().SignRefresh(testUserID)
	require.NoError(t, err)

	_, _, err = f.ledger.Rotate(ctx, orphan)
	assert.Equal(t, apperrors.ErrorTypeTokenRevoked, apperrors.TypeOf(err))
	assert.Equal(t, int64(0), f.liveCount(t))
}

func TestLedger_RotateRejectsGarbage(t *testing.T) {
	f := newLedgerFixture(t)

	_, _, err := f.ledger.Rotate(context.Background(), "not-a-jwt")
	assert.Equal(t, apperrors.ErrorTypeTokenInvalid, apperrors.TypeOf(err))
	assert.Equal(t, 0, f.metrics.reuse)
}

func TestLedger_ExpiredRowRevokesAll(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	raw, err := f.ledger.Issue(ctx, testUserID)
	require.NoError(t, err)
	_, err = f.ledger.Issue(ctx, testUserID)
	require.NoError(t, err)

	// the row expires on the ledger clock while the JWT is still valid
	f.clock.Advance(31 * 24 * time.Hour)

	_, _, err = f.ledger.Rotate(ctx, raw)
	assert.Equal(t, apperrors.ErrorTypeTokenExpired, apperrors.TypeOf(err))
	assert.Equal(t, "expired", apperrors.GetAppError(err).Message)
	assert.Equal(t, int64(0), f.liveCount(t))
}

func TestLedger_InactiveUser(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	raw, err := f.ledger.Issue(ctx, testUserID)
	require.NoError(t, err)
	require.NoError(t, f.gdb.Model(&models.UserModel{}).Where("id = ?", testUserID).Update("status", "BLOCKED").Error)

	_, _, err = f.ledger.Rotate(ctx, raw)
	assert.Equal(t, apperrors.ErrorTypeAccountInactive, apperrors.TypeOf(err))
	assert.Equal(t, int64(0), f.liveCount(t))
}

func TestLedger_MissingUser(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	raw, err := f.ledger.Issue(ctx, "01HZUSER0000000000000000ZZ")
	require.NoError(t, err)

	_, _, err = f.ledger.Rotate(ctx, raw)
	assert.Equal(t, apperrors.ErrorTypeTokenInvalid, apperrors.TypeOf(err))
	assert.Equal(t, "user not found", apperrors.GetAppError(err).Message)
}

// racingTokens loses every conditional revoke, as if another request had
// consumed the row between lookup and update.
type racingTokens struct {
	*repository.RefreshTokenRepository
}

func (r racingTokens) RevokeIfLive(ctx context.Context, id string, at time.Time) (bool, error) {
	return false, nil
}

func TestLedger_ConcurrentRotationIsReuse(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	raw, err := f.ledger.Issue(ctx, testUserID)
	require.NoError(t, err)

	racing := NewRefreshTokenLedger(
		racingTokens{f.tokens}, f.users, newJWTService(), auth.NewTokenHasher(testPepper),
		db.NewTransactionManager(f.gdb), f.clock, f.metrics, logger.NewNop(),
	)

	_, _, err = racing.Rotate(ctx, raw)
	assert.Equal(t, apperrors.ErrorTypeTokenRevoked, apperrors.TypeOf(err))
	assert.Equal(t, 1, f.metrics.reuse)

	// the rolled back transaction left no replacement row behind
	var total int64
	require.NoError(t, f.gdb.Model(&models.RefreshTokenModel{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(0), f.liveCount(t))
}

func TestLedger_RevokeIsBestEffort(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.ledger.Revoke(ctx, "")
	f.ledger.Revoke(ctx, "unknown")

	raw, err := f.ledger.Issue(ctx, testUserID)
	require.NoError(t, err)
	f.ledger.Revoke(ctx, raw)
	f.ledger.Revoke(ctx, raw)
	assert.Equal(t, int64(0), f.liveCount(t))

	_, _, err = f.ledger.Rotate(ctx, raw)
	assert.Equal(t, apperrors.ErrorTypeTokenRevoked, apperrors.TypeOf(err))
}

func TestLedger_RevokeAll(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.ledger.Issue(ctx, testUserID)
		require.NoError(t, err)
	}

	n, err := f.ledger.RevokeAll(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, int64(3), f.metrics.revoked)
	assert.Equal(t, int64(0), f.liveCount(t))
}

func TestAccessTokenIssuer_StampsGeneration(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	codec := newJWTService()
	issuer := NewAccessTokenIssuer(f.users, codec)

	_, err := f.users.BumpTokenVersion(ctx, testUserID)
	require.NoError(t, err)

	token, err := issuer.Sign(ctx, testUserID, "ADMIN")
	require.NoError(t, err)
	claims, err := codec.VerifyAccess(token)
	require.NoError(t, err)
	require.NotNil(t, claims.Version)
	assert.Equal(t, 1, *claims.Version)

	token, err = issuer.Sign(ctx, "01HZUSER0000000000000000ZZ", "TEACHER")
	require.NoError(t, err)
	claims, err = codec.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, 0, *claims.Version)
}
