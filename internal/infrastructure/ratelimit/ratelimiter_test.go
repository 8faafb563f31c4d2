package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func limiters(t *testing.T) map[string]RateLimiter {
	return map[string]RateLimiter{
		"redis":  NewRedisRateLimiter(setupTestRedis(t)),
		"memory": NewMemoryRateLimiter(),
	}
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	ctx := context.Background()
	rule := Rule{Limit: 5, Window: time.Minute}

	for name, limiter := range limiters(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				allowed, err := limiter.Allow(ctx, "login:1.2.3.4", rule)
				require.NoError(t, err)
				assert.True(t, allowed, "request %d should be allowed", i+1)
			}

			allowed, err := limiter.Allow(ctx, "login:1.2.3.4", rule)
			require.NoError(t, err)
			assert.False(t, allowed, "6th request should be denied")

			allowed, err = limiter.Allow(ctx, "login:5.6.7.8", rule)
			require.NoError(t, err)
			assert.True(t, allowed, "other keys are independent")
		})
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	rule := Rule{Limit: 2, Window: time.Minute}

	for name, limiter := range limiters(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 2; i++ {
				_, err := limiter.Allow(ctx, "refresh:ip", rule)
				require.NoError(t, err)
			}
			remaining, err := limiter.Remaining(ctx, "refresh:ip", rule)
			require.NoError(t, err)
			assert.Equal(t, int64(0), remaining)

			require.NoError(t, limiter.Reset(ctx, "refresh:ip"))

			allowed, err := limiter.Allow(ctx, "refresh:ip", rule)
			require.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestRedisRateLimiter_WindowSlides(t *testing.T) {
	ctx := context.Background()
	limiter := NewRedisRateLimiter(setupTestRedis(t))
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	rule := Rule{Limit: 1, Window: time.Minute}

	allowed, err := limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)
	assert.False(t, allowed)

	now = now.Add(2 * time.Minute)
	allowed, err = limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryRateLimiter_Refills(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemoryRateLimiter()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	rule := Rule{Limit: 2, Window: time.Minute}

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "k", rule)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)
	assert.False(t, allowed)

	now = now.Add(30 * time.Second)
	allowed, err = limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)
	assert.True(t, allowed)
}
