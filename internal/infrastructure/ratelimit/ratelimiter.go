package ratelimit

import (
	"context"
	"time"
)

// Rule allows Limit hits per Window for one key.
type Rule struct {
	Limit  int
	Window time.Duration
}

type RateLimiter interface {
	// Allow records a hit and reports whether it fits in the rule.
	Allow(ctx context.Context, key string, rule Rule) (bool, error)
	// Remaining returns how many hits are left in the current window.
	Remaining(ctx context.Context, key string, rule Rule) (int64, error)
	Reset(ctx context.Context, key string) error
}
