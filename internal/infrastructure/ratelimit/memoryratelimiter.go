package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const idleEviction = 10 * time.Minute

type memoryEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryRateLimiter is a per-process token bucket limiter, used when Redis is
// not configured. A rule of Limit per Window refills at Limit/Window with a
// burst of Limit.
type MemoryRateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (l *MemoryRateLimiter) entry(key string, rule Rule, now time.Time) *memoryEntry {
	k := key + ":" + rule.Window.String()
	e, ok := l.entries[k]
	if !ok {
		every := rule.Window / time.Duration(rule.Limit)
		e = &memoryEntry{limiter: rate.NewLimiter(rate.Every(every), rule.Limit)}
		l.entries[k] = e
	}
	e.lastSeen = now

	if now.Sub(l.lastSweep) > idleEviction {
		for k, other := range l.entries {
			if now.Sub(other.lastSeen) > idleEviction {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}
	return e
}

func (l *MemoryRateLimiter) Allow(_ context.Context, key string, rule Rule) (bool, error) {
	if rule.Limit <= 0 {
		return true, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	return l.entry(key, rule, now).limiter.AllowN(now, 1), nil
}

func (l *MemoryRateLimiter) Remaining(_ context.Context, key string, rule Rule) (int64, error) {
	if rule.Limit <= 0 {
		return 0, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	tokens := l.entry(key, rule, now).limiter.TokensAt(now)
	if tokens < 0 {
		tokens = 0
	}
	return int64(tokens), nil
}

func (l *MemoryRateLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	prefix := key + ":"
	for k := range l.entries {
		if strings.HasPrefix(k, prefix) {
			delete(l.entries, k)
		}
	}
	return nil
}
