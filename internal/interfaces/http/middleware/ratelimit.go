package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davomat-inc/davomat/internal/infrastructure/ratelimit"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/utils"
)

// RateLimiter throttles requests per client IP under one named scope, so
// login and refresh keep counters separate from the rest of the API.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	scope   string
	rule    ratelimit.Rule
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, scope string, rule ratelimit.Rule, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		scope:   scope,
		rule:    rule,
		logger:  logger,
	}
}

// Limit returns a Gin middleware that enforces the rule per client IP.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.scope + ":" + c.ClientIP()

		allowed, err := rl.limiter.Allow(c.Request.Context(), key, rl.rule)
		if err != nil {
			// fail open while the backend is unreachable
			rl.logger.Warnw("rate limiter unavailable", "scope", rl.scope, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rule.Limit))
		if !allowed {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(rl.rule.Window.Seconds())))
			utils.AbortWithError(c, errors.NewTooManyRequestsError("rate limit exceeded, please try again later"))
			return
		}

		if remaining, err := rl.limiter.Remaining(c.Request.Context(), key, rl.rule); err == nil {
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		}
		c.Next()
	}
}
