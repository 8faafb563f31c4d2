package http

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/davomat-inc/davomat/internal/infrastructure/auth"
	"github.com/davomat-inc/davomat/internal/infrastructure/metrics"
	"github.com/davomat-inc/davomat/internal/infrastructure/permission"
	"github.com/davomat-inc/davomat/internal/infrastructure/ratelimit"
	"github.com/davomat-inc/davomat/internal/interfaces/http/middleware"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/config"
	shareddb "github.com/davomat-inc/davomat/internal/shared/db"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/services/sanitize"
)

// Scopes for the per-route rate limit buckets.
const (
	rateScopeDefault = "default"
	rateScopeLogin   = "login"
	rateScopeRefresh = "refresh"
)

// initInfrastructure wires everything the use cases depend on.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	c.repos = newRepositories(c.db, log)
	c.txMgr = shareddb.NewTransactionManager(c.db)
	c.clock = biztime.SystemClock{}
	c.sanitizer = sanitize.NewTextSanitizer()
	c.metrics = metrics.New()

	c.jwtSvc = auth.NewJWTService(auth.JWTConfig{
		AccessSecret:  cfg.Auth.JWT.AccessSecret,
		RefreshSecret: cfg.Auth.JWT.RefreshSecret,
		AccessTTL:     cfg.Auth.JWT.AccessTTLDuration(),
		RefreshTTL:    cfg.Auth.JWT.RefreshTTL(),
	})
	c.tokenHasher = auth.NewTokenHasher(cfg.Auth.RefreshHashPepper)
	c.passwordHasher = auth.NewArgon2PasswordHasher(auth.DefaultArgon2Params)

	enforcer, err := permission.NewEnforcer(c.db, log.Named("permission"))
	if err != nil {
		return err
	}
	if err := enforcer.EnsureDefaultPolicies(); err != nil {
		return err
	}
	c.enforcer = enforcer

	var limiter ratelimit.RateLimiter
	if cfg.Redis.Enabled() {
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
		limiter = ratelimit.NewRedisRateLimiter(c.redis)
	} else {
		log.Infow("redis not configured, using in-memory rate limiter")
		limiter = ratelimit.NewMemoryRateLimiter()
	}
	c.initRateLimiters(limiter)

	return nil
}

func (c *Container) initRateLimiters(limiter ratelimit.RateLimiter) {
	throttle := c.cfg.Throttle
	log := c.log.Named("ratelimit")

	c.defaultLimiter = middleware.NewRateLimiter(limiter, rateScopeDefault,
		ratelimit.Rule{Limit: throttle.DefaultLimit, Window: throttle.Window()}, log)
	c.loginLimiter = middleware.NewRateLimiter(limiter, rateScopeLogin,
		ratelimit.Rule{Limit: throttle.LoginLimit, Window: throttle.Window()}, log)
	c.refreshLimiter = middleware.NewRateLimiter(limiter, rateScopeRefresh,
		ratelimit.Rule{Limit: throttle.RefreshLimit, Window: throttle.Window()}, log)
}

func (c *Container) initMiddlewares() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.ucs.verifyAccessTokenUC, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Infow("Redis connection established successfully")

	return redisClient, nil
}
