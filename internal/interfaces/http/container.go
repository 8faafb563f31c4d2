package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/davomat-inc/davomat/internal/infrastructure/auth"
	"github.com/davomat-inc/davomat/internal/infrastructure/metrics"
	"github.com/davomat-inc/davomat/internal/infrastructure/permission"
	"github.com/davomat-inc/davomat/internal/infrastructure/scheduler"
	"github.com/davomat-inc/davomat/internal/interfaces/http/middleware"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/config"
	shareddb "github.com/davomat-inc/davomat/internal/shared/db"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/services/sanitize"
)

// Container holds all infrastructure components, repositories, use cases,
// handlers and background jobs, and wires them together.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	defaultLimiter       *middleware.RateLimiter
	loginLimiter         *middleware.RateLimiter
	refreshLimiter       *middleware.RateLimiter

	// Shared services
	txMgr          *shareddb.TransactionManager
	clock          biztime.Clock
	sanitizer      sanitize.TextSanitizer
	metrics        *metrics.Metrics
	jwtSvc         *auth.JWTService
	tokenHasher    *auth.TokenHasher
	passwordHasher *auth.Argon2PasswordHasher
	enforcer       *permission.Enforcer

	// Background jobs
	schedulerManager *scheduler.SchedulerManager
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}
	c.initUseCases()
	c.initMiddlewares()
	c.initHandlers()

	if err := c.initScheduler(); err != nil {
		return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	return c, nil
}

func (c *Container) initScheduler() error {
	sm, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return err
	}
	if err := sm.RegisterAttendanceJobs(c.ucs.autoLockSweepUC, c.cfg.Jobs.AutoLockInterval); err != nil {
		return err
	}
	c.schedulerManager = sm
	return nil
}

// StartBackgroundJobs starts the scheduler.
func (c *Container) StartBackgroundJobs() {
	c.schedulerManager.Start()
}

// ReloadPolicies re-reads the permission rules from the database.
func (c *Container) ReloadPolicies() error {
	return c.enforcer.LoadPolicy()
}

// Shutdown stops background jobs and closes the Redis client. The database
// is closed by the caller that opened it.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
		}
	}
}
