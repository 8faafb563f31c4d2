package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/davomat-inc/davomat/internal/interfaces/http/middleware"
	"github.com/davomat-inc/davomat/internal/interfaces/http/routes"
)

// Router owns the gin engine and the HTTP server built on top of it.
type Router struct {
	container *Container
	server    *http.Server
}

// NewRouter wraps a wired Container.
func NewRouter(container *Container) *Router {
	return &Router{container: container}
}

// mountSwagger serves the swagger UI for the handler annotations.
func mountSwagger(engine *gin.Engine) {
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// SetupRoutes configures the global middleware chain and every route.
func (r *Router) SetupRoutes() {
	c := r.container
	engine := c.engine

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(c.log.Named("http")))
	engine.Use(middleware.Recovery(c.log))
	engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.Metrics(c.metrics))

	mountSwagger(engine)

	engine.GET("/health", c.hdlrs.userHandler.HealthCheck)
	engine.GET("/metrics", gin.WrapH(c.metrics.Handler()))

	api := engine.Group("/api")
	api.Use(c.defaultLimiter.Limit())

	routes.SetupAuthRoutes(api, &routes.AuthRouteConfig{
		AuthHandler:    c.hdlrs.authHandler,
		AuthMiddleware: c.authMiddleware,
		LoginLimiter:   c.loginLimiter,
		RefreshLimiter: c.refreshLimiter,
	})

	routes.SetupUserRoutes(api, &routes.UserRouteConfig{
		UserHandler:          c.hdlrs.userHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupAttendanceRoutes(api, &routes.AttendanceRouteConfig{
		AttendanceHandler:    c.hdlrs.attendanceHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupEnrollmentRoutes(api, &routes.EnrollmentRouteConfig{
		EnrollmentHandler:    c.hdlrs.enrollmentHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

// GetEngine returns the gin engine instance.
func (r *Router) GetEngine() *gin.Engine {
	return r.container.engine
}

// Run starts the background jobs and serves HTTP until Shutdown is called.
func (r *Router) Run(addr string) error {
	r.container.StartBackgroundJobs()

	r.server = &http.Server{
		Addr:              addr,
		Handler:           r.container.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the container.
func (r *Router) Shutdown(ctx context.Context) error {
	var err error
	if r.server != nil {
		err = r.server.Shutdown(ctx)
	}
	r.container.Shutdown()
	return err
}
