package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/davomat-inc/davomat/internal/infrastructure/permission"
	"github.com/davomat-inc/davomat/internal/interfaces/http/handlers"
	"github.com/davomat-inc/davomat/internal/interfaces/http/middleware"
)

// EnrollmentRouteConfig holds dependencies for enrollment routes.
type EnrollmentRouteConfig struct {
	EnrollmentHandler    *handlers.EnrollmentHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupEnrollmentRoutes configures enrollment routes.
func SetupEnrollmentRoutes(api *gin.RouterGroup, cfg *EnrollmentRouteConfig) {
	perm := func(action string) gin.HandlerFunc {
		return cfg.PermissionMiddleware.RequirePermission(permission.ResourceEnrollment, action)
	}

	enrollments := api.Group("/enrollments")
	enrollments.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequirePasswordChanged())
	{
		enrollments.POST("", perm(permission.ActionWrite), cfg.EnrollmentHandler.Create)
		enrollments.GET("", perm(permission.ActionRead), cfg.EnrollmentHandler.List)

		enrollments.GET("/:id", perm(permission.ActionRead), cfg.EnrollmentHandler.Get)
		enrollments.PATCH("/:id/status", perm(permission.ActionWrite), cfg.EnrollmentHandler.UpdateStatus)
		enrollments.DELETE("/:id", perm(permission.ActionDelete), cfg.EnrollmentHandler.Delete)
	}
}
