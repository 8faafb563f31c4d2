package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/davomat-inc/davomat/internal/infrastructure/permission"
	"github.com/davomat-inc/davomat/internal/interfaces/http/handlers"
	"github.com/davomat-inc/davomat/internal/interfaces/http/middleware"
)

// UserRouteConfig holds dependencies for user management routes.
type UserRouteConfig struct {
	UserHandler          *handlers.UserHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupUserRoutes configures user management routes.
func SetupUserRoutes(api *gin.RouterGroup, cfg *UserRouteConfig) {
	users := api.Group("/users")
	users.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequirePasswordChanged())
	{
		users.POST("/:id/revoke-sessions",
			cfg.PermissionMiddleware.RequirePermission(permission.ResourceUserSessions, permission.ActionDelete),
			cfg.UserHandler.RevokeSessions)
	}
}
