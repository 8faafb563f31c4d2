package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/davomat-inc/davomat/internal/interfaces/http/handlers"
	"github.com/davomat-inc/davomat/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	LoginLimiter   *middleware.RateLimiter
	RefreshLimiter *middleware.RateLimiter
}

// SetupAuthRoutes configures authentication routes. me and change-password
// stay reachable while a password change is pending.
func SetupAuthRoutes(api *gin.RouterGroup, cfg *AuthRouteConfig) {
	auth := api.Group("/auth")
	{
		auth.POST("/login", cfg.LoginLimiter.Limit(), cfg.AuthHandler.Login)
		auth.POST("/refresh", cfg.RefreshLimiter.Limit(), cfg.AuthHandler.Refresh)
		auth.POST("/logout", cfg.AuthHandler.Logout)

		auth.GET("/me", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Me)
		auth.POST("/change-password", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.ChangePassword)
	}
}
