package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/davomat-inc/davomat/internal/infrastructure/permission"
	"github.com/davomat-inc/davomat/internal/interfaces/http/handlers"
	"github.com/davomat-inc/davomat/internal/interfaces/http/middleware"
)

// AttendanceRouteConfig holds dependencies for attendance routes.
type AttendanceRouteConfig struct {
	AttendanceHandler    *handlers.AttendanceHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAttendanceRoutes configures attendance routes.
func SetupAttendanceRoutes(api *gin.RouterGroup, cfg *AttendanceRouteConfig) {
	write := cfg.PermissionMiddleware.RequirePermission(permission.ResourceAttendance, permission.ActionWrite)
	read := cfg.PermissionMiddleware.RequirePermission(permission.ResourceAttendance, permission.ActionRead)

	attendance := api.Group("/attendance")
	attendance.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequirePasswordChanged())
	{
		attendance.POST("/sessions/open", write, cfg.AttendanceHandler.OpenSession)
		attendance.POST("/mark", write, cfg.AttendanceHandler.Mark)
		attendance.POST("/bulk", write, cfg.AttendanceHandler.BulkMark)
		attendance.POST("/finalize", write, cfg.AttendanceHandler.Finalize)

		attendance.GET("/monthly", read, cfg.AttendanceHandler.MonthlyGrid)
	}
}
