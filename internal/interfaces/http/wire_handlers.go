package http

import (
	"github.com/davomat-inc/davomat/internal/interfaces/http/handlers"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	authHandler       *handlers.AuthHandler
	userHandler       *handlers.UserHandler
	attendanceHandler *handlers.AttendanceHandler
	enrollmentHandler *handlers.EnrollmentHandler
}

func (c *Container) initHandlers() {
	ucs := c.ucs
	log := c.log

	c.hdlrs = &allHandlers{
		authHandler: handlers.NewAuthHandler(
			ucs.loginUC,
			ucs.refreshUC,
			ucs.logoutUC,
			ucs.changePasswordUC,
			c.cfg.Auth.Cookie,
			c.cfg.Auth.JWT.RefreshTTL(),
			log,
		),
		userHandler: handlers.NewUserHandler(ucs.revokeUserSessionsUC, log),
		attendanceHandler: handlers.NewAttendanceHandler(
			ucs.openSessionUC,
			ucs.markUC,
			ucs.bulkMarkUC,
			ucs.finalizeUC,
			ucs.monthlyGridUC,
			log,
		),
		enrollmentHandler: handlers.NewEnrollmentHandler(
			ucs.createEnrollmentUC,
			ucs.updateEnrollmentStatusUC,
			ucs.deleteEnrollmentUC,
			ucs.getEnrollmentUC,
			ucs.listEnrollmentsUC,
			log,
		),
	}
}
