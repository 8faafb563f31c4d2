package http

import (
	attendanceUsecases "github.com/davomat-inc/davomat/internal/application/attendance/usecases"
	authServices "github.com/davomat-inc/davomat/internal/application/auth/services"
	authUsecases "github.com/davomat-inc/davomat/internal/application/auth/usecases"
	enrollmentUsecases "github.com/davomat-inc/davomat/internal/application/enrollment/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Auth
	loginUC              *authUsecases.LoginUseCase
	refreshUC            *authUsecases.RefreshUseCase
	logoutUC             *authUsecases.LogoutUseCase
	verifyAccessTokenUC  *authUsecases.VerifyAccessTokenUseCase
	changePasswordUC     *authUsecases.ChangePasswordUseCase
	revokeUserSessionsUC *authUsecases.RevokeUserSessionsUseCase

	// Attendance
	openSessionUC   *attendanceUsecases.OpenSessionUseCase
	markUC          *attendanceUsecases.MarkUseCase
	bulkMarkUC      *attendanceUsecases.BulkMarkUseCase
	finalizeUC      *attendanceUsecases.FinalizeUseCase
	monthlyGridUC   *attendanceUsecases.MonthlyGridUseCase
	autoLockSweepUC *attendanceUsecases.AutoLockSweepUseCase

	// Enrollment
	createEnrollmentUC       *enrollmentUsecases.CreateEnrollmentUseCase
	updateEnrollmentStatusUC *enrollmentUsecases.UpdateEnrollmentStatusUseCase
	deleteEnrollmentUC       *enrollmentUsecases.DeleteEnrollmentUseCase
	getEnrollmentUC          *enrollmentUsecases.GetEnrollmentUseCase
	listEnrollmentsUC        *enrollmentUsecases.ListEnrollmentsUseCase
}

func (c *Container) initUseCases() {
	repos := c.repos
	log := c.log

	ledger := authServices.NewRefreshTokenLedger(
		repos.refreshTokenRepo,
		repos.userRepo,
		c.jwtSvc,
		c.tokenHasher,
		c.txMgr,
		c.clock,
		c.metrics,
		log.Named("refresh_ledger"),
	)
	accessIssuer := authServices.NewAccessTokenIssuer(repos.userRepo, c.jwtSvc)

	c.ucs = &allUseCases{
		loginUC:              authUsecases.NewLoginUseCase(repos.userRepo, c.passwordHasher, accessIssuer, ledger, c.metrics, log),
		refreshUC:            authUsecases.NewRefreshUseCase(accessIssuer, ledger, c.metrics, log),
		logoutUC:             authUsecases.NewLogoutUseCase(ledger, log),
		verifyAccessTokenUC:  authUsecases.NewVerifyAccessTokenUseCase(repos.userRepo, c.jwtSvc, log),
		changePasswordUC:     authUsecases.NewChangePasswordUseCase(repos.userRepo, c.passwordHasher, ledger, c.txMgr, log),
		revokeUserSessionsUC: authUsecases.NewRevokeUserSessionsUseCase(repos.userRepo, ledger, c.txMgr, log),

		openSessionUC:   attendanceUsecases.NewOpenSessionUseCase(repos.sessionRepo, repos.groupRepo, c.txMgr, c.sanitizer, c.clock, c.metrics, log),
		markUC:          attendanceUsecases.NewMarkUseCase(repos.sessionRepo, repos.attendanceRepo, repos.enrollmentRepo, c.txMgr, c.sanitizer, c.clock, c.metrics, log),
		bulkMarkUC:      attendanceUsecases.NewBulkMarkUseCase(repos.sessionRepo, repos.attendanceRepo, repos.enrollmentRepo, c.txMgr, c.sanitizer, c.clock, c.metrics, log),
		finalizeUC:      attendanceUsecases.NewFinalizeUseCase(repos.sessionRepo, repos.attendanceRepo, repos.enrollmentRepo, c.txMgr, c.sanitizer, c.clock, c.metrics, log),
		monthlyGridUC:   attendanceUsecases.NewMonthlyGridUseCase(repos.sessionRepo, repos.attendanceRepo, repos.enrollmentRepo, repos.groupRepo, log),
		autoLockSweepUC: attendanceUsecases.NewAutoLockSweepUseCase(repos.sessionRepo, c.clock, c.metrics, log.Named("auto_lock")),

		createEnrollmentUC:       enrollmentUsecases.NewCreateEnrollmentUseCase(repos.enrollmentRepo, repos.studentRepo, repos.groupRepo, c.txMgr, c.clock, log),
		updateEnrollmentStatusUC: enrollmentUsecases.NewUpdateEnrollmentStatusUseCase(repos.enrollmentRepo, c.txMgr, c.clock, log),
		deleteEnrollmentUC:       enrollmentUsecases.NewDeleteEnrollmentUseCase(repos.enrollmentRepo, c.txMgr, c.clock, log),
		getEnrollmentUC:          enrollmentUsecases.NewGetEnrollmentUseCase(repos.enrollmentRepo, log),
		listEnrollmentsUC:        enrollmentUsecases.NewListEnrollmentsUseCase(repos.enrollmentRepo, log),
	}
}
