package http

import (
	"gorm.io/gorm"

	"github.com/davomat-inc/davomat/internal/domain/attendance"
	"github.com/davomat-inc/davomat/internal/domain/enrollment"
	"github.com/davomat-inc/davomat/internal/domain/group"
	"github.com/davomat-inc/davomat/internal/domain/student"
	"github.com/davomat-inc/davomat/internal/domain/user"
	"github.com/davomat-inc/davomat/internal/infrastructure/repository"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	userRepo         user.Repository
	refreshTokenRepo user.RefreshTokenRepository
	studentRepo      student.Repository
	groupRepo        group.Repository
	enrollmentRepo   enrollment.Repository
	sessionRepo      attendance.SessionRepository
	attendanceRepo   attendance.RecordRepository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		userRepo:         repository.NewUserRepository(db, log),
		refreshTokenRepo: repository.NewRefreshTokenRepository(db),
		studentRepo:      repository.NewStudentRepository(db),
		groupRepo:        repository.NewGroupRepository(db),
		enrollmentRepo:   repository.NewEnrollmentRepository(db, log),
		sessionRepo:      repository.NewAttendanceSessionRepository(db),
		attendanceRepo:   repository.NewAttendanceRepository(db),
	}
}
