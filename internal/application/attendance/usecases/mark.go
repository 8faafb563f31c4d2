package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/davomat-inc/davomat/internal/domain/attendance"
	"github.com/davomat-inc/davomat/internal/domain/enrollment"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/db"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/id"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/services/sanitize"
)

var (
	ErrInvalidStatus      = errors.NewValidationError("status must be one of PRESENT, ABSENT, LATE, EXCUSED")
	ErrStudentNotEnrolled = errors.NewValidationError("student is not actively enrolled in this group")
)

type MarkCommand struct {
	ActorID   string
	SessionID string
	StudentID string
	Status    attendance.Status
	Comment   *string
}

type MarkResult struct {
	SessionID  string            `json:"sessionId"`
	StudentID  string            `json:"studentId"`
	Status     attendance.Status `json:"status"`
	Comment    *string           `json:"comment"`
	MarkedByID string            `json:"markedById"`
	MarkedAt   time.Time         `json:"markedAt"`
	Source     attendance.Source `json:"source"`
}

type MarkUseCase struct {
	guard       *sessionGuard
	records     attendance.RecordRepository
	enrollments enrollment.Repository
	sanitizer   sanitize.TextSanitizer
	clock       biztime.Clock
	metrics     AttendanceMetrics
	logger      logger.Interface
}

func NewMarkUseCase(
	sessions attendance.SessionRepository,
	records attendance.RecordRepository,
	enrollments enrollment.Repository,
	txMgr db.Transactor,
	sanitizer sanitize.TextSanitizer,
	clock biztime.Clock,
	metrics AttendanceMetrics,
	logger logger.Interface,
) *MarkUseCase {
	if metrics == nil {
		metrics = nopAttendanceMetrics{}
	}
	return &MarkUseCase{
		guard:       &sessionGuard{sessions: sessions, txMgr: txMgr, metrics: metrics},
		records:     records,
		enrollments: enrollments,
		sanitizer:   sanitizer,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute writes one mark. A student without an active enrollment in the
// session's group fails the whole call.
func (uc *MarkUseCase) Execute(ctx context.Context, cmd MarkCommand) (*MarkResult, error) {
	if !cmd.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	comment, err := uc.sanitizer.Clean("comment", cmd.Comment, attendance.MaxTextLength)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	var record *attendance.Record
	err = uc.guard.run(ctx, cmd.SessionID, cmd.ActorID, now, nil, func(txCtx context.Context, s *attendance.Session) error {
		active, err := uc.enrollments.ExistsActive(txCtx, cmd.StudentID, s.GroupID)
		if err != nil {
			return fmt.Errorf("failed to check enrollment: %w", err)
		}
		if !active {
			return ErrStudentNotEnrolled
		}

		record = attendance.NewTeacherMark(id.New(), s.ID, cmd.StudentID, cmd.Status, comment, cmd.ActorID, now)
		return uc.records.Upsert(txCtx, record)
	})
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to mark attendance", "session_id", cmd.SessionID, "error", err)
		}
		return nil, err
	}

	uc.metrics.AttendanceWritten(string(attendance.SourceTeacher), 1)
	return &MarkResult{
		SessionID:  record.SessionID,
		StudentID:  record.StudentID,
		Status:     record.Status,
		Comment:    record.Comment,
		MarkedByID: record.MarkedByID,
		MarkedAt:   record.MarkedAt,
		Source:     record.Source,
	}, nil
}
