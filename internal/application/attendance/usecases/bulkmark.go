package usecases

import (
	"context"
	"fmt"

	"github.com/davomat-inc/davomat/internal/domain/attendance"
	"github.com/davomat-inc/davomat/internal/domain/enrollment"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/db"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/id"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/services/sanitize"
)

type BulkMarkItem struct {
	StudentID string
	Status    attendance.Status
	Comment   *string
}

type BulkMarkCommand struct {
	ActorID   string
	SessionID string
	Items     []BulkMarkItem
}

type BulkMarkResult struct {
	OK      bool `json:"ok"`
	Written int  `json:"written"`
	Skipped int  `json:"skipped"`
}

type BulkMarkUseCase struct {
	guard       *sessionGuard
	records     attendance.RecordRepository
	enrollments enrollment.Repository
	sanitizer   sanitize.TextSanitizer
	clock       biztime.Clock
	metrics     AttendanceMetrics
	logger      logger.Interface
}

func NewBulkMarkUseCase(
	sessions attendance.SessionRepository,
	records attendance.RecordRepository,
	enrollments enrollment.Repository,
	txMgr db.Transactor,
	sanitizer sanitize.TextSanitizer,
	clock biztime.Clock,
	metrics AttendanceMetrics,
	logger logger.Interface,
) *BulkMarkUseCase {
	if metrics == nil {
		metrics = nopAttendanceMetrics{}
	}
	return &BulkMarkUseCase{
		guard:       &sessionGuard{sessions: sessions, txMgr: txMgr, metrics: metrics},
		records:     records,
		enrollments: enrollments,
		sanitizer:   sanitizer,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute writes every item whose student is actively enrolled and counts
// the rest as skipped.
func (uc *BulkMarkUseCase) Execute(ctx context.Context, cmd BulkMarkCommand) (*BulkMarkResult, error) {
	if len(cmd.Items) == 0 {
		return nil, errors.NewValidationError("items must not be empty")
	}

	comments := make([]*string, len(cmd.Items))
	for i, it := range cmd.Items {
		if !it.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		c, err := uc.sanitizer.Clean("comment", it.Comment, attendance.MaxTextLength)
		if err != nil {
			return nil, err
		}
		comments[i] = c
	}

	now := uc.clock.Now()
	result := &BulkMarkResult{OK: true}
	err := uc.guard.run(ctx, cmd.SessionID, cmd.ActorID, now, nil, func(txCtx context.Context, s *attendance.Session) error {
		activeIDs, err := uc.enrollments.ActiveStudentIDs(txCtx, s.GroupID)
		if err != nil {
			return fmt.Errorf("failed to list active students: %w", err)
		}
		active := make(map[string]struct{}, len(activeIDs))
		for _, sid := range activeIDs {
			active[sid] = struct{}{}
		}

		for i, it := range cmd.Items {
			if _, ok := active[it.StudentID]; !ok {
				result.Skipped++
				continue
			}
			record := attendance.NewTeacherMark(id.New(), s.ID, it.StudentID, it.Status, comments[i], cmd.ActorID, now)
			if err := uc.records.Upsert(txCtx, record); err != nil {
				return err
			}
			result.Written++
		}
		return nil
	})
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to bulk mark attendance", "session_id", cmd.SessionID, "error", err)
		}
		return nil, err
	}

	uc.metrics.AttendanceWritten(string(attendance.SourceTeacher), int64(result.Written))
	uc.logger.Infow("bulk attendance written",
		"session_id", cmd.SessionID,
		"written", result.Written,
		"skipped", result.Skipped,
	)
	return result, nil
}
