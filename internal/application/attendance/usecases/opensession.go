package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/davomat-inc/davomat/internal/domain/attendance"
	"github.com/davomat-inc/davomat/internal/domain/group"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/db"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/id"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/services/sanitize"
)

var (
	ErrGroupNotFound     = errors.NewNotFoundError("group not found or not active")
	ErrOnlyTodaySessions = errors.NewValidationError("a session can only be opened for today")
)

type OpenSessionCommand struct {
	ActorID string
	GroupID string
	// Date is optional and must equal today's business date when set.
	Date *time.Time
	Note *string
}

type OpenSessionResult struct {
	Session *attendance.Session
	Created bool
}

type OpenSessionUseCase struct {
	sessions  attendance.SessionRepository
	groups    group.Repository
	txMgr     db.Transactor
	sanitizer sanitize.TextSanitizer
	clock     biztime.Clock
	metrics   AttendanceMetrics
	logger    logger.Interface
}

func NewOpenSessionUseCase(
	sessions attendance.SessionRepository,
	groups group.Repository,
	txMgr db.Transactor,
	sanitizer sanitize.TextSanitizer,
	clock biztime.Clock,
	metrics AttendanceMetrics,
	logger logger.Interface,
) *OpenSessionUseCase {
	if metrics == nil {
		metrics = nopAttendanceMetrics{}
	}
	return &OpenSessionUseCase{
		sessions:  sessions,
		groups:    groups,
		txMgr:     txMgr,
		sanitizer: sanitizer,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute returns today's session of the group, creating it when the lesson
// window is open. An existing session past its close time is locked first.
func (uc *OpenSessionUseCase) Execute(ctx context.Context, cmd OpenSessionCommand) (*OpenSessionResult, error) {
	now := uc.clock.Now()
	today := biztime.DateOf(now)
	if cmd.Date != nil && biztime.FormatDate(*cmd.Date) != biztime.FormatDate(today) {
		return nil, ErrOnlyTodaySessions
	}
	note, err := uc.sanitizer.Clean("note", cmd.Note, attendance.MaxTextLength)
	if err != nil {
		return nil, err
	}

	result := &OpenSessionResult{}
	var locked bool
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		g, err := uc.groups.GetActiveByID(txCtx, cmd.GroupID)
		if err != nil {
			return fmt.Errorf("failed to get group: %w", err)
		}
		if g == nil {
			return ErrGroupNotFound
		}
		if !g.HasTeacher(cmd.ActorID) {
			return attendance.ErrNotSessionTeacher
		}
		if err := attendance.ValidateLessonWindow(g.LessonStartMin, g.LessonEndMin); err != nil {
			return errors.NewValidationError("group lesson time is invalid", err.Error())
		}

		existing, err := uc.sessions.GetByGroupAndDate(txCtx, g.ID, today)
		if err != nil {
			return fmt.Errorf("failed to get attendance session: %w", err)
		}
		if existing != nil {
			if existing.IsDueForAutoLock(now) {
				if locked, err = uc.sessions.AutoLockIfDue(txCtx, existing.ID, now); err != nil {
					return fmt.Errorf("failed to auto-lock session: %w", err)
				}
				existing.AutoLock(now)
			}
			result.Session = existing
			return nil
		}

		s, err := attendance.NewSession(id.New(), g.ID, cmd.ActorID, g.RoomID, today, g.LessonStartMin, g.LessonEndMin, note)
		if err != nil {
			return errors.NewValidationError("invalid attendance session", err.Error())
		}
		if now.Before(s.OpenAt) {
			return attendance.ErrSessionNotOpenYet
		}
		if !now.Before(s.CloseAt) {
			return attendance.ErrSessionClosed
		}
		if err := uc.sessions.Create(txCtx, s); err != nil {
			if errors.IsDuplicateError(err) {
				return errors.NewValidationError("attendance session already exists for this date")
			}
			return err
		}
		result.Session = s
		result.Created = true
		return nil
	})
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to open attendance session", "group_id", cmd.GroupID, "error", err)
		}
		return nil, err
	}
	if locked {
		uc.metrics.SessionsAutoLocked(1)
	}

	if result.Created {
		uc.logger.Infow("attendance session opened",
			"session_id", result.Session.ID,
			"group_id", cmd.GroupID,
			"date", biztime.FormatDate(today),
		)
	}
	return result, nil
}
