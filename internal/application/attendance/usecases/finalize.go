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

type FinalizeCommand struct {
	ActorID   string
	SessionID string
	Note      *string
}

type FinalizeResult struct {
	OK         bool `json:"ok"`
	AutoAbsent int  `json:"autoAbsent"`
}

type FinalizeUseCase struct {
	guard       *sessionGuard
	sessions    attendance.SessionRepository
	records     attendance.RecordRepository
	enrollments enrollment.Repository
	sanitizer   sanitize.TextSanitizer
	clock       biztime.Clock
	metrics     AttendanceMetrics
	logger      logger.Interface
}

func NewFinalizeUseCase(
	sessions attendance.SessionRepository,
	records attendance.RecordRepository,
	enrollments enrollment.Repository,
	txMgr db.Transactor,
	sanitizer sanitize.TextSanitizer,
	clock biztime.Clock,
	metrics AttendanceMetrics,
	logger logger.Interface,
) *FinalizeUseCase {
	if metrics == nil {
		metrics = nopAttendanceMetrics{}
	}
	return &FinalizeUseCase{
		guard:       &sessionGuard{sessions: sessions, txMgr: txMgr, metrics: metrics},
		sessions:    sessions,
		records:     records,
		enrollments: enrollments,
		sanitizer:   sanitizer,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
	}
}

func rejectFinalized(s *attendance.Session) error {
	if s.IsFinalized() {
		return attendance.ErrAlreadyFinalized
	}
	return nil
}

// Execute back-fills ABSENT marks for unmarked active students and locks the
// session. It succeeds at most once per session; the finalized check runs
// before the window check so a repeated call reports "already finalized".
func (uc *FinalizeUseCase) Execute(ctx context.Context, cmd FinalizeCommand) (*FinalizeResult, error) {
	note, err := uc.sanitizer.Clean("note", cmd.Note, attendance.MaxTextLength)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	result := &FinalizeResult{OK: true}
	err = uc.guard.run(ctx, cmd.SessionID, cmd.ActorID, now, rejectFinalized, func(txCtx context.Context, s *attendance.Session) error {
		activeIDs, err := uc.enrollments.ActiveStudentIDs(txCtx, s.GroupID)
		if err != nil {
			return fmt.Errorf("failed to list active students: %w", err)
		}
		markedIDs, err := uc.records.MarkedStudentIDs(txCtx, s.ID)
		if err != nil {
			return fmt.Errorf("failed to list marked students: %w", err)
		}
		marked := make(map[string]struct{}, len(markedIDs))
		for _, sid := range markedIDs {
			marked[sid] = struct{}{}
		}

		var missing []*attendance.Record
		for _, sid := range activeIDs {
			if _, ok := marked[sid]; ok {
				continue
			}
			missing = append(missing, attendance.NewAutoAbsent(id.New(), s.ID, sid, cmd.ActorID, now))
		}
		written, err := uc.records.InsertIgnoringDuplicates(txCtx, missing)
		if err != nil {
			return err
		}
		result.AutoAbsent = int(written)

		if err := s.Finalize(cmd.ActorID, note, now); err != nil {
			return err
		}
		return uc.sessions.SaveFinalized(txCtx, s)
	})
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to finalize attendance session", "session_id", cmd.SessionID, "error", err)
		}
		return nil, err
	}

	uc.metrics.AttendanceWritten(string(attendance.SourceSystem), int64(result.AutoAbsent))
	uc.logger.Infow("attendance session finalized",
		"session_id", cmd.SessionID,
		"actor_id", cmd.ActorID,
		"auto_absent", result.AutoAbsent,
	)
	return result, nil
}
