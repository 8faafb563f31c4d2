package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/davomat-inc/davomat/internal/domain/attendance"
	"github.com/davomat-inc/davomat/internal/shared/db"
)

// AttendanceMetrics counts lock and mark activity.
type AttendanceMetrics interface {
	SessionsAutoLocked(n int64)
	AttendanceWritten(source string, n int64)
}

type nopAttendanceMetrics struct{}

func (nopAttendanceMetrics) SessionsAutoLocked(int64)        {}
func (nopAttendanceMetrics) AttendanceWritten(string, int64) {}

// sessionGuard runs the precondition chain shared by every write to a
// session: auto-lock, existence, teacher, optional extra check, window.
type sessionGuard struct {
	sessions attendance.SessionRepository
	txMgr    db.Transactor
	metrics  AttendanceMetrics
}

type sessionCheck func(s *attendance.Session) error

// run executes fn inside one transaction once the chain passed. A session
// locked by the chain itself stays locked even though the call is rejected.
func (g *sessionGuard) run(
	ctx context.Context,
	sessionID, actorID string,
	now time.Time,
	extra sessionCheck,
	fn func(ctx context.Context, s *attendance.Session) error,
) error {
	var locked bool
	var denied error

	err := g.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		locked, err = g.sessions.AutoLockIfDue(txCtx, sessionID, now)
		if err != nil {
			return fmt.Errorf("failed to auto-lock session: %w", err)
		}

		s, err := g.check(txCtx, sessionID, actorID, now, extra)
		if err != nil {
			if locked {
				denied = err
				return nil
			}
			return err
		}
		return fn(txCtx, s)
	})
	if err != nil {
		return err
	}
	if locked {
		g.metrics.SessionsAutoLocked(1)
	}
	return denied
}

func (g *sessionGuard) check(ctx context.Context, sessionID, actorID string, now time.Time, extra sessionCheck) (*attendance.Session, error) {
	s, err := g.sessions.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance session: %w", err)
	}
	if s == nil {
		return nil, attendance.ErrSessionNotFound
	}
	if err := s.AssertTeacher(actorID); err != nil {
		return nil, err
	}
	if extra != nil {
		if err := extra(s); err != nil {
			return nil, err
		}
	}
	if err := s.AssertWindowOpen(now); err != nil {
		return nil, err
	}
	return s, nil
}
