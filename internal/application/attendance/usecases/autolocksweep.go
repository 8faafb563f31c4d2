package usecases

import (
	"context"
	"fmt"

	"github.com/davomat-inc/davomat/internal/domain/attendance"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

// AutoLockSweepUseCase locks every OPEN session whose close time has passed.
// It is run by the scheduler.
type AutoLockSweepUseCase struct {
	sessions attendance.SessionRepository
	clock    biztime.Clock
	metrics  AttendanceMetrics
	logger   logger.Interface
}

func NewAutoLockSweepUseCase(sessions attendance.SessionRepository, clock biztime.Clock, metrics AttendanceMetrics, logger logger.Interface) *AutoLockSweepUseCase {
	if metrics == nil {
		metrics = nopAttendanceMetrics{}
	}
	return &AutoLockSweepUseCase{
		sessions: sessions,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
	}
}

func (uc *AutoLockSweepUseCase) Execute(ctx context.Context) (int, error) {
	n, err := uc.sessions.AutoLockAllDue(ctx, uc.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to auto-lock sessions: %w", err)
	}
	if n > 0 {
		uc.metrics.SessionsAutoLocked(n)
		uc.logger.Infow("auto-locked attendance sessions", "count", n)
	}
	return int(n), nil
}
