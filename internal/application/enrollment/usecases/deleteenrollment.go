package usecases

import (
	"context"
	"fmt"

	"github.com/davomat-inc/davomat/internal/domain/enrollment"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/db"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

type DeleteEnrollmentCommand struct {
	ActorID      string
	EnrollmentID string
	Reason       string
}

type DeleteEnrollmentUseCase struct {
	enrollments enrollment.Repository
	txMgr       db.Transactor
	clock       biztime.Clock
	logger      logger.Interface
}

func NewDeleteEnrollmentUseCase(
	enrollments enrollment.Repository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *DeleteEnrollmentUseCase {
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	return &DeleteEnrollmentUseCase{
		enrollments: enrollments,
		txMgr:       txMgr,
		clock:       clock,
		logger:      logger,
	}
}

// Execute soft deletes the enrollment. A deleted row is invisible afterwards,
// so a second call reports not found.
func (uc *DeleteEnrollmentUseCase) Execute(ctx context.Context, cmd DeleteEnrollmentCommand) error {
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		e, err := uc.enrollments.GetByID(txCtx, cmd.EnrollmentID)
		if err != nil {
			return fmt.Errorf("failed to get enrollment: %w", err)
		}
		if e == nil {
			return enrollment.ErrNotFound
		}
		e.MarkDeleted(cmd.ActorID, cmd.Reason, uc.clock.Now())
		return uc.enrollments.Update(txCtx, e)
	})
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to delete enrollment", "enrollment_id", cmd.EnrollmentID, "error", err)
		}
		return err
	}

	uc.logger.Infow("enrollment deleted", "enrollment_id", cmd.EnrollmentID, "actor_id", cmd.ActorID)
	return nil
}
