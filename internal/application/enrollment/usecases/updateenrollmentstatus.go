package usecases

import (
	"context"
	"fmt"

	"github.com/davomat-inc/davomat/internal/application/enrollment/dto"
	"github.com/davomat-inc/davomat/internal/domain/enrollment"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/db"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

type UpdateEnrollmentStatusCommand struct {
	ActorID      string
	EnrollmentID string
	Status       enrollment.Status
}

type UpdateEnrollmentStatusUseCase struct {
	enrollments enrollment.Repository
	txMgr       db.Transactor
	clock       biztime.Clock
	logger      logger.Interface
}

func NewUpdateEnrollmentStatusUseCase(
	enrollments enrollment.Repository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *UpdateEnrollmentStatusUseCase {
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	return &UpdateEnrollmentStatusUseCase{
		enrollments: enrollments,
		txMgr:       txMgr,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *UpdateEnrollmentStatusUseCase) Execute(ctx context.Context, cmd UpdateEnrollmentStatusCommand) (*dto.EnrollmentDTO, error) {
	if !cmd.Status.IsTerminal() {
		return nil, enrollment.ErrInvalidNextStatus
	}

	var updated *enrollment.Enrollment
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		e, err := uc.enrollments.GetByID(txCtx, cmd.EnrollmentID)
		if err != nil {
			return fmt.Errorf("failed to get enrollment: %w", err)
		}
		if e == nil {
			return enrollment.ErrNotFound
		}
		if err := e.ChangeStatus(cmd.Status, uc.clock.Now()); err != nil {
			return err
		}
		if err := uc.enrollments.Update(txCtx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to update enrollment status", "enrollment_id", cmd.EnrollmentID, "error", err)
		}
		return nil, err
	}

	uc.logger.Infow("enrollment status changed",
		"enrollment_id", updated.ID,
		"status", updated.Status,
		"actor_id", cmd.ActorID,
	)
	return dto.ToEnrollmentDTO(updated), nil
}
