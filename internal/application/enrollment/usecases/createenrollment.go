package usecases

import (
	"context"
	"fmt"

	"github.com/davomat-inc/davomat/internal/application/enrollment/dto"
	"github.com/davomat-inc/davomat/internal/domain/enrollment"
	"github.com/davomat-inc/davomat/internal/domain/group"
	"github.com/davomat-inc/davomat/internal/domain/student"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/db"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/id"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

type CreateEnrollmentCommand struct {
	ActorID   string
	StudentID string
	GroupID   string
}

type CreateEnrollmentUseCase struct {
	enrollments enrollment.Repository
	students    student.Repository
	groups      group.Repository
	txMgr       db.Transactor
	clock       biztime.Clock
	logger      logger.Interface
}

func NewCreateEnrollmentUseCase(
	enrollments enrollment.Repository,
	students student.Repository,
	groups group.Repository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *CreateEnrollmentUseCase {
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	return &CreateEnrollmentUseCase{
		enrollments: enrollments,
		students:    students,
		groups:      groups,
		txMgr:       txMgr,
		clock:       clock,
		logger:      logger,
	}
}

// Execute enrolls the student. The group row stays locked from the capacity
// check until the insert commits, so concurrent signups take seats one at a
// time. The unique index on active rows settles inserts of the same pair.
func (uc *CreateEnrollmentUseCase) Execute(ctx context.Context, cmd CreateEnrollmentCommand) (*dto.EnrollmentDTO, error) {
	if cmd.StudentID == "" || cmd.GroupID == "" {
		return nil, errors.NewValidationError("studentId and groupId are required")
	}

	var created *enrollment.Enrollment
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		s, err := uc.students.GetActiveByID(txCtx, cmd.StudentID)
		if err != nil {
			return fmt.Errorf("failed to get student: %w", err)
		}
		if s == nil {
			return enrollment.ErrStudentNotFound
		}

		g, err := uc.groups.GetActiveByIDForUpdate(txCtx, cmd.GroupID)
		if err != nil {
			return fmt.Errorf("failed to get group: %w", err)
		}
		if g == nil {
			return enrollment.ErrGroupNotFound
		}

		exists, err := uc.enrollments.ExistsActive(txCtx, s.ID, g.ID)
		if err != nil {
			return err
		}
		if exists {
			return enrollment.ErrAlreadyEnrolled
		}

		count, err := uc.enrollments.CountActive(txCtx, g.ID)
		if err != nil {
			return err
		}
		if count >= int64(g.Capacity) {
			return enrollment.ErrGroupFull
		}

		e, err := enrollment.NewEnrollment(id.New(), s.ID, g.ID, uc.clock.Now())
		if err != nil {
			return errors.NewValidationError("invalid enrollment", err.Error())
		}
		if err := uc.enrollments.Create(txCtx, e); err != nil {
			return err
		}
		created = e
		return nil
	})
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to create enrollment",
				"student_id", cmd.StudentID,
				"group_id", cmd.GroupID,
				"error", err,
			)
		}
		return nil, err
	}

	uc.logger.Infow("student enrolled",
		"enrollment_id", created.ID,
		"student_id", created.StudentID,
		"group_id", created.GroupID,
		"actor_id", cmd.ActorID,
	)
	return dto.ToEnrollmentDTO(created), nil
}
