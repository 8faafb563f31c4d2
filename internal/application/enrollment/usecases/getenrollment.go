package usecases

import (
	"context"
	"fmt"

	"github.com/davomat-inc/davomat/internal/application/enrollment/dto"
	"github.com/davomat-inc/davomat/internal/domain/enrollment"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

type GetEnrollmentUseCase struct {
	enrollments enrollment.Repository
	logger      logger.Interface
}

func NewGetEnrollmentUseCase(enrollments enrollment.Repository, logger logger.Interface) *GetEnrollmentUseCase {
	return &GetEnrollmentUseCase{enrollments: enrollments, logger: logger}
}

func (uc *GetEnrollmentUseCase) Execute(ctx context.Context, enrollmentID string) (*dto.EnrollmentDTO, error) {
	e, err := uc.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		uc.logger.Errorw("failed to get enrollment", "enrollment_id", enrollmentID, "error", err)
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	if e == nil {
		return nil, enrollment.ErrNotFound
	}
	return dto.ToEnrollmentDTO(e), nil
}
