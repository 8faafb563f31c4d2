package handlers

import (
	"context"

	"github.com/davomat-inc/davomat/internal/application/enrollment/dto"
	"github.com/davomat-inc/davomat/internal/application/enrollment/usecases"
)

type createEnrollmentUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateEnrollmentCommand) (*dto.EnrollmentDTO, error)
}

type updateEnrollmentStatusUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateEnrollmentStatusCommand) (*dto.EnrollmentDTO, error)
}

type deleteEnrollmentUseCase interface {
	Execute(ctx context.Context, cmd usecases.DeleteEnrollmentCommand) error
}

type getEnrollmentUseCase interface {
	Execute(ctx context.Context, enrollmentID string) (*dto.EnrollmentDTO, error)
}

type listEnrollmentsUseCase interface {
	Execute(ctx context.Context, query usecases.ListEnrollmentsQuery) (*usecases.ListEnrollmentsResult, error)
}
