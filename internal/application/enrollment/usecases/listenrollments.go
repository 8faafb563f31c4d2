package usecases

import (
	"context"

	"github.com/davomat-inc/davomat/internal/application/enrollment/dto"
	"github.com/davomat-inc/davomat/internal/domain/enrollment"
	"github.com/davomat-inc/davomat/internal/shared/constants"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

type ListEnrollmentsQuery struct {
	StudentID string
	GroupID   string
	Status    string
	Page      int
	PageSize  int
}

type ListEnrollmentsResult struct {
	Enrollments []*dto.EnrollmentDTO
	Total       int64
	Page        int
	PageSize    int
}

type ListEnrollmentsUseCase struct {
	enrollments enrollment.Repository
	logger      logger.Interface
}

func NewListEnrollmentsUseCase(enrollments enrollment.Repository, logger logger.Interface) *ListEnrollmentsUseCase {
	return &ListEnrollmentsUseCase{enrollments: enrollments, logger: logger}
}

func (uc *ListEnrollmentsUseCase) Execute(ctx context.Context, query ListEnrollmentsQuery) (*ListEnrollmentsResult, error) {
	if query.Page < 1 {
		query.Page = constants.DefaultPage
	}
	if query.PageSize < 1 {
		query.PageSize = constants.DefaultPageSize
	}
	if query.PageSize > constants.MaxPageSize {
		query.PageSize = constants.MaxPageSize
	}

	filter := enrollment.ListFilter{
		StudentID: query.StudentID,
		GroupID:   query.GroupID,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	if query.Status != "" {
		status := enrollment.Status(query.Status)
		if !status.IsValid() {
			return nil, errors.NewValidationError("status must be one of ACTIVE, DROPPED, COMPLETED")
		}
		filter.Status = status
	}

	list, total, err := uc.enrollments.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list enrollments", "error", err)
		return nil, err
	}

	return &ListEnrollmentsResult{
		Enrollments: dto.ToEnrollmentDTOs(list),
		Total:       total,
		Page:        query.Page,
		PageSize:    query.PageSize,
	}, nil
}
