package dto

import (
	"time"

	"github.com/davomat-inc/davomat/internal/domain/enrollment"
)

type EnrollmentDTO struct {
	ID        string     `json:"id"`
	StudentID string     `json:"studentId"`
	GroupID   string     `json:"groupId"`
	Status    string     `json:"status"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func ToEnrollmentDTO(e *enrollment.Enrollment) *EnrollmentDTO {
	if e == nil {
		return nil
	}
	return &EnrollmentDTO{
		ID:        e.ID,
		StudentID: e.StudentID,
		GroupID:   e.GroupID,
		Status:    string(e.Status),
		StartedAt: e.StartedAt,
		EndedAt:   e.EndedAt,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToEnrollmentDTOs(list []*enrollment.Enrollment) []*EnrollmentDTO {
	result := make([]*EnrollmentDTO, 0, len(list))
	for _, e := range list {
		result = append(result, ToEnrollmentDTO(e))
	}
	return result
}
