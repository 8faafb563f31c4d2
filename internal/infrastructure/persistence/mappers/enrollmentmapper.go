package mappers

import (
	"github.com/davomat-inc/davomat/internal/domain/enrollment"
	"github.com/davomat-inc/davomat/internal/domain/group"
	"github.com/davomat-inc/davomat/internal/domain/student"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/models"
)

func EnrollmentToEntity(m *models.EnrollmentModel) *enrollment.Enrollment {
	return &enrollment.Enrollment{
		ID:           m.ID,
		StudentID:    m.StudentID,
		GroupID:      m.GroupID,
		Status:       enrollment.Status(m.Status),
		StartedAt:    m.StartedAt.UTC(),
		EndedAt:      utcPtr(m.EndedAt),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
		DeletedAt:    utcPtr(m.DeletedAt),
		DeletedByID:  m.DeletedByID,
		DeleteReason: m.DeleteReason,
	}
}

func EnrollmentToModel(e *enrollment.Enrollment) *models.EnrollmentModel {
	return &models.EnrollmentModel{
		ID:           e.ID,
		StudentID:    e.StudentID,
		GroupID:      e.GroupID,
		Status:       string(e.Status),
		StartedAt:    e.StartedAt.UTC(),
		EndedAt:      utcPtr(e.EndedAt),
		CreatedAt:    e.CreatedAt.UTC(),
		UpdatedAt:    e.UpdatedAt.UTC(),
		DeletedAt:    utcPtr(e.DeletedAt),
		DeletedByID:  e.DeletedByID,
		DeleteReason: e.DeleteReason,
	}
}

func GroupToEntity(m *models.GroupModel) *group.Group {
	return &group.Group{
		ID:             m.ID,
		Name:           m.Name,
		Capacity:       m.Capacity,
		IsActive:       m.IsActive,
		TeacherID:      m.TeacherID,
		RoomID:         m.RoomID,
		LessonStartMin: m.LessonStartMin,
		LessonEndMin:   m.LessonEndMin,
		DeletedAt:      utcPtr(m.DeletedAt),
	}
}

func StudentToEntity(m *models.StudentProfileModel) *student.Profile {
	return &student.Profile{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     m.Phone,
		IsActive:  m.IsActive,
		DeletedAt: utcPtr(m.DeletedAt),
	}
}
