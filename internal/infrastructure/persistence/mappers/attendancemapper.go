package mappers

import (
	"time"

	"gorm.io/datatypes"

	"github.com/davomat-inc/davomat/internal/domain/attendance"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/models"
)

func SessionToEntity(m *models.AttendanceSessionModel) *attendance.Session {
	d := time.Time(m.Date)
	return &attendance.Session{
		ID:            m.ID,
		GroupID:       m.GroupID,
		TeacherID:     m.TeacherID,
		RoomID:        m.RoomID,
		Date:          time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
		StartMin:      m.StartMin,
		EndMin:        m.EndMin,
		OpenAt:        m.OpenAt.UTC(),
		CloseAt:       m.CloseAt.UTC(),
		Status:        attendance.SessionStatus(m.Status),
		LockedAt:      utcPtr(m.LockedAt),
		LockedByID:    m.LockedByID,
		FinalizedAt:   utcPtr(m.FinalizedAt),
		FinalizedByID: m.FinalizedByID,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

func SessionToModel(s *attendance.Session) *models.AttendanceSessionModel {
	return &models.AttendanceSessionModel{
		ID:            s.ID,
		GroupID:       s.GroupID,
		TeacherID:     s.TeacherID,
		RoomID:        s.RoomID,
		Date:          datatypes.Date(s.Date),
		StartMin:      s.StartMin,
		EndMin:        s.EndMin,
		OpenAt:        s.OpenAt.UTC(),
		CloseAt:       s.CloseAt.UTC(),
		Status:        string(s.Status),
		LockedAt:      utcPtr(s.LockedAt),
		LockedByID:    s.LockedByID,
		FinalizedAt:   utcPtr(s.FinalizedAt),
		FinalizedByID: s.FinalizedByID,
		Note:          s.Note,
		CreatedAt:     s.CreatedAt.UTC(),
		UpdatedAt:     s.UpdatedAt.UTC(),
	}
}

func RecordToEntity(m *models.AttendanceModel) *attendance.Record {
	return &attendance.Record{
		ID:         m.ID,
		SessionID:  m.SessionID,
		StudentID:  m.StudentID,
		Status:     attendance.Status(m.Status),
		Comment:    m.Comment,
		MarkedByID: m.MarkedByID,
		MarkedAt:   m.MarkedAt.UTC(),
		Source:     attendance.Source(m.Source),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

func RecordToModel(r *attendance.Record) *models.AttendanceModel {
	return &models.AttendanceModel{
		ID:         r.ID,
		SessionID:  r.SessionID,
		StudentID:  r.StudentID,
		Status:     string(r.Status),
		Comment:    r.Comment,
		MarkedByID: r.MarkedByID,
		MarkedAt:   r.MarkedAt.UTC(),
		Source:     string(r.Source),
		CreatedAt:  r.MarkedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
