package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusLate    Status = "LATE"
	StatusExcused Status = "EXCUSED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// Source tells who wrote a mark: the teacher, or finalize back-filling absences.
type Source string

const (
	SourceTeacher Source = "TEACHER"
	SourceSystem  Source = "SYSTEM"
)

// Record is the mark of one student in one session.
type Record struct {
	ID         string
	SessionID  string
	StudentID  string
	Status     Status
	Comment    *string
	MarkedByID string
	MarkedAt   time.Time
	Source     Source
	UpdatedAt  time.Time
}

// NewTeacherMark builds a record written by the session teacher.
func NewTeacherMark(id, sessionID, studentID string, status Status, comment *string, actorID string, now time.Time) *Record {
	now = now.UTC()
	return &Record{
		ID:         id,
		SessionID:  sessionID,
		StudentID:  studentID,
		Status:     status,
		Comment:    comment,
		MarkedByID: actorID,
		MarkedAt:   now,
		Source:     SourceTeacher,
		UpdatedAt:  now,
	}
}

// NewAutoAbsent builds the ABSENT record finalize writes for unmarked students.
func NewAutoAbsent(id, sessionID, studentID, actorID string, now time.Time) *Record {
	now = now.UTC()
	return &Record{
		ID:         id,
		SessionID:  sessionID,
		StudentID:  studentID,
		Status:     StatusAbsent,
		MarkedByID: actorID,
		MarkedAt:   now,
		Source:     SourceSystem,
		UpdatedAt:  now,
	}
}
