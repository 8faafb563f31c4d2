// Package attendance models lesson attendance sessions and their marks.
//
// A session is created for one group on one calendar date. It accepts marks
// only while OPEN and inside [openAt, closeAt). Once LOCKED it never reopens.
package attendance

import (
	"fmt"
	"time"

	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/errors"
)

type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionLocked SessionStatus = "LOCKED"
)

// MaxTextLength bounds comments and notes, in characters.
const MaxTextLength = 200

var (
	ErrSessionNotFound   = errors.NewNotFoundError("attendance session not found")
	ErrNotSessionTeacher = errors.NewForbiddenError("only the group teacher can take attendance")
	ErrSessionLocked     = errors.NewForbiddenError("attendance session is locked")
	ErrSessionNotOpenYet = errors.NewForbiddenError("attendance session is not open yet")
	ErrSessionClosed     = errors.NewForbiddenError("attendance session is already closed")
	ErrAlreadyFinalized  = errors.NewForbiddenError("attendance session is already finalized")
)

// Session is one lesson occurrence of a group.
type Session struct {
	ID            string
	GroupID       string
	TeacherID     string
	RoomID        *string
	Date          time.Time
	StartMin      int
	EndMin        int
	OpenAt        time.Time
	CloseAt       time.Time
	Status        SessionStatus
	LockedAt      *time.Time
	LockedByID    *string
	FinalizedAt   *time.Time
	FinalizedByID *string
	Note          *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateLessonWindow checks minute-of-day bounds of a lesson.
func ValidateLessonWindow(startMin, endMin int) error {
	if startMin < 0 || startMin > biztime.MinutesPerDay-1 {
		return fmt.Errorf("lesson start minute %d out of range 0..1439", startMin)
	}
	if endMin < 1 || endMin > biztime.MinutesPerDay {
		return fmt.Errorf("lesson end minute %d out of range 1..1440", endMin)
	}
	if startMin >= endMin {
		return fmt.Errorf("lesson start minute %d must be before end minute %d", startMin, endMin)
	}
	return nil
}

// NewSession builds an OPEN session for date. openAt and closeAt are the
// lesson minutes on that business calendar date.
func NewSession(id, groupID, teacherID string, roomID *string, date time.Time, startMin, endMin int, note *string) (*Session, error) {
	if id == "" || groupID == "" || teacherID == "" {
		return nil, fmt.Errorf("session id, group id and teacher id are required")
	}
	if err := ValidateLessonWindow(startMin, endMin); err != nil {
		return nil, err
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		GroupID:   groupID,
		TeacherID: teacherID,
		RoomID:    roomID,
		Date:      date,
		StartMin:  startMin,
		EndMin:    endMin,
		OpenAt:    biztime.AtMinute(date, startMin),
		CloseAt:   biztime.AtMinute(date, endMin),
		Status:    SessionOpen,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *Session) IsLocked() bool {
	return s.Status == SessionLocked || s.LockedAt != nil
}

func (s *Session) IsFinalized() bool {
	return s.FinalizedAt != nil
}

// IsDueForAutoLock reports whether an OPEN session has reached closeAt.
func (s *Session) IsDueForAutoLock(now time.Time) bool {
	return s.Status == SessionOpen && !s.CloseAt.After(now)
}

// AssertTeacher fails unless actorID is the assigned teacher.
func (s *Session) AssertTeacher(actorID string) error {
	if actorID == "" || actorID != s.TeacherID {
		return ErrNotSessionTeacher
	}
	return nil
}

// AssertWindowOpen checks, in order: locked, before openAt, at or after closeAt.
func (s *Session) AssertWindowOpen(now time.Time) error {
	if s.IsLocked() {
		return ErrSessionLocked
	}
	if now.Before(s.OpenAt) {
		return ErrSessionNotOpenYet
	}
	if !now.Before(s.CloseAt) {
		return ErrSessionClosed
	}
	return nil
}

// Finalize locks the session on behalf of actorID.
func (s *Session) Finalize(actorID string, note *string, now time.Time) error {
	if s.IsFinalized() {
		return ErrAlreadyFinalized
	}
	now = now.UTC()
	s.Status = SessionLocked
	s.LockedAt = &now
	s.LockedByID = &actorID
	s.FinalizedAt = &now
	s.FinalizedByID = &actorID
	s.Note = note
	s.UpdatedAt = now
	return nil
}

// AutoLock locks a due session without an actor. lockedAt is kept when set.
func (s *Session) AutoLock(now time.Time) {
	if s.Status == SessionLocked {
		return
	}
	now = now.UTC()
	s.Status = SessionLocked
	if s.LockedAt == nil {
		s.LockedAt = &now
	}
	s.UpdatedAt = now
}
