// Package enrollment links students to groups.
package enrollment

import (
	"fmt"
	"time"

	"github.com/davomat-inc/davomat/internal/shared/errors"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusDropped   Status = "DROPPED"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusDropped, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether s ends an enrollment.
func (s Status) IsTerminal() bool {
	return s == StatusDropped || s == StatusCompleted
}

const defaultDeleteReason = "manual delete"

var (
	ErrNotFound          = errors.NewNotFoundError("enrollment not found")
	ErrStudentNotFound   = errors.NewNotFoundError("student not found or not active")
	ErrGroupNotFound     = errors.NewNotFoundError("group not found or not active")
	ErrAlreadyEnrolled   = errors.NewValidationError("student is already enrolled in this group")
	ErrGroupFull         = errors.NewForbiddenError("group is full")
	ErrInvalidTransition = errors.NewValidationError("only an ACTIVE enrollment can change status")
	ErrInvalidNextStatus = errors.NewValidationError("status must be DROPPED or COMPLETED")
)

type Enrollment struct {
	ID           string
	StudentID    string
	GroupID      string
	Status       Status
	StartedAt    time.Time
	EndedAt      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
	DeletedByID  *string
	DeleteReason *string
}

func NewEnrollment(id, studentID, groupID string, now time.Time) (*Enrollment, error) {
	if id == "" || studentID == "" || groupID == "" {
		return nil, fmt.Errorf("enrollment id, student id and group id are required")
	}
	now = now.UTC()
	return &Enrollment{
		ID:        id,
		StudentID: studentID,
		GroupID:   groupID,
		Status:    StatusActive,
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ChangeStatus ends an ACTIVE enrollment as DROPPED or COMPLETED.
func (e *Enrollment) ChangeStatus(next Status, now time.Time) error {
	if !next.IsTerminal() {
		return ErrInvalidNextStatus
	}
	if e.Status != StatusActive {
		return ErrInvalidTransition
	}
	now = now.UTC()
	e.Status = next
	e.EndedAt = &now
	e.UpdatedAt = now
	return nil
}

// MarkDeleted soft deletes the enrollment. An empty reason is recorded as
// "manual delete".
func (e *Enrollment) MarkDeleted(actorID, reason string, now time.Time) {
	if reason == "" {
		reason = defaultDeleteReason
	}
	now = now.UTC()
	e.DeletedAt = &now
	e.DeletedByID = &actorID
	e.DeleteReason = &reason
	e.UpdatedAt = now
}

// ActiveStudent is a student with an ACTIVE enrollment, as listed in the
// monthly attendance grid.
type ActiveStudent struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
