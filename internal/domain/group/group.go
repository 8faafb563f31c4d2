// Package group is the read model of teaching groups. Groups are managed
// outside this service; only the fields attendance and enrollment need are
// modelled.
package group

import (
	"context"
	"time"
)

type Group struct {
	ID             string
	Name           string
	Capacity       int
	IsActive       bool
	TeacherID      *string
	RoomID         *string
	LessonStartMin int
	LessonEndMin   int
	DeletedAt      *time.Time
}

// IsUsable reports whether the group is active and not deleted.
func (g *Group) IsUsable() bool {
	return g.IsActive && g.DeletedAt == nil
}

// HasTeacher reports whether userID is the assigned teacher.
func (g *Group) HasTeacher(userID string) bool {
	return g.TeacherID != nil && *g.TeacherID == userID
}

type Repository interface {
	// GetActiveByID returns the group only when active and not deleted,
	// otherwise (nil, nil).
	GetActiveByID(ctx context.Context, id string) (*Group, error)

	// GetActiveByIDForUpdate is GetActiveByID holding a row lock until the
	// transaction ends. Seat allocation serializes on it.
	GetActiveByIDForUpdate(ctx context.Context, id string) (*Group, error)
}
