// Package student is the read model of student profiles.
package student

import (
	"context"
	"time"
)

type Profile struct {
	ID        string
	FirstName string
	LastName  string
	Phone     *string
	IsActive  bool
	DeletedAt *time.Time
}

type Repository interface {
	// GetActiveByID returns the profile only when active and not deleted,
	// otherwise (nil, nil).
	GetActiveByID(ctx context.Context, id string) (*Profile, error)
}
