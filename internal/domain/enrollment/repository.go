package enrollment

import "context"

// ListFilter selects non-deleted enrollments. Empty fields match everything.
type ListFilter struct {
	StudentID string
	GroupID   string
	Status    Status
	Page      int
	PageSize  int
}

// Repository persists enrollments. Soft-deleted rows are invisible to every
// method, and "active" always means status ACTIVE and not deleted.
type Repository interface {
	Create(ctx context.Context, e *Enrollment) error

	// GetByID returns (nil, nil) for unknown or deleted rows.
	GetByID(ctx context.Context, id string) (*Enrollment, error)

	// Update writes status, ended_at and the soft delete columns.
	Update(ctx context.Context, e *Enrollment) error

	List(ctx context.Context, filter ListFilter) ([]*Enrollment, int64, error)

	ExistsActive(ctx context.Context, studentID, groupID string) (bool, error)
	CountActive(ctx context.Context, groupID string) (int64, error)

	// ActiveStudentIDs returns the students actively enrolled in the group.
	ActiveStudentIDs(ctx context.Context, groupID string) ([]string, error)

	// ListActiveStudents returns actively enrolled students ordered by
	// enrollment start.
	ListActiveStudents(ctx context.Context, groupID string) ([]ActiveStudent, error)
}
