package attendance

import (
	"context"
	"time"
)

// SessionRepository persists sessions. Get methods return (nil, nil) when the
// row does not exist.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)

	// GetByIDForUpdate is GetByID with a row lock held until the transaction
	// ends. Writers serialize on it.
	GetByIDForUpdate(ctx context.Context, id string) (*Session, error)

	GetByGroupAndDate(ctx context.Context, groupID string, date time.Time) (*Session, error)

	// AutoLockIfDue locks the session when it is OPEN and close_at <= now.
	// lockedAt is only written when still NULL. It reports whether a row changed.
	AutoLockIfDue(ctx context.Context, id string, now time.Time) (bool, error)

	// AutoLockAllDue is AutoLockIfDue for every session.
	AutoLockAllDue(ctx context.Context, now time.Time) (int64, error)

	// SaveFinalized writes the lock and finalize columns and the note. It
	// only updates a row that is still OPEN and unfinalized and returns
	// ErrAlreadyFinalized otherwise.
	SaveFinalized(ctx context.Context, s *Session) error

	// ListByGroupAndDateRange returns sessions with from <= date < to ordered by date.
	ListByGroupAndDateRange(ctx context.Context, groupID string, from, to time.Time) ([]*Session, error)
}

// RecordRepository persists marks.
type RecordRepository interface {
	// Upsert inserts or overwrites the mark of (session, student).
	Upsert(ctx context.Context, r *Record) error

	// MarkedStudentIDs returns the students that already have a mark.
	MarkedStudentIDs(ctx context.Context, sessionID string) ([]string, error)

	// InsertIgnoringDuplicates inserts records and silently skips any
	// (session, student) that already exists. It returns the rows written.
	InsertIgnoringDuplicates(ctx context.Context, records []*Record) (int64, error)

	ListBySessionIDs(ctx context.Context, sessionIDs []string) ([]*Record, error)
}
