package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/davomat-inc/davomat/internal/domain/attendance"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/mappers"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/models"
	"github.com/davomat-inc/davomat/internal/shared/db"
)

// AttendanceSessionRepository implements attendance.SessionRepository with gorm
type AttendanceSessionRepository struct {
	db *gorm.DB
}

func NewAttendanceSessionRepository(gdb *gorm.DB) *AttendanceSessionRepository {
	return &AttendanceSessionRepository{db: gdb}
}

func (r *AttendanceSessionRepository) Create(ctx context.Context, s *attendance.Session) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(mappers.SessionToModel(s)).Error; err != nil {
		return fmt.Errorf("failed to create attendance session: %w", err)
	}
	return nil
}

func (r *AttendanceSessionRepository) GetByID(ctx context.Context, id string) (*attendance.Session, error) {
	return r.getOne(ctx, db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

// GetByIDForUpdate reads the session holding a row lock until the
// surrounding transaction ends.
func (r *AttendanceSessionRepository) GetByIDForUpdate(ctx context.Context, id string) (*attendance.Session, error) {
	return r.getOne(ctx, db.GetTxFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *AttendanceSessionRepository) GetByGroupAndDate(ctx context.Context, groupID string, date time.Time) (*attendance.Session, error) {
	return r.getOne(ctx, db.GetTxFromContext(ctx, r.db).
		Where("group_id = ? AND date = ?", groupID, datatypes.Date(date)))
}

func (r *AttendanceSessionRepository) getOne(_ context.Context, q *gorm.DB) (*attendance.Session, error) {
	var model models.AttendanceSessionModel
	if err := q.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance session: %w", err)
	}
	return mappers.SessionToEntity(&model), nil
}

// autoLockUpdates locks due sessions. COALESCE keeps an earlier lockedAt.
func autoLockUpdates(now time.Time) map[string]any {
	return map[string]any{
		"status":     string(attendance.SessionLocked),
		"locked_at":  gorm.Expr("COALESCE(locked_at, ?)", now),
		"updated_at": now,
	}
}

func (r *AttendanceSessionRepository) AutoLockIfDue(ctx context.Context, id string, now time.Time) (bool, error) {
	now = now.UTC()
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.AttendanceSessionModel{}).
		Where("id = ? AND status = ? AND close_at <= ?", id, string(attendance.SessionOpen), now).
		Updates(autoLockUpdates(now))
	if result.Error != nil {
		return false, fmt.Errorf("failed to auto-lock attendance session: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *AttendanceSessionRepository) AutoLockAllDue(ctx context.Context, now time.Time) (int64, error) {
	now = now.UTC()
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.AttendanceSessionModel{}).
		Where("status = ? AND close_at <= ?", string(attendance.SessionOpen), now).
		Updates(autoLockUpdates(now))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to auto-lock attendance sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *AttendanceSessionRepository) SaveFinalized(ctx context.Context, s *attendance.Session) error {
	model := mappers.SessionToModel(s)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.AttendanceSessionModel{}).
		Where("id = ? AND finalized_at IS NULL AND status = ?", model.ID, string(attendance.SessionOpen)).
		Updates(map[string]any{
			"status":          model.Status,
			"locked_at":       model.LockedAt,
			"locked_by_id":    model.LockedByID,
			"finalized_at":    model.FinalizedAt,
			"finalized_by_id": model.FinalizedByID,
			"note":            model.Note,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to finalize attendance session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return attendance.ErrAlreadyFinalized
	}
	return nil
}

func (r *AttendanceSessionRepository) ListByGroupAndDateRange(ctx context.Context, groupID string, from, to time.Time) ([]*attendance.Session, error) {
	var rows []models.AttendanceSessionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("group_id = ? AND date >= ? AND date < ?", groupID, datatypes.Date(from), datatypes.Date(to)).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance sessions: %w", err)
	}

	sessions := make([]*attendance.Session, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, mappers.SessionToEntity(&rows[i]))
	}
	return sessions, nil
}
