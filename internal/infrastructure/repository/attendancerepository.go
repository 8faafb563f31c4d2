package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/davomat-inc/davomat/internal/domain/attendance"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/mappers"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/models"
	"github.com/davomat-inc/davomat/internal/shared/db"
)

var sessionStudentConflict = []clause.Column{{Name: "session_id"}, {Name: "student_id"}}

// AttendanceRepository implements attendance.RecordRepository with gorm
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(gdb *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: gdb}
}

// Upsert keeps the row id of an existing mark and overwrites its content.
func (r *AttendanceRepository) Upsert(ctx context.Context, rec *attendance.Record) error {
	model := mappers.RecordToModel(rec)
	err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns: sessionStudentConflict,
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "comment", "marked_by_id", "marked_at", "source", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) MarkedStudentIDs(ctx context.Context, sessionID string) ([]string, error) {
	var ids []string
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.AttendanceModel{}).
		Where("session_id = ?", sessionID).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list marked students: %w", err)
	}
	return ids, nil
}

func (r *AttendanceRepository) InsertIgnoringDuplicates(ctx context.Context, records []*attendance.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	rows := make([]*models.AttendanceModel, 0, len(records))
	for _, rec := range records {
		rows = append(rows, mappers.RecordToModel(rec))
	}
	result := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{Columns: sessionStudentConflict, DoNothing: true}).
		Create(&rows)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert attendance: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *AttendanceRepository) ListBySessionIDs(ctx context.Context, sessionIDs []string) ([]*attendance.Record, error) {
	if len(sessionIDs) == 0 {
		return []*attendance.Record{}, nil
	}
	var rows []models.AttendanceModel
	if err := db.GetTxFromContext(ctx, r.db).Where("session_id IN ?", sessionIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	records := make([]*attendance.Record, 0, len(rows))
	for i := range rows {
		records = append(records, mappers.RecordToEntity(&rows[i]))
	}
	return records, nil
}
