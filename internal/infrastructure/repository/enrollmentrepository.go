package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/davomat-inc/davomat/internal/domain/enrollment"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/mappers"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/models"
	"github.com/davomat-inc/davomat/internal/shared/constants"
	"github.com/davomat-inc/davomat/internal/shared/db"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

// EnrollmentRepository implements enrollment.Repository with gorm
type EnrollmentRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewEnrollmentRepository(gdb *gorm.DB, log logger.Interface) *EnrollmentRepository {
	return &EnrollmentRepository{db: gdb, logger: log}
}

func (r *EnrollmentRepository) active() func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Scopes(db.NotDeleted()).Where("status = ?", string(enrollment.StatusActive))
	}
}

// Create returns enrollment.ErrAlreadyEnrolled when the partial unique index
// rejects a second active row.
func (r *EnrollmentRepository) Create(ctx context.Context, e *enrollment.Enrollment) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(mappers.EnrollmentToModel(e)).Error; err != nil {
		if isDuplicate(err) {
			return enrollment.ErrAlreadyEnrolled
		}
		r.logger.Errorw("failed to create enrollment", "student_id", e.StudentID, "group_id", e.GroupID, "error", err)
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id string) (*enrollment.Enrollment, error) {
	var model models.EnrollmentModel
	err := db.GetTxFromContext(ctx, r.db).Scopes(db.NotDeleted()).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return mappers.EnrollmentToEntity(&model), nil
}

func (r *EnrollmentRepository) Update(ctx context.Context, e *enrollment.Enrollment) error {
	model := mappers.EnrollmentToModel(e)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.EnrollmentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"status":        model.Status,
			"ended_at":      model.EndedAt,
			"deleted_at":    model.DeletedAt,
			"deleted_by_id": model.DeletedByID,
			"delete_reason": model.DeleteReason,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return enrollment.ErrAlreadyEnrolled
		}
		return fmt.Errorf("failed to update enrollment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return enrollment.ErrNotFound
	}
	return nil
}

func (r *EnrollmentRepository) List(ctx context.Context, filter enrollment.ListFilter) ([]*enrollment.Enrollment, int64, error) {
	q := db.GetTxFromContext(ctx, r.db).Model(&models.EnrollmentModel{}).Scopes(db.NotDeleted())
	if filter.StudentID != "" {
		q = q.Where("student_id = ?", filter.StudentID)
	}
	if filter.GroupID != "" {
		q = q.Where("group_id = ?", filter.GroupID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var rows []models.EnrollmentModel
	err := q.Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}

	result := make([]*enrollment.Enrollment, 0, len(rows))
	for i := range rows {
		result = append(result, mappers.EnrollmentToEntity(&rows[i]))
	}
	return result, total, nil
}

func (r *EnrollmentRepository) ExistsActive(ctx context.Context, studentID, groupID string) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.EnrollmentModel{}).
		Scopes(r.active()).
		Where("student_id = ? AND group_id = ?", studentID, groupID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return count > 0, nil
}

func (r *EnrollmentRepository) CountActive(ctx context.Context, groupID string) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.EnrollmentModel{}).
		Scopes(r.active()).
		Where("group_id = ?", groupID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active enrollments: %w", err)
	}
	return count, nil
}

func (r *EnrollmentRepository) ActiveStudentIDs(ctx context.Context, groupID string) ([]string, error) {
	var ids []string
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.EnrollmentModel{}).
		Scopes(r.active()).
		Where("group_id = ?", groupID).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active students: %w", err)
	}
	return ids, nil
}

func (r *EnrollmentRepository) ListActiveStudents(ctx context.Context, groupID string) ([]enrollment.ActiveStudent, error) {
	var students []enrollment.ActiveStudent
	err := db.GetTxFromContext(ctx, r.db).
		Table(constants.TableEnrollments+" e").
		Select("s.id AS id, s.first_name AS first_name, s.last_name AS last_name").
		Joins("JOIN "+constants.TableStudentProfiles+" s ON s.id = e.student_id").
		Scopes(db.NotDeletedWithAlias("e")).
		Where("e.group_id = ? AND e.status = ?", groupID, string(enrollment.StatusActive)).
		Order("e.started_at ASC").
		Scan(&students).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active students: %w", err)
	}
	if students == nil {
		students = []enrollment.ActiveStudent{}
	}
	return students, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = constants.DefaultPage
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}
