package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/davomat-inc/davomat/internal/domain/group"
	"github.com/davomat-inc/davomat/internal/domain/student"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/mappers"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/models"
	"github.com/davomat-inc/davomat/internal/shared/db"
	apperrors "github.com/davomat-inc/davomat/internal/shared/errors"
)

// GroupRepository reads groups. Groups are written by migrations and seeds.
type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(gdb *gorm.DB) *GroupRepository {
	return &GroupRepository{db: gdb}
}

func (r *GroupRepository) GetActiveByID(ctx context.Context, id string) (*group.Group, error) {
	return r.getActive(db.GetTxFromContext(ctx, r.db), id)
}

func (r *GroupRepository) GetActiveByIDForUpdate(ctx context.Context, id string) (*group.Group, error) {
	return r.getActive(db.GetTxFromContext(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GroupRepository) getActive(q *gorm.DB, id string) (*group.Group, error) {
	var model models.GroupModel
	err := q.Scopes(db.ActiveRows()).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return mappers.GroupToEntity(&model), nil
}

// StudentRepository reads student profiles.
type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(gdb *gorm.DB) *StudentRepository {
	return &StudentRepository{db: gdb}
}

func (r *StudentRepository) GetActiveByID(ctx context.Context, id string) (*student.Profile, error) {
	var model models.StudentProfileModel
	err := db.GetTxFromContext(ctx, r.db).Scopes(db.ActiveRows()).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}
	return mappers.StudentToEntity(&model), nil
}

func isDuplicate(err error) bool {
	return apperrors.IsDuplicateError(err)
}
