package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/davomat-inc/davomat/internal/domain/user"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/mappers"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/models"
	"github.com/davomat-inc/davomat/internal/shared/db"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

// UserRepository implements user.Repository with gorm
type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

func NewUserRepository(gdb *gorm.DB, log logger.Interface) *UserRepository {
	return &UserRepository{
		db:     gdb,
		mapper: mappers.NewUserMapper(),
		logger: log,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*user.User, error) {
	return r.getOne(ctx, "phone = ?", phone)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map user model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map user: %w", err)
	}
	return entity, nil
}

func (r *UserRepository) GetTokenVersion(ctx context.Context, id string) (int, bool, error) {
	var versions []int
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", id).
		Limit(1).
		Pluck("token_version", &versions).Error
	if err != nil {
		return 0, false, fmt.Errorf("failed to get token version: %w", err)
	}
	if len(versions) == 0 {
		return 0, false, nil
	}
	return versions[0], true, nil
}

func (r *UserRepository) UpdateCredentials(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"password_hash":        model.PasswordHash,
			"must_change_password": model.MustChangePassword,
			"token_version":        gorm.Expr("CASE WHEN token_version > ? THEN token_version ELSE ? END", model.TokenVersion, model.TokenVersion),
			"updated_at":           model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update user credentials: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update user credentials: user %s not found", model.ID)
	}
	return nil
}

func (r *UserRepository) BumpTokenVersion(ctx context.Context, id string) (int, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.UserModel{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to bump token version: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("failed to bump token version: user %s not found", id)
	}

	version, _, err := r.GetTokenVersion(ctx, id)
	if err != nil {
		return 0, err
	}
	return version, nil
}
