package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/davomat-inc/davomat/internal/domain/user"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/mappers"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/models"
	"github.com/davomat-inc/davomat/internal/shared/db"
)

// RefreshTokenRepository implements user.RefreshTokenRepository with gorm
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(gdb *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: gdb}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *user.RefreshToken) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(mappers.RefreshTokenToModel(t)).Error; err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*user.RefreshToken, error) {
	var model models.RefreshTokenModel
	if err := db.GetTxFromContext(ctx, r.db).Where("token_hash = ?", tokenHash).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return mappers.RefreshTokenToEntity(&model), nil
}

func (r *RefreshTokenRepository) RevokeIfLive(ctx context.Context, id string, at time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.RefreshTokenModel{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at.UTC())
	if result.Error != nil {
		return false, fmt.Errorf("failed to revoke refresh token: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at.UTC())
	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
