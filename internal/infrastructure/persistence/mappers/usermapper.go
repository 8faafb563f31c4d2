package mappers

import (
	"fmt"

	"github.com/davomat-inc/davomat/internal/domain/user"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/models"
	"github.com/davomat-inc/davomat/internal/shared/authorization"
)

// UserMapper handles the conversion between domain entities and persistence models
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) *models.UserModel
}

type userMapper struct{}

func NewUserMapper() UserMapper {
	return userMapper{}
}

func (userMapper) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}
	role, ok := authorization.ParseUserRole(model.Role)
	if !ok {
		return nil, fmt.Errorf("unknown role %q for user %s", model.Role, model.ID)
	}
	return user.ReconstructUser(user.UserData{
		ID:                 model.ID,
		Phone:              model.Phone,
		PasswordHash:       model.PasswordHash,
		Role:               role,
		Status:             user.Status(model.Status),
		TokenVersion:       model.TokenVersion,
		MustChangePassword: model.MustChangePassword,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	})
}

func (userMapper) ToModel(entity *user.User) *models.UserModel {
	var hash *string
	if entity.HasPassword() {
		h := entity.PasswordHash()
		hash = &h
	}
	return &models.UserModel{
		ID:                 entity.ID(),
		Phone:              entity.Phone(),
		PasswordHash:       hash,
		Role:               entity.Role().String(),
		Status:             entity.Status().String(),
		TokenVersion:       entity.TokenVersion(),
		MustChangePassword: entity.MustChangePassword(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}
}

// RefreshTokenToEntity and RefreshTokenToModel map ledger rows one to one.
func RefreshTokenToEntity(m *models.RefreshTokenModel) *user.RefreshToken {
	return &user.RefreshToken{
		ID:        m.ID,
		UserID:    m.UserID,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt.UTC(),
		RevokedAt: utcPtr(m.RevokedAt),
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func RefreshTokenToModel(t *user.RefreshToken) *models.RefreshTokenModel {
	return &models.RefreshTokenModel{
		ID:        t.ID,
		UserID:    t.UserID,
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt.UTC(),
		RevokedAt: utcPtr(t.RevokedAt),
		CreatedAt: t.CreatedAt.UTC(),
	}
}
