package models

import (
	"time"

	"github.com/davomat-inc/davomat/internal/shared/constants"
)

// UserModel represents the database persistence model for users
type UserModel struct {
	ID                 string  `gorm:"primaryKey;size:26"`
	Phone              string  `gorm:"uniqueIndex;not null;size:20"`
	PasswordHash       *string `gorm:"size:255"`
	Role               string  `gorm:"not null;size:16;index"`
	Status             string  `gorm:"not null;size:16;default:ACTIVE"`
	TokenVersion       int     `gorm:"not null;default:0"`
	MustChangePassword bool    `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}

// RefreshTokenModel stores the peppered hash of each issued refresh token.
type RefreshTokenModel struct {
	ID        string    `gorm:"primaryKey;size:26"`
	UserID    string    `gorm:"not null;size:26;index"`
	TokenHash string    `gorm:"uniqueIndex;not null;size:64"`
	ExpiresAt time.Time `gorm:"not null"`
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (RefreshTokenModel) TableName() string {
	return constants.TableRefreshTokens
}
