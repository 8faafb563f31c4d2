package models

import (
	"time"

	"github.com/davomat-inc/davomat/internal/shared/constants"
)

type StudentProfileModel struct {
	ID        string     `gorm:"primaryKey;size:26"`
	FirstName string     `gorm:"not null;size:100"`
	LastName  string     `gorm:"not null;size:100"`
	Phone     *string    `gorm:"size:20"`
	IsActive  bool       `gorm:"not null;default:true"`
	DeletedAt *time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StudentProfileModel) TableName() string {
	return constants.TableStudentProfiles
}

type GroupModel struct {
	ID             string     `gorm:"primaryKey;size:26"`
	Name           string     `gorm:"not null;size:100"`
	Capacity       int        `gorm:"not null"`
	IsActive       bool       `gorm:"not null;default:true"`
	TeacherID      *string    `gorm:"size:26;index"`
	RoomID         *string    `gorm:"size:26"`
	LessonStartMin int        `gorm:"not null"`
	LessonEndMin   int        `gorm:"not null"`
	DeletedAt      *time.Time `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (GroupModel) TableName() string {
	return constants.TableGroups
}

// EnrollmentModel keeps at most one ACTIVE, non-deleted row per
// (student, group) through a partial unique index.
type EnrollmentModel struct {
	ID           string    `gorm:"primaryKey;size:26"`
	StudentID    string    `gorm:"not null;size:26;index;uniqueIndex:uniq_active_enrollment,where:status = 'ACTIVE' AND deleted_at IS NULL"`
	GroupID      string    `gorm:"not null;size:26;index;uniqueIndex:uniq_active_enrollment"`
	Status       string    `gorm:"not null;size:16;default:ACTIVE"`
	StartedAt    time.Time `gorm:"not null"`
	EndedAt      *time.Time
	DeletedAt    *time.Time `gorm:"index"`
	DeletedByID  *string    `gorm:"size:26"`
	DeleteReason *string    `gorm:"size:200"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (EnrollmentModel) TableName() string {
	return constants.TableEnrollments
}
