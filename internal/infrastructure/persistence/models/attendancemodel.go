package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/davomat-inc/davomat/internal/shared/constants"
)

// AttendanceSessionModel is one lesson occurrence. Date holds the business
// calendar date; all instants are UTC.
type AttendanceSessionModel struct {
	ID            string         `gorm:"primaryKey;size:26"`
	GroupID       string         `gorm:"not null;size:26;uniqueIndex:uniq_session_group_date"`
	TeacherID     string         `gorm:"not null;size:26;index"`
	RoomID        *string        `gorm:"size:26"`
	Date          datatypes.Date `gorm:"not null;uniqueIndex:uniq_session_group_date"`
	StartMin      int            `gorm:"not null"`
	EndMin        int            `gorm:"not null"`
	OpenAt        time.Time      `gorm:"not null"`
	CloseAt       time.Time      `gorm:"not null;index:idx_session_status_close,priority:2"`
	Status        string         `gorm:"not null;size:16;default:OPEN;index:idx_session_status_close,priority:1"`
	LockedAt      *time.Time
	LockedByID    *string `gorm:"size:26"`
	FinalizedAt   *time.Time
	FinalizedByID *string `gorm:"size:26"`
	Note          *string `gorm:"size:200"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (AttendanceSessionModel) TableName() string {
	return constants.TableAttendanceSessions
}

type AttendanceModel struct {
	ID         string    `gorm:"primaryKey;size:26"`
	SessionID  string    `gorm:"not null;size:26;uniqueIndex:uniq_attendance_session_student"`
	StudentID  string    `gorm:"not null;size:26;uniqueIndex:uniq_attendance_session_student;index"`
	Status     string    `gorm:"not null;size:16"`
	Comment    *string   `gorm:"size:200"`
	MarkedByID string    `gorm:"not null;size:26"`
	MarkedAt   time.Time `gorm:"not null"`
	Source     string    `gorm:"not null;size:16;default:TEACHER"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (AttendanceModel) TableName() string {
	return constants.TableAttendances
}

// All lists every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&RefreshTokenModel{},
		&StudentProfileModel{},
		&GroupModel{},
		&EnrollmentModel{},
		&AttendanceSessionModel{},
		&AttendanceModel{},
	}
}
