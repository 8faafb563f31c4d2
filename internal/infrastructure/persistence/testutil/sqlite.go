// Package testutil provides an in-memory database and seed helpers for tests
// that exercise repositories and use cases end to end.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/models"
)

// NewSQLiteDB opens a migrated in-memory sqlite database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	// every connection of :memory: is a separate database
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(models.All()...))
	return gdb
}

// SeedUser inserts an ACTIVE user with the given role and password hash.
func SeedUser(t *testing.T, gdb *gorm.DB, id, phone, role, passwordHash string) {
	t.Helper()
	m := &models.UserModel{
		ID:     id,
		Phone:  phone,
		Role:   role,
		Status: "ACTIVE",
	}
	if passwordHash != "" {
		m.PasswordHash = &passwordHash
	}
	require.NoError(t, gdb.Create(m).Error)
}

// SeedGroup inserts an active group taught by teacherID with lessons from
// startMin to endMin.
func SeedGroup(t *testing.T, gdb *gorm.DB, id string, capacity int, teacherID string, startMin, endMin int) {
	t.Helper()
	require.NoError(t, gdb.Create(&models.GroupModel{
		ID:             id,
		Name:           "Group " + id,
		Capacity:       capacity,
		IsActive:       true,
		TeacherID:      &teacherID,
		LessonStartMin: startMin,
		LessonEndMin:   endMin,
	}).Error)
}

func SeedStudent(t *testing.T, gdb *gorm.DB, id, firstName string) {
	t.Helper()
	require.NoError(t, gdb.Create(&models.StudentProfileModel{
		ID:        id,
		FirstName: firstName,
		LastName:  "Test",
		IsActive:  true,
	}).Error)
}

// SeedEnrollment inserts an ACTIVE enrollment started at startedAt.
func SeedEnrollment(t *testing.T, gdb *gorm.DB, id, studentID, groupID string, startedAt time.Time) {
	t.Helper()
	require.NoError(t, gdb.Create(&models.EnrollmentModel{
		ID:        id,
		StudentID: studentID,
		GroupID:   groupID,
		Status:    "ACTIVE",
		StartedAt: startedAt.UTC(),
	}).Error)
}
