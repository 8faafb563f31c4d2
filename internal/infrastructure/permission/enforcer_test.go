package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/davomat-inc/davomat/internal/shared/logger"
)

func newTestEnforcer(t *testing.T) (*Enforcer, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	e, err := NewEnforcer(gdb, logger.NewNop())
	require.NoError(t, err)
	return e, gdb
}

func TestEnforcer_DefaultPolicies(t *testing.T) {
	e, _ := newTestEnforcer(t)
	require.NoError(t, e.EnsureDefaultPolicies())

	tests := []struct {
		role, resource, action string
		want                   bool
	}{
		{"TEACHER", ResourceAttendance, ActionWrite, true},
		{"MANAGER", ResourceAttendance, ActionWrite, false},
		{"MANAGER", ResourceAttendance, ActionRead, true},
		{"STUDENT", ResourceAttendance, ActionRead, false},
		{"MANAGER", ResourceEnrollment, ActionWrite, true},
		{"MANAGER", ResourceEnrollment, ActionDelete, false},
		{"ADMIN", ResourceEnrollment, ActionDelete, true},
		{"ADMIN", ResourceUserSessions, ActionDelete, true},
		{"TEACHER", ResourceUserSessions, ActionDelete, false},
	}
	for _, tt := range tests {
		allowed, err := e.Enforce(tt.role, tt.resource, tt.action)
		require.NoError(t, err)
		assert.Equal(t, tt.want, allowed, "%s %s %s", tt.role, tt.resource, tt.action)
	}
}

func TestEnforcer_EnsureIsIdempotentAndPersistent(t *testing.T) {
	e, gdb := newTestEnforcer(t)
	require.NoError(t, e.EnsureDefaultPolicies())
	require.NoError(t, e.EnsureDefaultPolicies())

	perms, err := e.GetPermissionsForRole("ADMIN")
	require.NoError(t, err)
	assert.Len(t, perms, 5)

	// a second enforcer on the same store sees the saved rules
	again, err := NewEnforcer(gdb, logger.NewNop())
	require.NoError(t, err)
	allowed, err := again.Enforce("TEACHER", ResourceAttendance, ActionWrite)
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, again.RemovePolicy("TEACHER", ResourceAttendance, ActionWrite))
	require.NoError(t, e.LoadPolicy())
	allowed, err = e.Enforce("TEACHER", ResourceAttendance, ActionWrite)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestEnforcer_GrantIsVisibleAfterReload(t *testing.T) {
	e, gdb := newTestEnforcer(t)
	require.NoError(t, e.EnsureDefaultPolicies())

	cli, err := NewEnforcer(gdb, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, cli.AddPolicy("MANAGER", ResourceEnrollment, ActionDelete))

	allowed, err := e.Enforce("MANAGER", ResourceEnrollment, ActionDelete)
	require.NoError(t, err)
	assert.False(t, allowed, "cached rules until reload")

	require.NoError(t, e.LoadPolicy())
	allowed, err = e.Enforce("MANAGER", ResourceEnrollment, ActionDelete)
	require.NoError(t, err)
	assert.True(t, allowed)

	perms, err := e.GetPermissionsForRole("MANAGER")
	require.NoError(t, err)
	assert.Contains(t, perms, []string{"MANAGER", ResourceEnrollment, ActionDelete})
}
