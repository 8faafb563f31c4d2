package migration

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/models"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return gdb
}

func TestNewManager_DefaultStrategy(t *testing.T) {
	m, err := NewManager("sqlite", "")
	require.NoError(t, err)
	assert.Equal(t, "gorm_auto_migrate", m.GetStrategy().GetName())

	m, err = NewManager("postgres", "")
	require.NoError(t, err)
	assert.Equal(t, "goose", m.GetStrategy().GetName())

	m, err = NewManager("mysql", StrategyGolangMigrate)
	require.NoError(t, err)
	assert.Equal(t, "golang_migrate", m.GetStrategy().GetName())

	_, err = NewManager("sqlite", StrategyGolangMigrate)
	assert.Error(t, err)

	_, err = NewManager("postgres", "flyway")
	assert.Error(t, err)
}

func TestAutoMigrate_CreatesTables(t *testing.T) {
	gdb := openSQLite(t)
	m, err := NewManager("sqlite", StrategyAuto)
	require.NoError(t, err)
	require.NoError(t, m.Migrate(gdb))

	for _, model := range models.All() {
		assert.True(t, gdb.Migrator().HasTable(model))
	}

	_, err = m.Versioned()
	assert.Error(t, err)
}

func TestGoose_SQLiteUpAndDown(t *testing.T) {
	gdb := openSQLite(t)
	m, err := NewManager("sqlite", StrategyGoose)
	require.NoError(t, err)
	require.NoError(t, m.Migrate(gdb))

	assert.True(t, gdb.Migrator().HasTable("attendance_sessions"))
	assert.True(t, gdb.Migrator().HasIndex(&models.EnrollmentModel{}, "uniq_active_enrollment"))

	v, err := m.Versioned()
	require.NoError(t, err)
	version, err := v.GetVersion(gdb)
	require.NoError(t, err)
	assert.Equal(t, int64(20250101000001), version)

	require.NoError(t, v.MigrateDown(gdb, 1))
	assert.False(t, gdb.Migrator().HasTable("users"))
}

func TestScripts_EveryDialectHasInit(t *testing.T) {
	for _, dir := range []string{
		"scripts/goose/postgres", "scripts/goose/mysql", "scripts/goose/sqlite",
		"scripts/migrate/postgres", "scripts/migrate/mysql",
	} {
		entries, err := fs.ReadDir(Scripts(), dir)
		require.NoError(t, err, dir)
		assert.NotEmpty(t, entries, dir)
	}
}
