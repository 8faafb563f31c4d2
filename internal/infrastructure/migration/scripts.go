package migration

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed scripts
var scriptsFS embed.FS

// ScriptsDir is where new migration files are created, relative to the
// repository root.
const ScriptsDir = "internal/infrastructure/migration/scripts"

// gooseDialect maps a database driver to the goose dialect and script dir.
func gooseDialect(driver string) (dialect, dir string, err error) {
	switch driver {
	case "", "postgres":
		return "postgres", "scripts/goose/postgres", nil
	case "mysql":
		return "mysql", "scripts/goose/mysql", nil
	case "sqlite":
		return "sqlite3", "scripts/goose/sqlite", nil
	}
	return "", "", fmt.Errorf("goose: unsupported driver %q", driver)
}

func migrateDir(driver string) (string, error) {
	switch driver {
	case "", "postgres":
		return "scripts/migrate/postgres", nil
	case "mysql":
		return "scripts/migrate/mysql", nil
	}
	return "", fmt.Errorf("golang-migrate: unsupported driver %q", driver)
}

// Scripts exposes the embedded scripts, mainly for tests.
func Scripts() fs.FS {
	return scriptsFS
}
