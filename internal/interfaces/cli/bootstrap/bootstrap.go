// Package bootstrap loads configuration and opens the process-wide
// resources shared by every command.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/davomat-inc/davomat/internal/infrastructure/config"
	"github.com/davomat-inc/davomat/internal/infrastructure/database"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/constants"
	sharedConfig "github.com/davomat-inc/davomat/internal/shared/config"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

// Options are the persistent flags of the root command.
type Options struct {
	Env        string
	ConfigPath string
}

// Load reads the configuration, then initializes the logger and the
// business timezone. The ENV variable overrides --env.
func Load(opts Options) (*sharedConfig.Config, logger.Interface, error) {
	env := opts.Env
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	var paths []string
	if opts.ConfigPath != "" {
		paths = append(paths, opts.ConfigPath)
	}

	cfg, err := config.Load(MapEnvToGinMode(env), paths...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// OpenDatabase loads everything and connects to the database. The caller
// closes it with database.Close.
func OpenDatabase(opts Options) (*sharedConfig.Config, logger.Interface, error) {
	cfg, log, err := Load(opts)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, log, nil
}

// MapEnvToGinMode converts a deployment environment name into a gin mode.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case constants.EnvProduction, "prod", "release":
		return "release"
	case constants.EnvTest, "testing":
		return "test"
	default:
		return "debug"
	}
}
