package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davomat-inc/davomat/internal/infrastructure/database"
	"github.com/davomat-inc/davomat/internal/infrastructure/migration"
	"github.com/davomat-inc/davomat/internal/interfaces/cli/bootstrap"
	sharedConfig "github.com/davomat-inc/davomat/internal/shared/config"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

var (
	strategyName string
	name         string
	steps        int
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVar(&strategyName, "strategy", "", "Migration strategy (auto, goose, golang-migrate); default goose, auto for sqlite")

	cmd.AddCommand(
		newUpCommand(opts),
		newDownCommand(opts),
		newStatusCommand(opts),
		newCreateCommand(opts),
	)

	return cmd
}

func newUpCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(*opts)
		},
	}
}

func newDownCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDown(*opts)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(*opts)
		},
	}
}

func newCreateCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create new migration files with the specified name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(*opts)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func initEnv(opts bootstrap.Options) (*sharedConfig.Config, *migration.Manager, logger.Interface, error) {
	cfg, log, err := bootstrap.OpenDatabase(opts)
	if err != nil {
		return nil, nil, nil, err
	}

	manager, err := migration.NewManager(cfg.Database.Driver, strategyName)
	if err != nil {
		database.Close()
		return nil, nil, nil, err
	}
	return cfg, manager, log, nil
}

func runUp(opts bootstrap.Options) error {
	_, manager, log, err := initEnv(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "strategy", manager.GetStrategy().GetName())

	if err := manager.Migrate(database.Get()); err != nil {
		return err
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(opts bootstrap.Options) error {
	_, manager, log, err := initEnv(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running down migrations", "steps", steps)

	versioned, err := manager.Versioned()
	if err != nil {
		return err
	}
	if err := versioned.MigrateDown(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(opts bootstrap.Options) error {
	cfg, manager, log, err := initEnv(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	versioned, err := manager.Versioned()
	if err != nil {
		return err
	}

	version, err := versioned.GetVersion(database.Get())
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Printf("\nMigration Status:\n")
	fmt.Printf("  Driver:          %s\n", cfg.Database.Driver)
	fmt.Printf("  Strategy:        %s\n", versioned.GetName())
	fmt.Printf("  Current Version: %d\n", version)

	if goose, ok := versioned.(*migration.GooseStrategy); ok {
		if err := goose.Status(database.Get()); err != nil {
			log.Errorw("failed to get detailed status", "error", err)
			return fmt.Errorf("failed to get detailed status: %w", err)
		}
	}

	return nil
}

func runCreate(opts bootstrap.Options) error {
	_, manager, log, err := initEnv(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	versioned, err := manager.Versioned()
	if err != nil {
		return err
	}
	if err := versioned.Create(name); err != nil {
		log.Errorw("failed to create migration", "error", err)
		return err
	}

	fmt.Printf("Migration '%s' created\n", name)
	return nil
}
