package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/davomat-inc/davomat/internal/infrastructure/database"
	"github.com/davomat-inc/davomat/internal/infrastructure/migration"
	"github.com/davomat-inc/davomat/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/davomat-inc/davomat/internal/interfaces/http"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/utils"
)

const shutdownTimeout = 30 * time.Second

var (
	autoMigrate       bool
	migrationStrategy string
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the davomat HTTP server together with the attendance auto-lock job.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(*opts)
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup")
	cmd.Flags().StringVar(&migrationStrategy, "strategy", "", "Migration strategy for --auto-migrate (auto, goose, golang-migrate)")

	return cmd
}

func run(opts bootstrap.Options) error {
	cfg, log, err := bootstrap.OpenDatabase(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("starting server", "mode", cfg.Server.Mode, "auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	if err := utils.RegisterGinValidators(); err != nil {
		return err
	}

	if autoMigrate {
		manager, err := migration.NewManager(cfg.Database.Driver, migrationStrategy)
		if err != nil {
			return err
		}
		if err := manager.Migrate(database.Get()); err != nil {
			return err
		}
	}

	container, err := httpRouter.NewContainer(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	router := httpRouter.NewRouter(container)
	router.SetupRoutes()

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server listening", "address", cfg.Server.GetAddr())
		errCh <- router.Run(cfg.Server.GetAddr())
	}()

	// SIGHUP reloads the permission rules written by `davomat policy`.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

wait:
	for {
		select {
		case err := <-errCh:
			if err != nil {
				container.Shutdown()
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case sig := <-quit:
			if sig == syscall.SIGHUP {
				if err := container.ReloadPolicies(); err != nil {
					log.Errorw("failed to reload permission policies", "error", err)
				}
				continue
			}
			log.Infow("shutting down server", "signal", sig.String())
			break wait
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := router.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}
