package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/davomat-inc/davomat/internal/interfaces/cli/bootstrap"
	"github.com/davomat-inc/davomat/internal/interfaces/cli/migrate"
	"github.com/davomat-inc/davomat/internal/interfaces/cli/policy"
	"github.com/davomat-inc/davomat/internal/interfaces/cli/seed"
	"github.com/davomat-inc/davomat/internal/interfaces/cli/server"
	"github.com/davomat-inc/davomat/internal/shared/constants"
)

// @title Davomat API
// @version 1.0
// @description Auth, attendance and enrollment back office.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	opts := &bootstrap.Options{}

	rootCmd := &cobra.Command{
		Use:          "davomat",
		Short:        "Davomat - attendance and enrollment back office",
		Long:         `Davomat serves the auth, attendance and enrollment API and ships migration and seeding tools.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.Env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Directory containing config.yaml (default: ./configs)")

	rootCmd.AddCommand(
		server.NewCommand(opts),
		migrate.NewCommand(opts),
		seed.NewCommand(opts),
		policy.NewCommand(opts),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
