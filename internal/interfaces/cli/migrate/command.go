// Package migrate implements the database migration CLI commands.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recurra-io/recurra/internal/infrastructure/config"
	"github.com/recurra-io/recurra/internal/infrastructure/database"
	"github.com/recurra-io/recurra/internal/infrastructure/migration"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Run database migrations, roll them back, or check their status.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(cfg *config.Config) error {
				if err := migration.Up(database.Get(), cfg.Database.Driver); err != nil {
					return fmt.Errorf("migration up failed: %w", err)
				}
				logger.Info("migrations applied")
				return nil
			})
		},
	}
}

func newDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(cfg *config.Config) error {
				if err := migration.Down(database.Get(), cfg.Database.Driver); err != nil {
					return fmt.Errorf("migration down failed: %w", err)
				}
				logger.Info("migration rolled back")
				return nil
			})
		},
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(cfg *config.Config) error {
				return migration.Status(database.Get(), cfg.Database.Driver)
			})
		},
	}
}

func withDatabase(fn func(cfg *config.Config) error) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	return fn(cfg)
}
