// Package migration applies the database schema. SQLite deployments use GORM
// AutoMigrate; MySQL deployments run the embedded goose scripts so schema
// history stays versioned.
package migration

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/recurra-io/recurra/internal/infrastructure/persistence/models"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

//go:embed scripts/*.sql
var embedMigrations embed.FS

// Up brings the schema up to date for the given driver.
func Up(gdb *gorm.DB, driver string) error {
	if driver == "" || driver == "sqlite" {
		return autoMigrate(gdb)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "scripts"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations applied")
	return nil
}

// Down rolls back the most recent migration. Not supported for SQLite
// AutoMigrate deployments.
func Down(gdb *gorm.DB, driver string) error {
	if driver == "" || driver == "sqlite" {
		return fmt.Errorf("rollback is not supported with auto-migrate")
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.Down(sqlDB, "scripts")
}

// Status prints the migration status for script-based deployments.
func Status(gdb *gorm.DB, driver string) error {
	if driver == "" || driver == "sqlite" {
		logger.Info("schema managed by auto-migrate")
		return nil
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.Status(sqlDB, "scripts")
}

func autoMigrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.UserModel{},
		&models.TrackingModel{},
		&models.TrackingScheduleModel{},
		&models.ReminderModel{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("schema auto-migrated")
	return nil
}
