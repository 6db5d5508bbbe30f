package db

import (
	"errors"
	"fmt"

	"github.com/aishanaaz19/assignment-growthx/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// DefaultMigrationsURL points at the SQL files relative to the repo root.
const DefaultMigrationsURL = "file://internal/db/migrations"

// MigrateUp applies all pending up migrations.
func MigrateUp(cfg config.DatabaseConfig, migrationsURL string) error {
	return runMigration(cfg, migrationsURL, func(m *migrate.Migrate) error { return m.Up() })
}

// MigrateDown rolls back every applied migration.
func MigrateDown(cfg config.DatabaseConfig, migrationsURL string) error {
	return runMigration(cfg, migrationsURL, func(m *migrate.Migrate) error { return m.Down() })
}

func runMigration(cfg config.DatabaseConfig, migrationsURL string, step func(*migrate.Migrate) error) error {
	if migrationsURL == "" {
		migrationsURL = DefaultMigrationsURL
	}

	migrator, err := migrate.New(migrationsURL, PostgresURL(cfg))
	if err != nil {
		return fmt.Errorf("init migrator failed: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if err := step(migrator); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
