/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"

	"github.com/aishanaaz19/assignment-growthx/config"
	"github.com/aishanaaz19/assignment-growthx/internal/db"
	"github.com/spf13/cobra"
)

var migrationsURL string

var errMongoMigrations = errors.New("DB_DRIVER is mongo: indexes are created by the server, there is nothing to migrate")

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run PostgreSQL schema migrations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if cfg.Database.Driver == config.DBDriverMongo {
			return errMongoMigrations
		}
		return nil
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := loadConfig()
		if err := db.MigrateUp(cfg.Database, migrationsURL); err != nil {
			return err
		}
		log.Info().Str("database", cfg.Database.DBName).Msg("migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := loadConfig()
		if err := db.MigrateDown(cfg.Database, migrationsURL); err != nil {
			return err
		}
		log.Info().Str("database", cfg.Database.DBName).Msg("migrations rolled back")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	migrateCmd.PersistentFlags().StringVar(&migrationsURL, "path", db.DefaultMigrationsURL, "migration source URL")
}
