/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/aishanaaz19/assignment-growthx/config"
	"github.com/aishanaaz19/assignment-growthx/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "assignments",
	Short: "Assignment review portal",
	Long: `Users submit assignments to admins, who accept or reject them.

	assignments server        run the HTTP server
	assignments migrate up    apply the PostgreSQL schema
	assignments worker        log assignment lifecycle events
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, zerolog.Logger) {
	cfg := config.LoadConfig()
	return cfg, logging.New(cfg.Log.Level, cfg.Log.Pretty)
}
