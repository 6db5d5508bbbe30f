/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/aishanaaz19/assignment-growthx/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the assignment review server",
	Long: `Starts the assignment review server. Usage:

	assignments server
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := server.New(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}

		errs := make(chan error, 1)
		go func() {
			errs <- srv.Start()
		}()
		log.Info().Str("addr", srv.Addr()).Str("env", cfg.Env).Msg("server listening")

		select {
		case err := <-errs:
			if err != nil {
				log.Fatal().Err(err).Msg("server error")
			}
			return
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
