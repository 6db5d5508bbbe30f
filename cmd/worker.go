/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"

	"github.com/aishanaaz19/assignment-growthx/internal/mq"
	"github.com/aishanaaz19/assignment-growthx/types"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consumes assignment events and logs a notification for each",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		broker, err := mq.Open(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open mq")
		}
		if broker == nil {
			log.Fatal().Msg("MQ_BACKEND is none, nothing to consume")
		}
		defer broker.Close()

		channels := []string{types.ChannelAssignmentCreated, types.ChannelAssignmentDecided}
		log.Info().Strs("channels", channels).Str("backend", cfg.MQBackend).Msg("worker started")

		err = broker.SubscribeAll(ctx, channels, notify(log))
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal().Err(err).Msg("worker stopped")
		}
		log.Info().Msg("worker stopped")
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

// notify logs who should hear about an event. Undecodable payloads are
// logged and acknowledged so they are not redelivered forever.
func notify(log zerolog.Logger) mq.Handler {
	return func(ctx context.Context, msg mq.Message) error {
		var event types.AssignmentEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Error().Err(err).Str("message_id", msg.ID).Str("channel", msg.Channel).Msg("discarding malformed event")
			return nil
		}

		entry := log.Info().
			Str("message_id", msg.ID).
			Str("assignment_id", event.Assignment.ID).
			Str("status", string(event.Assignment.Status)).
			Time("occurred_at", event.OccurredAt)

		switch event.Type {
		case types.ChannelAssignmentCreated:
			entry.Str("recipient", event.Assignment.Admin).
				Msgf("new assignment %q awaiting review", event.Assignment.Task)
		case types.ChannelAssignmentDecided:
			entry.Str("recipient", event.Assignment.UserID).
				Msgf("assignment %q was %s", event.Assignment.Task, event.Assignment.Status)
		default:
			entry.Str("type", event.Type).Msg("unknown assignment event")
		}
		return nil
	}
}
