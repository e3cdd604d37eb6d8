/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/financeapi/apiserver/config"
	"github.com/financeapi/apiserver/internal/log"
	"github.com/financeapi/apiserver/internal/mq"
	"github.com/financeapi/apiserver/types"
	"github.com/spf13/cobra"
)

// eventsCmd tails the resource event stream.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Subscribe to resource events and log them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logger := newLogger(cfg, log.ComponentEvents)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		broker, err := mq.Open(ctx, cfg.Events)
		if err != nil {
			return fmt.Errorf("open events backend: %w", err)
		}
		if broker == nil {
			return errors.New("events are disabled; set EVENTS_BACKEND")
		}
		defer broker.Close()

		logger.Info("listening for events", "backend", cfg.Events.Backend, "channel", cfg.Events.Channel)
		err = mq.SubscribeEvents(ctx, broker, cfg.Events.Channel,
			func(ctx context.Context, event types.ResourceEvent) error {
				logger.InfoContext(ctx, "resource event",
					"type", string(event.Type),
					"resource", event.Resource,
					"resource_id", event.ResourceID,
					"user_id", event.UserID,
					"occurred_at", event.OccurredAt,
				)
				return nil
			},
			func(msg mq.Message, err error) {
				logger.Warn("skipping undecodable message", "message_id", msg.ID, "error", err)
			},
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
