package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/infrastructure/config"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/infrastructure/messaging"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/kafka"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect published domain events",
	}

	var group string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print events from the receivables topic as they arrive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := config.Load()
			if group != "" {
				cfg.Kafka.ConsumerGroup = group
			}
			logger := newLogger(cfg)

			consumer, err := kafka.NewConsumer(kafkaConfig(cfg), cfg.Kafka.Topic, printEvent(cmd.OutOrStdout()), logger)
			if err != nil {
				return err
			}
			defer consumer.Close()

			return consumer.Start(ctx)
		},
	}
	tail.Flags().StringVar(&group, "group", "", "Consumer group (defaults to KAFKA_CONSUMER_GROUP)")

	cmd.AddCommand(tail)
	return cmd
}

type tailedEvent struct {
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	EventID     string          `json:"event_id"`
	Payload     json.RawMessage `json:"payload"`
}

// printEvent writes one JSON line per message.
func printEvent(w io.Writer) kafka.Handler {
	return func(_ context.Context, msg kafka.Message) error {
		payload := json.RawMessage(msg.Value)
		if !json.Valid(payload) {
			payload, _ = json.Marshal(string(msg.Value))
		}
		line, err := json.Marshal(tailedEvent{
			Type:        msg.Headers[messaging.HeaderEventType],
			AggregateID: string(msg.Key),
			EventID:     msg.Headers[messaging.HeaderEventID],
			Payload:     payload,
		})
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		_, err = fmt.Fprintln(w, string(line))
		return err
	}
}
