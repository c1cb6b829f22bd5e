package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/events"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/kafka"
)

// Header keys set on every published event.
const (
	HeaderEventID       = "event_id"
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
	HeaderOwnerID       = "owner_id"
)

// MessageProducer is the part of kafka.Producer the publisher needs.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...kafka.Message) error
}

// KafkaEntryPublisher implements events.EntryPublisher by writing outbox
// entries to one topic, keyed by aggregate id so a debt's events stay ordered.
type KafkaEntryPublisher struct {
	producer MessageProducer
	topic    string
	logger   *slog.Logger
}

// NewKafkaEntryPublisher creates a publisher targeting topic.
func NewKafkaEntryPublisher(producer MessageProducer, topic string, logger *slog.Logger) *KafkaEntryPublisher {
	return &KafkaEntryPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// PublishEntries sends entries in a single write.
func (p *KafkaEntryPublisher) PublishEntries(ctx context.Context, entries []events.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(entries))
	for _, e := range entries {
		messages = append(messages, kafka.Message{
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Time:  e.CreatedAt,
			Headers: map[string]string{
				HeaderEventID:       e.ID,
				HeaderEventType:     e.EventType,
				HeaderAggregateType: e.AggregateType,
				HeaderOwnerID:       e.OwnerID,
			},
		})
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("publish %d events: %w", len(entries), err)
	}

	p.logger.DebugContext(ctx, "published domain events",
		slog.String("topic", p.topic),
		slog.Int("count", len(entries)),
	)
	return nil
}
