package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumibank/credit-service/internal/domain/event"
	"github.com/lumibank/credit-service/pkg/kafka"
)

// producer is the slice of pkg/kafka.Producer the publisher needs.
type producer interface {
	Publish(ctx context.Context, messages ...kafka.Message) error
}

// KafkaEventPublisher implements port.EventPublisher by writing events to a
// Kafka topic, keyed by aggregate id so per-aggregate ordering survives
// partitioning.
type KafkaEventPublisher struct {
	producer producer
	logger   *slog.Logger
}

// NewKafkaEventPublisher creates a publisher on top of a topic-bound producer.
func NewKafkaEventPublisher(p producer, logger *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: p,
		logger:   logger,
	}
}

// Publish serialises and sends domain events in one batch.
func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	messages := make([]kafka.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_id":    evt.EventID(),
				"event_type":  evt.EventType(),
				"occurred_at": evt.OccurredAt().Format(time.RFC3339Nano),
			},
		})

		p.logger.Debug("publishing domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"payload_size", len(payload),
		)
	}

	if err := p.producer.Publish(ctx, messages...); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}
