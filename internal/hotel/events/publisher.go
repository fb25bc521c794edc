// Package events carries ledger domain events over Kafka: KafkaPublisher on
// the service side and Handler on the consumer side.
package events

import (
	"context"
	"fmt"

	"hotelier/pkg/kafka"
	"hotelier/pkg/logger"
	"hotelier/pkg/middleware"
	"hotelier/pkg/model"
)

const (
	SchemaVersion = "1"
	Source        = "hotel"
)

// MessagePublisher is satisfied by *kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaPublisher struct {
	producer MessagePublisher
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(producer MessagePublisher, source string, log *logger.Logger) *KafkaPublisher {
	if source == "" {
		source = Source
	}
	if log == nil {
		log = logger.Discard()
	}
	return &KafkaPublisher{producer: producer, source: source, log: log}
}

// Publish sends one event keyed by room number, so every event for a room
// lands on the same partition in order.
func (p *KafkaPublisher) Publish(ctx context.Context, event model.Event) error {
	key := event.Key()
	if key == "" {
		return fmt.Errorf("event %s has neither room nor booking", event.Type)
	}

	builder := kafka.NewMessage().
		WithKey(key).
		WithValue(event).
		WithEventType(string(event.Type)).
		WithSource(p.source).
		WithSchemaVersion(SchemaVersion)
	if !event.OccurredAt.IsZero() {
		builder = builder.WithTimestamp(event.OccurredAt)
	}
	if requestID := middleware.RequestID(ctx); requestID != "" {
		builder = builder.WithCorrelationID(requestID)
	}
	msg := builder.Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for room %s: %w", event.Type, key, err)
	}

	p.log.Debug("Event published", "type", event.Type, "key", key, "event_id", msg.GetEventID())
	return nil
}
