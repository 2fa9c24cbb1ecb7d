package events

import (
	"context"
	"fmt"

	"homestay/pkg/kafka"
	"homestay/pkg/logger"
	"homestay/pkg/model"
)

const SchemaVersion = "1"

// MessagePublisher is the part of the Kafka producer the publisher needs.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaPublisher writes booking events to the booking events topic, keyed by
// booking id so events of one booking stay ordered.
type KafkaPublisher struct {
	producer MessagePublisher
	source   string
}

func NewKafkaPublisher(producer MessagePublisher, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event model.BookingEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(string(event.Type)).
		WithCorrelationID(logger.RequestID(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		return fmt.Errorf("build booking event message: %w", err)
	}
	return p.producer.Publish(ctx, msg)
}

// LocalPublisher delivers events in-process, used when no broker is configured.
type LocalPublisher struct {
	handle func(ctx context.Context, event model.BookingEvent) error
}

func NewLocalPublisher(handle func(ctx context.Context, event model.BookingEvent) error) *LocalPublisher {
	return &LocalPublisher{handle: handle}
}

func (p *LocalPublisher) Publish(ctx context.Context, event model.BookingEvent) error {
	return p.handle(ctx, event)
}
