package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"homestay/pkg/kafka"
	"homestay/pkg/logger"
	"homestay/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProducer struct {
	PublishFunc func(ctx context.Context, msg kafka.Message) error
}

func (m *mockProducer) Publish(ctx context.Context, msg kafka.Message) error {
	return m.PublishFunc(ctx, msg)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	var got kafka.Message
	producer := &mockProducer{PublishFunc: func(_ context.Context, msg kafka.Message) error {
		got = msg
		return nil
	}}

	event := model.BookingEvent{
		Type:       model.EventBookingConfirmed,
		BookingID:  "b1",
		GuestID:    "g1",
		HostID:     "h1",
		Status:     model.BookingConfirmed,
		OccurredAt: time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	ctx := logger.WithRequestID(context.Background(), "req-1")

	require.NoError(t, NewKafkaPublisher(producer, "bookings").Publish(ctx, event))

	assert.Equal(t, "b1", got.Key)
	assert.Equal(t, string(model.EventBookingConfirmed), got.GetEventType())
	assert.Equal(t, "req-1", got.GetCorrelationID())
	assert.Equal(t, "bookings", got.Headers[kafka.HeaderSource])
	assert.NotEmpty(t, got.GetEventID())

	var decoded model.BookingEvent
	require.NoError(t, got.DecodeValue(&decoded))
	assert.Equal(t, event.BookingID, decoded.BookingID)
	assert.Equal(t, event.Status, decoded.Status)
}

func TestKafkaPublisher_PropagatesProducerError(t *testing.T) {
	producer := &mockProducer{PublishFunc: func(context.Context, kafka.Message) error {
		return errors.New("broker down")
	}}

	err := NewKafkaPublisher(producer, "bookings").Publish(context.Background(), model.BookingEvent{BookingID: "b1"})
	assert.EqualError(t, err, "broker down")
}

func TestLocalPublisher(t *testing.T) {
	var handled model.BookingEvent
	p := NewLocalPublisher(func(_ context.Context, e model.BookingEvent) error {
		handled = e
		return nil
	})

	require.NoError(t, p.Publish(context.Background(), model.BookingEvent{BookingID: "b9"}))
	assert.Equal(t, "b9", handled.BookingID)
}
