package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	apperrors "homestay/pkg/errors"
	"homestay/pkg/kafka"
	"homestay/pkg/logger"
	"homestay/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEventHandler struct {
	HandleBookingEventFunc func(ctx context.Context, event model.BookingEvent) error
}

func (m *mockEventHandler) HandleBookingEvent(ctx context.Context, event model.BookingEvent) error {
	return m.HandleBookingEventFunc(ctx, event)
}

func eventMessage(t *testing.T, event model.BookingEvent) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(string(event.Type)).
		WithCorrelationID("req-7").
		Build()
	require.NoError(t, err)
	return msg
}

func TestBookingEventHandler_DecodesEvent(t *testing.T) {
	var got model.BookingEvent
	var gotRequestID string
	h := NewBookingEventHandler(&mockEventHandler{
		HandleBookingEventFunc: func(ctx context.Context, event model.BookingEvent) error {
			got = event
			gotRequestID = logger.RequestID(ctx)
			return nil
		},
	}, logger.Discard())

	event := model.BookingEvent{
		Type:      model.EventBookingConfirmed,
		BookingID: "b1",
		GuestID:   "g1",
		HostID:    "h1",
		Status:    model.BookingConfirmed,
	}
	require.NoError(t, h(context.Background(), eventMessage(t, event)))

	assert.Equal(t, "b1", got.BookingID)
	assert.Equal(t, model.EventBookingConfirmed, got.Type)
	assert.Equal(t, "req-7", gotRequestID)
}

func TestBookingEventHandler_ErrorClassification(t *testing.T) {
	valid := model.BookingEvent{Type: model.EventBookingCreated, BookingID: "b1", HostID: "h1"}
	validJSON, err := json.Marshal(valid)
	require.NoError(t, err)

	tests := []struct {
		name       string
		value      []byte
		handlerErr error
		want       kafka.ErrorType
	}{
		{
			name:  "empty payload",
			value: nil,
			want:  kafka.ErrorTypePermanent,
		},
		{
			name:  "malformed json",
			value: []byte(`{"type":`),
			want:  kafka.ErrorTypePermanent,
		},
		{
			name:  "missing booking id",
			value: []byte(`{"type":"booking_created"}`),
			want:  kafka.ErrorTypePermanent,
		},
		{
			name:       "rejected by service",
			value:      validJSON,
			handlerErr: apperrors.Validation("Booking event has no recipient", nil),
			want:       kafka.ErrorTypePermanent,
		},
		{
			name:       "storage failure",
			value:      validJSON,
			handlerErr: apperrors.Internal("Failed to create notification", errors.New("mongo down")),
			want:       kafka.ErrorTypeTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBookingEventHandler(&mockEventHandler{
				HandleBookingEventFunc: func(context.Context, model.BookingEvent) error {
					return tt.handlerErr
				},
			}, logger.Discard())

			err := h(context.Background(), kafka.Message{Value: tt.value, Headers: map[string]string{}})

			require.Error(t, err)
			assert.Equal(t, tt.want, kafka.ClassifyError(err))
		})
	}
}
