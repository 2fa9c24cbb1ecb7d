package consumer

import (
	"context"
	"fmt"
	"net/http"

	apperrors "homestay/pkg/errors"
	"homestay/pkg/kafka"
	"homestay/pkg/logger"
	"homestay/pkg/model"
)

type BookingEventHandler interface {
	HandleBookingEvent(ctx context.Context, event model.BookingEvent) error
}

// NewBookingEventHandler decodes booking events and hands them to h.
// Payloads that cannot be decoded and events the service rejects are
// permanent failures and go to the DLQ. Server-side failures are retried.
func NewBookingEventHandler(h BookingEventHandler, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if len(msg.Value) == 0 {
			return kafka.NewPermanentError("empty booking event", kafka.ErrEmptyValue)
		}

		var event model.BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError("malformed booking event", fmt.Errorf("%w: %v", kafka.ErrInvalidMessage, err))
		}
		if event.BookingID == "" || event.Type == "" {
			return kafka.NewPermanentError("incomplete booking event", kafka.ErrInvalidMessage)
		}

		if id := msg.GetCorrelationID(); id != "" {
			ctx = logger.WithRequestID(ctx, id)
		}

		if err := h.HandleBookingEvent(ctx, event); err != nil {
			if apperrors.AsAppError(err).StatusCode() < http.StatusInternalServerError {
				return kafka.NewPermanentError("booking event rejected", err)
			}
			log.Warn("booking event handling failed", "booking_id", event.BookingID, "type", event.Type, "error", err)
			return kafka.NewTransientError("booking event handling failed", err)
		}
		return nil
	}
}
