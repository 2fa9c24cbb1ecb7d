package service

import (
	"context"
	"time"

	"homestay/pkg/model"
)

// EventPublisher delivers booking lifecycle events to interested services.
type EventPublisher interface {
	Publish(ctx context.Context, event model.BookingEvent) error
}

func newBookingEvent(booking *model.Booking, actorID string, at time.Time) (model.BookingEvent, bool) {
	eventType, ok := model.EventForStatus(booking.Status)
	if !ok {
		return model.BookingEvent{}, false
	}
	event := model.BookingEvent{
		Type:           eventType,
		BookingID:      booking.ID,
		BookingCode:    booking.BookingCode,
		ListingID:      booking.ListingID,
		GuestID:        booking.GuestID,
		HostID:         booking.HostID,
		ActorID:        actorID,
		Status:         booking.Status,
		CheckIn:        booking.CheckIn,
		CheckOut:       booking.CheckOut,
		RefundFraction: booking.RefundFraction,
		OccurredAt:     at,
	}
	if booking.Listing != nil {
		event.ListingTitle = booking.Listing.Title
	}
	return event, true
}

// publish hands the event to the publisher in the background. Delivery
// failures are logged and never affect the booking operation.
func (s *bookingService) publish(ctx context.Context, booking *model.Booking, actorID string) {
	if s.publisher == nil {
		return
	}
	event, ok := newBookingEvent(booking, actorID, s.now())
	if !ok {
		return
	}

	ctx = context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, cancel := context.WithTimeout(ctx, s.cfg.EventPublishTimeout)
		defer cancel()

		err := s.publisher.Publish(ctx, event)
		s.metrics.EventPublished(string(event.Type), err)
		if err != nil {
			s.cfg.Log.Warn("Failed to publish booking event",
				"booking_id", event.BookingID,
				"type", event.Type,
				"error", err,
			)
		}
	}()
}
