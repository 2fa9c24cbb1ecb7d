package model

import "time"

type BookingEventType string

const (
	EventBookingCreated   BookingEventType = "booking_created"
	EventBookingConfirmed BookingEventType = "booking_confirmed"
	EventBookingStarted   BookingEventType = "booking_started"
	EventBookingCompleted BookingEventType = "booking_completed"
	EventBookingCancelled BookingEventType = "booking_cancelled"
)

// EventForStatus maps the status a booking moved into onto its event type.
func EventForStatus(s BookingStatus) (BookingEventType, bool) {
	switch s {
	case BookingPending:
		return EventBookingCreated, true
	case BookingConfirmed:
		return EventBookingConfirmed, true
	case BookingInProgress:
		return EventBookingStarted, true
	case BookingCompleted:
		return EventBookingCompleted, true
	case BookingCancelled:
		return EventBookingCancelled, true
	default:
		return "", false
	}
}

type BookingEvent struct {
	Type           BookingEventType `json:"type"`
	BookingID      string           `json:"bookingId"`
	BookingCode    string           `json:"bookingCode"`
	ListingID      string           `json:"listingId"`
	ListingTitle   string           `json:"listingTitle,omitempty"`
	GuestID        string           `json:"guestId"`
	HostID         string           `json:"hostId"`
	ActorID        string           `json:"actorId"`
	Status         BookingStatus    `json:"status"`
	CheckIn        time.Time        `json:"checkIn"`
	CheckOut       time.Time        `json:"checkOut"`
	RefundFraction *float64         `json:"refundFraction,omitempty"`
	OccurredAt     time.Time        `json:"occurredAt"`
}
