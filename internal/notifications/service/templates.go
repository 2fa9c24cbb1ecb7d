package service

import (
	"fmt"
	"time"

	"homestay/pkg/model"
)

type template struct {
	kind      model.NotificationType
	title     string
	recipient func(e model.BookingEvent) string
	message   func(e model.BookingEvent, guestName string) string
}

func toHost(e model.BookingEvent) string  { return e.HostID }
func toGuest(e model.BookingEvent) string { return e.GuestID }

// toOtherParty addresses whoever did not perform the action.
func toOtherParty(e model.BookingEvent) string {
	if e.ActorID == e.HostID {
		return e.GuestID
	}
	return e.HostID
}

var templates = map[model.BookingEventType]template{
	model.EventBookingCreated: {
		kind:      model.NotificationBookingRequest,
		title:     "New Booking Request",
		recipient: toHost,
		message: func(e model.BookingEvent, guestName string) string {
			if guestName == "" {
				guestName = "A guest"
			}
			return fmt.Sprintf("%s has requested to book %s from %s to %s",
				guestName, listingName(e), day(e.CheckIn), day(e.CheckOut))
		},
	},
	model.EventBookingConfirmed: {
		kind:      model.NotificationBookingConfirmed,
		title:     "Booking Confirmed",
		recipient: toGuest,
		message: func(e model.BookingEvent, _ string) string {
			return fmt.Sprintf("Your booking %s for %s has been confirmed", e.BookingCode, listingName(e))
		},
	},
	model.EventBookingStarted: {
		kind:      model.NotificationBookingStarted,
		title:     "Stay Started",
		recipient: toGuest,
		message: func(e model.BookingEvent, _ string) string {
			return fmt.Sprintf("Welcome! Your stay at %s has started", listingName(e))
		},
	},
	model.EventBookingCompleted: {
		kind:      model.NotificationBookingCompleted,
		title:     "Stay Completed",
		recipient: toGuest,
		message: func(e model.BookingEvent, _ string) string {
			return fmt.Sprintf("Your stay at %s is complete. Leave a review for your host", listingName(e))
		},
	},
	model.EventBookingCancelled: {
		kind:      model.NotificationBookingCancelled,
		title:     "Booking Cancelled",
		recipient: toOtherParty,
		message: func(e model.BookingEvent, _ string) string {
			msg := fmt.Sprintf("Booking %s for %s has been cancelled", e.BookingCode, listingName(e))
			if e.RefundFraction != nil && e.ActorID == e.GuestID {
				msg += fmt.Sprintf(" (%.0f%% refund)", *e.RefundFraction*100)
			}
			return msg
		},
	},
}

func templateFor(t model.BookingEventType) (template, bool) {
	tpl, ok := templates[t]
	return tpl, ok
}

func listingName(e model.BookingEvent) string {
	if e.ListingTitle != "" {
		return e.ListingTitle
	}
	return "your property"
}

func day(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func eventData(e model.BookingEvent) map[string]any {
	data := map[string]any{
		"bookingId":   e.BookingID,
		"bookingCode": e.BookingCode,
		"listingId":   e.ListingID,
		"status":      string(e.Status),
		"checkIn":     day(e.CheckIn),
		"checkOut":    day(e.CheckOut),
	}
	if e.RefundFraction != nil {
		data["refundFraction"] = *e.RefundFraction
	}
	return data
}
