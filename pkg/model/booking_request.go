package model

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

type CreateBookingRequest struct {
	ListingID       string `json:"listingId" validate:"required,max=64"`
	CheckIn         string `json:"checkIn" validate:"required"`
	CheckOut        string `json:"checkOut" validate:"required"`
	Adults          int    `json:"adults" validate:"min=1,max=20"`
	Children        int    `json:"children" validate:"min=0,max=10"`
	Infants         int    `json:"infants" validate:"min=0,max=5"`
	Pets            int    `json:"pets" validate:"min=0,max=3"`
	GuestMessage    string `json:"guestMessage,omitempty" validate:"max=1000"`
	SpecialRequests string `json:"specialRequests,omitempty" validate:"max=1000"`
	ArrivalTime     string `json:"arrivalTime,omitempty" validate:"max=50"`
	GuestPhone      string `json:"guestPhone,omitempty" validate:"omitempty,max=30,phone"`
	GuestEmail      string `json:"guestEmail,omitempty" validate:"omitempty,email,max=254"`
}

type UpdateBookingStatusRequest struct {
	Status      string `json:"status" validate:"required,oneof=PENDING CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
	HostMessage string `json:"hostMessage,omitempty" validate:"max=1000"`
}

type CancelBookingRequest struct {
	CancelReason string `json:"cancelReason,omitempty" validate:"max=500"`
}

// CancelResult is the cancelled booking plus the refund fraction owed to the guest.
type CancelResult struct {
	*Booking
	RefundAmount float64 `json:"refundAmount"`
}

// BookingQuery filters a guest's or host's booking list.
type BookingQuery struct {
	Status *BookingStatus
	Page   Page
}

// ParseBookingDate accepts a calendar date (UTC midnight) or an RFC 3339 timestamp.
func ParseBookingDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return t.UTC(), nil
}
