package model

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingInProgress BookingStatus = "IN_PROGRESS"
	BookingCompleted  BookingStatus = "COMPLETED"
	BookingCancelled  BookingStatus = "CANCELLED"
)

// ActiveBookingStatuses are the statuses that occupy a listing's calendar.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingInProgress}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(s); st {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return st, true
	default:
		return "", false
	}
}

// Occupies reports whether a booking in this status blocks its dates.
func (s BookingStatus) Occupies() bool {
	for _, st := range ActiveBookingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
	PaymentFailed   PaymentStatus = "FAILED"
)

// Booking is a guest's reservation of a listing for [CheckIn, CheckOut).
// HostID is copied from the listing at creation and is not kept in sync
// with later changes to the listing.
type Booking struct {
	ID          string `json:"id" bson:"_id,omitempty"`
	BookingCode string `json:"bookingCode" bson:"booking_code"`
	ListingID   string `json:"listingId" bson:"listing_id"`
	GuestID     string `json:"guestId" bson:"guest_id"`
	HostID      string `json:"hostId" bson:"host_id"`

	CheckIn     time.Time `json:"checkIn" bson:"check_in"`
	CheckOut    time.Time `json:"checkOut" bson:"check_out"`
	TotalNights int       `json:"totalNights" bson:"total_nights"`

	Adults   int `json:"adults" bson:"adults"`
	Children int `json:"children" bson:"children"`
	Infants  int `json:"infants" bson:"infants"`
	Pets     int `json:"pets" bson:"pets"`
	Guests   int `json:"guests" bson:"guests"`

	NightlyRate     float64 `json:"nightlyRate" bson:"nightly_rate"`
	Subtotal        float64 `json:"subtotal" bson:"subtotal"`
	CleaningFee     float64 `json:"cleaningFee" bson:"cleaning_fee"`
	ServiceFee      float64 `json:"serviceFee" bson:"service_fee"`
	Taxes           float64 `json:"taxes" bson:"taxes"`
	TotalPrice      float64 `json:"totalPrice" bson:"total_price"`
	TotalAmount     float64 `json:"totalAmount" bson:"total_amount"`
	SecurityDeposit float64 `json:"securityDeposit" bson:"security_deposit"`

	Status        BookingStatus `json:"status" bson:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus" bson:"payment_status"`

	GuestMessage    string `json:"guestMessage,omitempty" bson:"guest_message,omitempty"`
	SpecialRequests string `json:"specialRequests,omitempty" bson:"special_requests,omitempty"`
	ArrivalTime     string `json:"arrivalTime,omitempty" bson:"arrival_time,omitempty"`
	GuestPhone      string `json:"guestPhone,omitempty" bson:"guest_phone,omitempty"`
	GuestEmail      string `json:"guestEmail,omitempty" bson:"guest_email,omitempty"`
	HostMessage     string `json:"hostMessage,omitempty" bson:"host_message,omitempty"`

	ConfirmedAt    *time.Time `json:"confirmedAt,omitempty" bson:"confirmed_at,omitempty"`
	ActualCheckIn  *time.Time `json:"actualCheckIn,omitempty" bson:"actual_check_in,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelledAt,omitempty" bson:"cancelled_at,omitempty"`
	CancelledBy    string     `json:"cancelledBy,omitempty" bson:"cancelled_by,omitempty"`
	CancelReason   string     `json:"cancelReason,omitempty" bson:"cancel_reason,omitempty"`
	RefundFraction *float64   `json:"refundFraction,omitempty" bson:"refund_fraction,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`

	Listing *ListingSummary `json:"listing,omitempty" bson:"-"`
	Host    *UserSummary    `json:"host,omitempty" bson:"-"`
	Guest   *UserSummary    `json:"guest,omitempty" bson:"-"`
}

// Overlaps reports whether the half-open ranges [aIn, aOut) and [bIn, bOut)
// share any instant.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// BookingTransition is the set of fields written by a status change.
type BookingTransition struct {
	From           BookingStatus
	To             BookingStatus
	At             time.Time
	ActorID        string
	HostMessage    string
	CancelReason   string
	RefundFraction *float64
}
