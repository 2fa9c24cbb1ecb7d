package model

import "time"

type Review struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	ReviewerID    string    `json:"reviewerId" bson:"reviewer_id"`
	RevieweeID    string    `json:"revieweeId,omitempty" bson:"reviewee_id,omitempty"`
	ListingID     string    `json:"listingId,omitempty" bson:"listing_id,omitempty"`
	BookingID     string    `json:"bookingId,omitempty" bson:"booking_id,omitempty"`
	Overall       int       `json:"overall" bson:"overall"`
	Cleanliness   int       `json:"cleanliness,omitempty" bson:"cleanliness,omitempty"`
	Accuracy      int       `json:"accuracy,omitempty" bson:"accuracy,omitempty"`
	Communication int       `json:"communication,omitempty" bson:"communication,omitempty"`
	Location      int       `json:"location,omitempty" bson:"location,omitempty"`
	CheckIn       int       `json:"checkIn,omitempty" bson:"check_in,omitempty"`
	Value         int       `json:"value,omitempty" bson:"value,omitempty"`
	Comment       string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updated_at"`

	Reviewer *UserSummary `json:"reviewer,omitempty" bson:"-"`
}

// RatingAggregate is the derived rating of a listing.
type RatingAggregate struct {
	Average float64 `bson:"average"`
	Count   int     `bson:"count"`
}
