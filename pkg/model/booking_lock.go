package model

import "time"

// BookingLock is an advisory lock serializing booking creation per listing.
// Expired locks are removed by a TTL index and may be taken over before that.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ListingID string    `bson:"listing_id" json:"listingId"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

func ListingLockID(listingID string) string {
	return "listing:" + listingID
}
