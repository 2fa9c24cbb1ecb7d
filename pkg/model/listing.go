package model

import "time"

type ListingStatus string

const (
	ListingDraft    ListingStatus = "draft"
	ListingActive   ListingStatus = "active"
	ListingInactive ListingStatus = "inactive"
)

type Listing struct {
	ID              string        `json:"id" bson:"_id,omitempty"`
	HostID          string        `json:"hostId" bson:"host_id"`
	Title           string        `json:"title" bson:"title"`
	Description     string        `json:"description,omitempty" bson:"description,omitempty"`
	PropertyType    string        `json:"propertyType" bson:"property_type"`
	City            string        `json:"city" bson:"city"`
	Area            string        `json:"area,omitempty" bson:"area,omitempty"`
	Photos          []string      `json:"photos" bson:"photos"`
	MonthlyPrice    float64       `json:"monthlyPrice" bson:"monthly_price"`
	NightlyPrice    *float64      `json:"nightlyPrice,omitempty" bson:"nightly_price,omitempty"`
	CleaningFee     float64       `json:"cleaningFee" bson:"cleaning_fee"`
	SecurityDeposit float64       `json:"securityDeposit" bson:"security_deposit"`
	MinNights       int           `json:"minNights" bson:"min_nights"`
	MaxNights       int           `json:"maxNights,omitempty" bson:"max_nights,omitempty"`
	MaxGuests       int           `json:"maxGuests" bson:"max_guests"`
	IsActive        bool          `json:"isActive" bson:"is_active"`
	Status          ListingStatus `json:"status" bson:"status"`
	AverageRating   float64       `json:"averageRating" bson:"average_rating"`
	ReviewCount     int           `json:"reviewCount" bson:"review_count"`
	CreatedAt       time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" bson:"updated_at"`
}

// Bookable reports whether guests may request the listing.
func (l *Listing) Bookable() bool {
	return l.IsActive && l.Status == ListingActive
}

// NightlyRate is the per-night price charged by bookings: NightlyPrice when
// set, otherwise the configured MonthlyPrice.
func (l *Listing) NightlyRate() float64 {
	if l.NightlyPrice != nil {
		return *l.NightlyPrice
	}
	return l.MonthlyPrice
}

func (l *Listing) Summary() *ListingSummary {
	var photo string
	if len(l.Photos) > 0 {
		photo = l.Photos[0]
	}
	return &ListingSummary{
		ID:           l.ID,
		Title:        l.Title,
		City:         l.City,
		Area:         l.Area,
		PropertyType: l.PropertyType,
		Photo:        photo,
	}
}

type ListingSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	City         string `json:"city"`
	Area         string `json:"area,omitempty"`
	PropertyType string `json:"propertyType"`
	Photo        string `json:"photo,omitempty"`
}

// ListingFilter narrows a public listing search. Zero values are ignored.
type ListingFilter struct {
	City         string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	Guests       int
}
