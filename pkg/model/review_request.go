package model

// CreateReviewRequest reviews a completed stay (BookingID) or, without a
// booking, a listing or another user directly.
type CreateReviewRequest struct {
	BookingID     string `json:"bookingId,omitempty" validate:"omitempty,mongodb"`
	ListingID     string `json:"listingId,omitempty" validate:"omitempty,mongodb"`
	RevieweeID    string `json:"revieweeId,omitempty" validate:"omitempty,max=64"`
	Overall       int    `json:"overall" validate:"required,min=1,max=5"`
	Cleanliness   int    `json:"cleanliness,omitempty" validate:"omitempty,min=1,max=5"`
	Accuracy      int    `json:"accuracy,omitempty" validate:"omitempty,min=1,max=5"`
	Communication int    `json:"communication,omitempty" validate:"omitempty,min=1,max=5"`
	Location      int    `json:"location,omitempty" validate:"omitempty,min=1,max=5"`
	CheckIn       int    `json:"checkIn,omitempty" validate:"omitempty,min=1,max=5"`
	Value         int    `json:"value,omitempty" validate:"omitempty,min=1,max=5"`
	Comment       string `json:"comment,omitempty" validate:"max=2000"`
}

type UpdateReviewRequest struct {
	Overall       *int    `json:"overall,omitempty" validate:"omitempty,min=1,max=5"`
	Cleanliness   *int    `json:"cleanliness,omitempty" validate:"omitempty,min=1,max=5"`
	Accuracy      *int    `json:"accuracy,omitempty" validate:"omitempty,min=1,max=5"`
	Communication *int    `json:"communication,omitempty" validate:"omitempty,min=1,max=5"`
	Location      *int    `json:"location,omitempty" validate:"omitempty,min=1,max=5"`
	CheckIn       *int    `json:"checkIn,omitempty" validate:"omitempty,min=1,max=5"`
	Value         *int    `json:"value,omitempty" validate:"omitempty,min=1,max=5"`
	Comment       *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}
