package model

type CreateListingRequest struct {
	Title           string   `json:"title" validate:"required,min=3,max=200"`
	Description     string   `json:"description,omitempty" validate:"max=5000"`
	PropertyType    string   `json:"propertyType" validate:"required,max=50"`
	City            string   `json:"city" validate:"required,max=100"`
	Area            string   `json:"area,omitempty" validate:"max=100"`
	Photos          []string `json:"photos,omitempty" validate:"max=30,dive,http_url"`
	MonthlyPrice    float64  `json:"monthlyPrice" validate:"gte=0"`
	NightlyPrice    *float64 `json:"nightlyPrice,omitempty" validate:"omitempty,gte=0"`
	CleaningFee     float64  `json:"cleaningFee" validate:"gte=0"`
	SecurityDeposit float64  `json:"securityDeposit" validate:"gte=0"`
	MinNights       int      `json:"minNights" validate:"min=1,max=365"`
	MaxNights       int      `json:"maxNights,omitempty" validate:"min=0,max=3650"`
	MaxGuests       int      `json:"maxGuests" validate:"min=1,max=50"`
}

// UpdateListingRequest carries a partial update; nil fields are left as is.
type UpdateListingRequest struct {
	Title           *string   `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description     *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	PropertyType    *string   `json:"propertyType,omitempty" validate:"omitempty,max=50"`
	City            *string   `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	Area            *string   `json:"area,omitempty" validate:"omitempty,max=100"`
	Photos          *[]string `json:"photos,omitempty" validate:"omitempty,max=30,dive,http_url"`
	MonthlyPrice    *float64  `json:"monthlyPrice,omitempty" validate:"omitempty,gte=0"`
	NightlyPrice    *float64  `json:"nightlyPrice,omitempty" validate:"omitempty,gte=0"`
	CleaningFee     *float64  `json:"cleaningFee,omitempty" validate:"omitempty,gte=0"`
	SecurityDeposit *float64  `json:"securityDeposit,omitempty" validate:"omitempty,gte=0"`
	MinNights       *int      `json:"minNights,omitempty" validate:"omitempty,min=1,max=365"`
	MaxNights       *int      `json:"maxNights,omitempty" validate:"omitempty,min=0,max=3650"`
	MaxGuests       *int      `json:"maxGuests,omitempty" validate:"omitempty,min=1,max=50"`
}
