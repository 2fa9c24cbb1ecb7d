package validator

import (
	"homestay/pkg/logger"
	"homestay/pkg/model"
	"homestay/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type ListingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewListingValidator(log *logger.Logger) *ListingValidator {
	log.Info("Listing validator initialized successfully")
	return &ListingValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *ListingValidator) ValidateCreate(req *model.CreateListingRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *ListingValidator) ValidateUpdate(req *model.UpdateListingRequest) error {
	return validation.Struct(v.validate, req)
}

// ValidateListing checks invariants across fields of a complete listing.
func (v *ListingValidator) ValidateListing(listing *model.Listing) error {
	var errs validation.ValidationErrors
	if listing.MaxNights > 0 && listing.MinNights > listing.MaxNights {
		errs = append(errs, validation.ValidationError{
			Field:   "maxNights",
			Message: "maxNights must be greater than or equal to minNights",
		})
	}
	if listing.MonthlyPrice < 0 || (listing.NightlyPrice != nil && *listing.NightlyPrice < 0) {
		errs = append(errs, validation.ValidationError{
			Field:   "price",
			Message: "price must not be negative",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
