package validator

import (
	"homestay/pkg/logger"
	"homestay/pkg/model"
	"homestay/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type ReviewValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReviewValidator(log *logger.Logger) *ReviewValidator {
	return &ReviewValidator{
		validate: validation.New(),
		logger:   log,
	}
}

// ValidateCreate checks rating bounds and that the review has a subject.
func (v *ReviewValidator) ValidateCreate(req *model.CreateReviewRequest) error {
	var errs validation.ValidationErrors
	if err := validation.Struct(v.validate, req); err != nil {
		fieldErrs, ok := err.(validation.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, fieldErrs...)
	}

	if req.BookingID == "" && req.ListingID == "" && req.RevieweeID == "" {
		errs = append(errs, validation.ValidationError{
			Field:   "bookingId",
			Message: "one of bookingId, listingId or revieweeId is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *ReviewValidator) ValidateUpdate(req *model.UpdateReviewRequest) error {
	return validation.Struct(v.validate, req)
}
