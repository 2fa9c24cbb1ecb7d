package validator

import (
	"homestay/pkg/logger"
	"homestay/pkg/model"
	"homestay/pkg/sanitizer"
	"homestay/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validation.New()

	if err := v.RegisterValidation("phone", validatePhone); err != nil {
		log.Fatal("Failed to register 'phone' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validatePhone(fl validator.FieldLevel) bool {
	return sanitizer.ValidPhone(fl.Field().String())
}

// ValidateCreate checks field bounds and that both stay dates parse.
// Business rules that need the listing are enforced by the service.
func (v *BookingValidator) ValidateCreate(req *model.CreateBookingRequest) error {
	var errs validation.ValidationErrors
	if err := validation.Struct(v.validate, req); err != nil {
		fieldErrs, ok := err.(validation.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, fieldErrs...)
	}

	dates := []struct{ field, value string }{
		{"checkIn", req.CheckIn},
		{"checkOut", req.CheckOut},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if _, err := model.ParseBookingDate(d.value); err != nil {
			errs = append(errs, validation.ValidationError{
				Field:   d.field,
				Message: d.field + " must be a date (YYYY-MM-DD) or an RFC 3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *BookingValidator) ValidateStatusUpdate(req *model.UpdateBookingStatusRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *BookingValidator) ValidateCancel(req *model.CancelBookingRequest) error {
	return validation.Struct(v.validate, req)
}
