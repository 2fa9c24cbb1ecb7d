package validator

import (
	"testing"

	"homestay/pkg/logger"
	"homestay/pkg/model"

	"github.com/stretchr/testify/assert"
)

func validCreate() *model.CreateListingRequest {
	return &model.CreateListingRequest{
		Title:        "Sea view loft",
		PropertyType: "apartment",
		City:         "Haifa",
		Photos:       []string{"https://cdn.example.com/a.jpg"},
		MonthlyPrice: 3000,
		CleaningFee:  150,
		MinNights:    28,
		MaxNights:    180,
		MaxGuests:    4,
	}
}

func TestValidateCreate(t *testing.T) {
	v := NewListingValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(r *model.CreateListingRequest)
		expectErr bool
	}{
		{"valid", func(r *model.CreateListingRequest) {}, false},
		{"missing title", func(r *model.CreateListingRequest) { r.Title = "" }, true},
		{"negative price", func(r *model.CreateListingRequest) { r.MonthlyPrice = -1 }, true},
		{"zero guests", func(r *model.CreateListingRequest) { r.MaxGuests = 0 }, true},
		{"bad photo url", func(r *model.CreateListingRequest) { r.Photos = []string{"not a url"} }, true},
		{"zero min nights", func(r *model.CreateListingRequest) { r.MinNights = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(req)
			err := v.ValidateCreate(req)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUpdate_PartialFields(t *testing.T) {
	v := NewListingValidator(logger.Discard())

	title := "ok"
	assert.Error(t, v.ValidateUpdate(&model.UpdateListingRequest{Title: &title}))

	guests := 6
	assert.NoError(t, v.ValidateUpdate(&model.UpdateListingRequest{MaxGuests: &guests}))
	assert.NoError(t, v.ValidateUpdate(&model.UpdateListingRequest{}))
}

func TestValidateListing_NightBounds(t *testing.T) {
	v := NewListingValidator(logger.Discard())

	assert.NoError(t, v.ValidateListing(&model.Listing{MinNights: 3, MaxNights: 0}))
	assert.NoError(t, v.ValidateListing(&model.Listing{MinNights: 3, MaxNights: 3}))
	assert.Error(t, v.ValidateListing(&model.Listing{MinNights: 30, MaxNights: 7}))
}
