package validator

import (
	"testing"

	"homestay/pkg/logger"
	"homestay/pkg/model"
	"homestay/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreate(t *testing.T) {
	v := NewReviewValidator(logger.Discard())

	tests := []struct {
		name      string
		req       model.CreateReviewRequest
		wantField string
	}{
		{"booking review", model.CreateReviewRequest{BookingID: "507f1f77bcf86cd799439011", Overall: 5}, ""},
		{"listing review", model.CreateReviewRequest{ListingID: "507f1f77bcf86cd799439011", Overall: 3, Cleanliness: 4}, ""},
		{"user review", model.CreateReviewRequest{RevieweeID: "user-9", Overall: 1}, ""},
		{"no subject", model.CreateReviewRequest{Overall: 4}, "bookingId"},
		{"missing overall", model.CreateReviewRequest{BookingID: "507f1f77bcf86cd799439011"}, "overall"},
		{"overall above five", model.CreateReviewRequest{BookingID: "507f1f77bcf86cd799439011", Overall: 6}, "overall"},
		{"category below one", model.CreateReviewRequest{BookingID: "507f1f77bcf86cd799439011", Overall: 4, Value: -1}, "value"},
		{"malformed booking id", model.CreateReviewRequest{BookingID: "abc", Overall: 4}, "bookingId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCreate(&tt.req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var errs validation.ValidationErrors
			require.ErrorAs(t, err, &errs)
			fields := errs.Details()["fields"].(map[string]any)
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewReviewValidator(logger.Discard())
	zero, four := 0, 4

	assert.NoError(t, v.ValidateUpdate(&model.UpdateReviewRequest{Overall: &four}))
	assert.Error(t, v.ValidateUpdate(&model.UpdateReviewRequest{Overall: &zero}))
}
