package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "homestay/pkg/errors"
	"homestay/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.Validation("bad dates", nil), http.StatusBadRequest},
		{"invalid input", apperrors.InvalidInput("bad page"), http.StatusBadRequest},
		{"unauthorized", apperrors.Unauthorized("no token"), http.StatusUnauthorized},
		{"forbidden", apperrors.Forbidden("not yours"), http.StatusForbidden},
		{"not found", apperrors.NotFound("Booking"), http.StatusNotFound},
		{"conflict", apperrors.Conflict("taken"), http.StatusConflict},
		{"timeout", apperrors.Timeout("slow"), http.StatusGatewayTimeout},
		{"unavailable", apperrors.Unavailable("db"), http.StatusServiceUnavailable},
		{"wrapped", fmt.Errorf("tx: %w", apperrors.Conflict("taken")), http.StatusConflict},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteError(rec, apperrors.Internal("Failed to create booking", errors.New("mongo down"))))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "mongo down")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeInternal, body.Code)
}

func TestWritePaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WritePaginated(rec, []string{}, model.Page{Page: 4, Limit: 20}, 41))

	var body struct {
		Data       []string   `json:"data"`
		Pagination Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotNil(t, body.Data)
	assert.Equal(t, Pagination{Page: 4, Limit: 20, Total: 41, Pages: 3}, body.Pagination)
}

func TestExtractPage(t *testing.T) {
	tests := []struct {
		query     string
		want      model.Page
		expectErr bool
	}{
		{"", model.Page{Page: 1, Limit: 20}, false},
		{"page=2&limit=5", model.Page{Page: 2, Limit: 5}, false},
		{"page=0", model.Page{}, true},
		{"limit=101", model.Page{}, true},
		{"limit=abc", model.Page{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/bookings/user/my-bookings?"+tt.query, nil)
			got, err := ExtractPage(req)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		CancelReason string `json:"cancelReason"`
	}

	req := httptest.NewRequest(http.MethodDelete, "/", strings.NewReader(""))
	assert.NoError(t, DecodeJSON(req, &dst, true))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.Error(t, DecodeJSON(req, &dst, false))

	req = httptest.NewRequest(http.MethodDelete, "/", strings.NewReader(`{"cancelReason":"plans changed"}`))
	require.NoError(t, DecodeJSON(req, &dst, true))
	assert.Equal(t, "plans changed", dst.CancelReason)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, DecodeJSON(req, &dst, false))
}
