package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	apperrors "homestay/pkg/errors"
	"homestay/pkg/model"
)

// ExtractPage reads page and limit from the query string.
func ExtractPage(r *http.Request) (model.Page, error) {
	query := r.URL.Query()

	page := 0
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return model.Page{}, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		page = v
	}

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return model.Page{}, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	return model.NewPage(page, limit)
}

// DecodeJSON decodes the request body into dst. An empty body is allowed
// only when allowEmpty is set.
func DecodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	if r.Body == nil {
		if allowEmpty {
			return nil
		}
		return apperrors.InvalidInput("request body is required")
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		if allowEmpty {
			return nil
		}
		return apperrors.InvalidInput("request body is required")
	}
	if err != nil {
		return apperrors.InvalidInput("invalid JSON body")
	}
	return nil
}
