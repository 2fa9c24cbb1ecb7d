package model

import (
	"fmt"

	"homestay/pkg/config"
	apperrors "homestay/pkg/errors"
)

// Page is a validated 1-based page request.
type Page struct {
	Page  int
	Limit int
}

// NewPage applies defaults to zero values and rejects anything out of range.
func NewPage(page, limit int) (Page, error) {
	if page == 0 {
		page = config.DefaultPage
	}
	if limit == 0 {
		limit = config.DefaultPageLimit
	}
	if page < 1 {
		return Page{}, apperrors.InvalidInput("page must be greater than or equal to 1")
	}
	if limit < 1 || limit > config.MaxPageLimit {
		return Page{}, apperrors.InvalidInput(fmt.Sprintf("limit must be between 1 and %d", config.MaxPageLimit))
	}
	return Page{Page: page, Limit: limit}, nil
}

func (p Page) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// Pages returns ceil(total/limit).
func (p Page) Pages(total int64) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
