package errors

import "errors"

var (
	ErrNotFound = errors.New("review not found")

	ErrInvalidID = errors.New("invalid review ID format")

	// ErrDuplicate is returned when the reviewer already reviewed the booking.
	ErrDuplicate = errors.New("review already exists for booking")
)
