package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrDuplicateCode is returned when the generated booking code already exists.
	ErrDuplicateCode = errors.New("booking code already exists")

	// ErrStatusChanged is returned when a conditional transition finds the
	// booking no longer in the status it was read in.
	ErrStatusChanged = errors.New("booking status changed concurrently")

	ErrLockHeld = errors.New("listing lock is held by another request")
)
