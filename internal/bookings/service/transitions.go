package service

import (
	"fmt"
	"slices"

	apperrors "homestay/pkg/errors"
	"homestay/pkg/model"
)

type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// transitions lists, per current status and role, the statuses the role may
// move a booking into. Statuses without an entry are terminal.
var transitions = map[model.BookingStatus]map[Role][]model.BookingStatus{
	model.BookingPending: {
		RoleHost:  {model.BookingConfirmed, model.BookingCancelled},
		RoleGuest: {model.BookingCancelled},
	},
	model.BookingConfirmed: {
		RoleHost:  {model.BookingInProgress, model.BookingCancelled},
		RoleGuest: {model.BookingCancelled},
	},
	model.BookingInProgress: {
		RoleHost: {model.BookingCompleted},
	},
}

// RoleOf derives the actor's role on the booking.
func RoleOf(booking *model.Booking, actorID string) (Role, error) {
	switch actorID {
	case booking.HostID:
		return RoleHost, nil
	case booking.GuestID:
		return RoleGuest, nil
	default:
		return "", apperrors.Forbidden("You do not have access to this booking")
	}
}

// Transition validates moving a booking from current to target as role.
// A target only the other party may request is Forbidden; any other
// disallowed target is a validation error.
func Transition(current model.BookingStatus, role Role, target model.BookingStatus) error {
	allowed := transitions[current]
	if slices.Contains(allowed[role], target) {
		return nil
	}

	for other, targets := range allowed {
		if other != role && slices.Contains(targets, target) {
			return apperrors.Forbidden(fmt.Sprintf("Only the %s can change a %s booking to %s", other, current, target))
		}
	}

	return apperrors.Validation(fmt.Sprintf("Cannot transition from %s to %s", current, target), map[string]any{
		"from": current,
		"to":   target,
	})
}

// Cancellable reports whether any party may cancel a booking in this status.
func Cancellable(current model.BookingStatus) bool {
	for _, targets := range transitions[current] {
		if slices.Contains(targets, model.BookingCancelled) {
			return true
		}
	}
	return false
}
