package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "homestay/internal/bookings/errors"
	apperrors "homestay/pkg/errors"
	"homestay/pkg/model"

	"github.com/google/uuid"
)

const (
	lockPollInterval   = 50 * time.Millisecond
	lockReleaseTimeout = 2 * time.Second
)

// acquireListingLock serializes booking creation per listing. It polls until
// BookingLockWait elapses, taking over a lock whose holder let it expire.
func (s *bookingService) acquireListingLock(ctx context.Context, listingID string) (*model.BookingLock, error) {
	owner := uuid.NewString()
	deadline := time.Now().Add(s.cfg.BookingLockWait)

	for {
		lock := &model.BookingLock{
			ListingID: listingID,
			Owner:     owner,
			ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
		}
		err := s.lockRepo.Acquire(ctx, lock)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.Internal("Failed to acquire booking lock", err)
		}

		removed, err := s.lockRepo.DeleteExpired(ctx, listingID, time.Now())
		if err != nil {
			s.cfg.Log.Warn("Failed to clear expired booking lock", "listing_id", listingID, "error", err)
		} else if removed {
			s.cfg.Log.Warn("Took over expired booking lock", "listing_id", listingID)
			continue
		}

		if time.Now().After(deadline) {
			s.metrics.BookingConflict()
			return nil, apperrors.Conflict("Listing is busy with another booking request, please retry")
		}

		select {
		case <-ctx.Done():
			return nil, apperrors.Timeout("Timed out waiting for listing lock")
		case <-time.After(lockPollInterval):
		}
	}
}

// withinLock bounds ctx so the locked section ends a fifth of the TTL before
// the lock expires and can be taken over by another request.
func withinLock(ctx context.Context, lock *model.BookingLock, ttl time.Duration) (context.Context, context.CancelFunc) {
	return context.WithDeadline(ctx, lock.ExpiresAt.Add(-ttl/5))
}

// releaseListingLock runs even when the request context is already done so
// the next request does not wait for the TTL.
func (s *bookingService) releaseListingLock(ctx context.Context, listingID, owner string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lockReleaseTimeout)
	defer cancel()

	if err := s.lockRepo.Release(ctx, listingID, owner); err != nil {
		s.cfg.Log.Warn("Failed to release booking lock", "listing_id", listingID, "error", err)
	}
}
