package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "homestay/internal/bookings/errors"
	"homestay/pkg/config"
	"homestay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Booking_locks"

// BookingLockRepository stores the per-listing advisory locks that serialize
// booking creation.
type BookingLockRepository interface {
	// Acquire inserts the lock; ErrLockHeld if one already exists for the listing.
	Acquire(ctx context.Context, lock *model.BookingLock) error
	// DeleteExpired removes the listing's lock if it expired before now.
	DeleteExpired(ctx context.Context, listingID string, now time.Time) (bool, error)
	// Release removes the listing's lock only if owner still holds it.
	Release(ctx context.Context, listingID, owner string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoBookingLockRepository) Acquire(ctx context.Context, lock *model.BookingLock) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lock.ID = model.ListingLockID(lock.ListingID)
	lock.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrLockHeld
		}
		return fmt.Errorf("failed to acquire booking lock: %w", err)
	}
	return nil
}

func (r *mongoBookingLockRepository) DeleteExpired(ctx context.Context, listingID string, now time.Time) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":        model.ListingLockID(listingID),
		"expires_at": bson.M{"$lte": now},
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete expired booking lock: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *mongoBookingLockRepository) Release(ctx context.Context, listingID, owner string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":   model.ListingLockID(listingID),
		"owner": owner,
	})
	if err != nil {
		return fmt.Errorf("failed to release booking lock: %w", err)
	}
	return nil
}
