package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "homestay/internal/bookings/errors"
	"homestay/pkg/config"
	mongotx "homestay/pkg/db/mongo"
	"homestay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

// Party selects which side of a booking a list query is scoped to.
type Party string

const (
	PartyGuest Party = "guest_id"
	PartyHost  Party = "host_id"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindConflicting(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*model.Booking, error)
	FindByParty(ctx context.Context, party Party, userID string, status *model.BookingStatus, page model.Page) ([]*model.Booking, error)
	CountByParty(ctx context.Context, party Party, userID string, status *model.BookingStatus) (int64, error)
	ApplyTransition(ctx context.Context, id string, t model.BookingTransition) (*model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo.Client),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// A SessionContext is returned unchanged since wrapping it would detach the
// operation from the session.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

// FindConflicting returns the calendar-occupying bookings of a listing that
// intersect [checkIn, checkOut).
func (r *mongoBookingRepository) FindConflicting(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, conflictFilter(listingID, checkIn, checkOut))
	if err != nil {
		return nil, fmt.Errorf("failed to find conflicting bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func conflictFilter(listingID string, checkIn, checkOut time.Time) bson.M {
	return bson.M{
		"listing_id": listingID,
		"status":     bson.M{"$in": model.ActiveBookingStatuses},
		"$or": []bson.M{
			// starts inside an existing stay
			{"check_in": bson.M{"$lte": checkIn}, "check_out": bson.M{"$gt": checkIn}},
			// ends inside an existing stay
			{"check_in": bson.M{"$lt": checkOut}, "check_out": bson.M{"$gte": checkOut}},
			// contains an existing stay
			{"check_in": bson.M{"$gte": checkIn}, "check_out": bson.M{"$lte": checkOut}},
		},
	}
}

func (r *mongoBookingRepository) FindByParty(ctx context.Context, party Party, userID string, status *model.BookingStatus, page model.Page) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, partyFilter(party, userID, status), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*model.Booking, 0, page.Limit)
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) CountByParty(ctx context.Context, party Party, userID string, status *model.BookingStatus) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, partyFilter(party, userID, status))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func partyFilter(party Party, userID string, status *model.BookingStatus) bson.M {
	filter := bson.M{string(party): userID}
	if status != nil {
		filter["status"] = *status
	}
	return filter
}

// ApplyTransition writes a status change only if the booking is still in
// t.From, and returns the updated document.
func (r *mongoBookingRepository) ApplyTransition(ctx context.Context, id string, t model.BookingTransition) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "status": t.From}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking model.Booking
	err = r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": transitionSet(t)}, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrStatusChanged
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	return &booking, nil
}

func transitionSet(t model.BookingTransition) bson.M {
	at := t.At.UTC().Truncate(time.Millisecond)
	set := bson.M{
		"status":     t.To,
		"updated_at": at,
	}

	switch t.To {
	case model.BookingConfirmed:
		set["confirmed_at"] = at
	case model.BookingInProgress:
		set["actual_check_in"] = at
	case model.BookingCompleted:
		set["completed_at"] = at
	case model.BookingCancelled:
		set["cancelled_at"] = at
		set["cancelled_by"] = t.ActorID
		if t.CancelReason != "" {
			set["cancel_reason"] = t.CancelReason
		}
		if t.RefundFraction != nil {
			set["refund_fraction"] = *t.RefundFraction
		}
	}

	if t.HostMessage != "" {
		set["host_message"] = t.HostMessage
	}
	return set
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
