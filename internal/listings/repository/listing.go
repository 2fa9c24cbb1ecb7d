package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	listingserrors "homestay/internal/listings/errors"
	"homestay/pkg/config"
	"homestay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Listings"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, id string) (*model.Listing, error)
	FindSummaries(ctx context.Context, ids []string) (map[string]*model.ListingSummary, error)
	Update(ctx context.Context, listing *model.Listing) error
	SetStatus(ctx context.Context, id string, status model.ListingStatus, isActive bool) error
	FindByHost(ctx context.Context, hostID string, page model.Page) ([]*model.Listing, error)
	CountByHost(ctx context.Context, hostID string) (int64, error)
	Search(ctx context.Context, filter model.ListingFilter, page model.Page) ([]*model.Listing, error)
	CountSearch(ctx context.Context, filter model.ListingFilter) (int64, error)
	UpdateRating(ctx context.Context, id string, rating model.RatingAggregate) error
}

type mongoListingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoListingRepository(cfg *config.Config) ListingRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoListingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout bounds ctx unless it is a transaction's SessionContext.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoListingRepository) Create(ctx context.Context, listing *model.Listing) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	listing.CreatedAt = now
	listing.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, listing)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		listing.ID = oid.Hex()
	}
	return nil
}

func (r *mongoListingRepository) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", listingserrors.ErrInvalidID, id)
	}

	var listing model.Listing
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, listingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return &listing, nil
}

// FindSummaries returns summaries keyed by listing id. Unknown and malformed
// ids are skipped.
func (r *mongoListingRepository) FindSummaries(ctx context.Context, ids []string) (map[string]*model.ListingSummary, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := toObjectIDs(ids)
	summaries := make(map[string]*model.ListingSummary, len(objectIDs))
	if len(objectIDs) == 0 {
		return summaries, nil
	}

	opts := options.Find().SetProjection(bson.M{
		"title": 1, "city": 1, "area": 1, "property_type": 1, "photos": bson.M{"$slice": 1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find listing summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []*model.Listing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listing summaries: %w", err)
	}
	for _, l := range listings {
		summaries[l.ID] = l.Summary()
	}
	return summaries, nil
}

func (r *mongoListingRepository) Update(ctx context.Context, listing *model.Listing) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(listing.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", listingserrors.ErrInvalidID, listing.ID)
	}

	listing.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	set := bson.M{
		"title":            listing.Title,
		"description":      listing.Description,
		"property_type":    listing.PropertyType,
		"city":             listing.City,
		"area":             listing.Area,
		"photos":           listing.Photos,
		"monthly_price":    listing.MonthlyPrice,
		"cleaning_fee":     listing.CleaningFee,
		"security_deposit": listing.SecurityDeposit,
		"min_nights":       listing.MinNights,
		"max_nights":       listing.MaxNights,
		"max_guests":       listing.MaxGuests,
		"updated_at":       listing.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if listing.NightlyPrice != nil {
		set["nightly_price"] = *listing.NightlyPrice
	} else {
		update["$unset"] = bson.M{"nightly_price": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if result.MatchedCount == 0 {
		return listingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoListingRepository) SetStatus(ctx context.Context, id string, status model.ListingStatus, isActive bool) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", listingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{
		"status":     status,
		"is_active":  isActive,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}})
	if err != nil {
		return fmt.Errorf("failed to update listing status: %w", err)
	}
	if result.MatchedCount == 0 {
		return listingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoListingRepository) FindByHost(ctx context.Context, hostID string, page model.Page) ([]*model.Listing, error) {
	return r.find(ctx, bson.M{"host_id": hostID}, page)
}

func (r *mongoListingRepository) CountByHost(ctx context.Context, hostID string) (int64, error) {
	return r.count(ctx, bson.M{"host_id": hostID})
}

func (r *mongoListingRepository) Search(ctx context.Context, filter model.ListingFilter, page model.Page) ([]*model.Listing, error) {
	return r.find(ctx, searchFilter(filter), page)
}

func (r *mongoListingRepository) CountSearch(ctx context.Context, filter model.ListingFilter) (int64, error) {
	return r.count(ctx, searchFilter(filter))
}

func (r *mongoListingRepository) UpdateRating(ctx context.Context, id string, rating model.RatingAggregate) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", listingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{
		"average_rating": rating.Average,
		"review_count":   rating.Count,
	}})
	if err != nil {
		return fmt.Errorf("failed to update listing rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return listingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoListingRepository) find(ctx context.Context, filter bson.M, page model.Page) ([]*model.Listing, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find listings: %w", err)
	}
	defer cursor.Close(ctx)

	listings := make([]*model.Listing, 0, page.Limit)
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return listings, nil
}

func (r *mongoListingRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

// searchFilter matches bookable listings only.
func searchFilter(f model.ListingFilter) bson.M {
	filter := bson.M{
		"status":    model.ListingActive,
		"is_active": true,
	}
	if f.City != "" {
		filter["city"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.City) + "$", Options: "i"}
	}
	if f.PropertyType != "" {
		filter["property_type"] = f.PropertyType
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["monthly_price"] = price
	}
	if f.Guests > 0 {
		filter["max_guests"] = bson.M{"$gte": f.Guests}
	}
	return filter
}

func toObjectIDs(ids []string) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		if _, ok := seen[oid]; ok {
			continue
		}
		seen[oid] = struct{}{}
		out = append(out, oid)
	}
	return out
}
