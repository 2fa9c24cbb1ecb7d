//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	bookingsrepo "homestay/internal/bookings/repository"
	listingsrepo "homestay/internal/listings/repository"
	notificationsrepo "homestay/internal/notifications/repository"
	reviewsrepo "homestay/internal/reviews/repository"
	usersrepo "homestay/internal/users/repository"
	"homestay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "homestay"
	ConnectionTimeout   = 10 * time.Second
)

var dataCollections = []string{
	bookingsrepo.CollectionName,
	bookingsrepo.LockCollectionName,
	listingsrepo.CollectionName,
	reviewsrepo.CollectionName,
	notificationsrepo.CollectionName,
	usersrepo.CollectionName,
}

// MongoHelper seeds and cleans the shared database.
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
	}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// CleanDatabase empties the data collections. Collections are kept so
// migrated validators and indexes survive between tests.
func (m *MongoHelper) CleanDatabase(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, name := range dataCollections {
		if _, err := m.Database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			t.Fatalf("failed to clean collection %s: %v", name, err)
		}
	}
}

// SeedListing stores an active listing and returns its id.
func (m *MongoHelper) SeedListing(t *testing.T, listing *model.Listing) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	listing.CreatedAt, listing.UpdatedAt = now, now
	result, err := m.Database.Collection(listingsrepo.CollectionName).InsertOne(ctx, listing)
	if err != nil {
		t.Fatalf("failed to seed listing: %v", err)
	}
	id := result.InsertedID.(primitive.ObjectID).Hex()
	listing.ID = id
	return id
}

func (m *MongoHelper) SeedUser(t *testing.T, user *model.UserSummary) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := m.Database.Collection(usersrepo.CollectionName).InsertOne(ctx, user)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	id := result.InsertedID.(primitive.ObjectID).Hex()
	user.ID = id
	return id
}

func (m *MongoHelper) CountDocuments(t *testing.T, collectionName string, filter bson.M) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.Database.Collection(collectionName).CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collectionName, err)
	}
	return count
}
