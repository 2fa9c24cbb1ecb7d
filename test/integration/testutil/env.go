//go:build integration

package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"homestay/pkg/auth"
	"homestay/pkg/client"
)

const DefaultHealthCheckTimeout = 30 * time.Second

// TestEnv points at the running bookings, listings and notifications
// services and the database they share.
type TestEnv struct {
	MongoURI         string
	DatabaseName     string
	BookingsURL      string
	ListingsURL      string
	NotificationsURL string
	JWTSecret        string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{
		MongoURI:         getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName:     getEnv("TEST_DB_NAME", DefaultDatabaseName),
		BookingsURL:      getEnv("TEST_BOOKINGS_URL", "http://localhost:8080"),
		ListingsURL:      getEnv("TEST_LISTINGS_URL", "http://localhost:8081"),
		NotificationsURL: getEnv("TEST_NOTIFICATIONS_URL", "http://localhost:8082"),
		JWTSecret:        getEnv("JWT_SECRET", "integration-secret"),
	}
}

type Clients struct {
	Bookings      *client.HttpClient
	Listings      *client.HttpClient
	Notifications *client.HttpClient
}

// Setup waits for every service and returns a clean database.
func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, Clients) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)

	clients := Clients{
		Bookings:      client.NewHttpClient(e.BookingsURL),
		Listings:      client.NewHttpClient(e.ListingsURL),
		Notifications: client.NewHttpClient(e.NotificationsURL),
	}
	for _, c := range []*client.HttpClient{clients.Bookings, clients.Listings, clients.Notifications} {
		if err := c.WaitForHealthy(context.Background(), DefaultHealthCheckTimeout); err != nil {
			t.Fatalf("%s: %v", c.BaseURL, err)
		}
	}

	t.Cleanup(func() {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	})
	return mongo, clients
}

// As returns the clients authenticated as userID.
func (e *TestEnv) As(t *testing.T, clients Clients, userID string) Clients {
	t.Helper()
	token, err := auth.IssueToken(e.JWTSecret, userID, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return Clients{
		Bookings:      clients.Bookings.WithToken(token),
		Listings:      clients.Listings.WithToken(token),
		Notifications: clients.Notifications.WithToken(token),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
