//go:build integration

package bookings

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	bookingsrepo "homestay/internal/bookings/repository"
	"homestay/pkg/client"
	"homestay/pkg/model"
	"homestay/test/integration/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type world struct {
	env     *testutil.TestEnv
	mongo   *testutil.MongoHelper
	anon    testutil.Clients
	hostID  string
	listing *model.Listing
}

func setup(t *testing.T) *world {
	t.Helper()
	env := testutil.NewTestEnv()
	mongo, clients := env.Setup(t)

	hostID := mongo.SeedUser(t, &model.UserSummary{FirstName: "Noa", LastName: "Host"})
	listing := &model.Listing{
		HostID:       hostID,
		Title:        "Sea view loft",
		City:         "Tel Aviv",
		PropertyType: "apartment",
		Photos:       []string{},
		MonthlyPrice: 3000,
		CleaningFee:  150,
		MinNights:    28,
		MaxNights:    180,
		MaxGuests:    4,
		IsActive:     true,
		Status:       model.ListingActive,
	}
	mongo.SeedListing(t, listing)

	return &world{env: env, mongo: mongo, anon: clients, hostID: hostID, listing: listing}
}

func (w *world) guest(t *testing.T, name string) (string, testutil.Clients) {
	t.Helper()
	id := w.mongo.SeedUser(t, &model.UserSummary{FirstName: name, LastName: "Guest"})
	return id, w.env.As(t, w.anon, id)
}

func (w *world) host(t *testing.T) testutil.Clients {
	return w.env.As(t, w.anon, w.hostID)
}

func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format(time.DateOnly)
}

func call(t *testing.T, c *client.HttpClient, method, path string, body any) *client.Response {
	t.Helper()
	resp, err := c.Do(context.Background(), method, path, body, nil)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *client.Response) T {
	t.Helper()
	var v T
	require.NoError(t, resp.DecodeData(&v), string(resp.Body))
	return v
}

func TestBookingLifecycle(t *testing.T) {
	w := setup(t)
	_, dana := w.guest(t, "Dana")
	_, omer := w.guest(t, "Omer")
	host := w.host(t)

	resp := call(t, dana.Bookings, http.MethodPost, "/api/bookings", map[string]any{
		"listingId": w.listing.ID,
		"checkIn":   day(60),
		"checkOut":  day(88),
		"adults":    2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, client.GetErrorMessage(resp))
	booking := decode[model.Booking](t, resp)

	assert.Equal(t, model.BookingPending, booking.Status)
	assert.Equal(t, 28, booking.TotalNights)
	assert.Equal(t, 84000.0, booking.Subtotal)
	assert.Equal(t, 11760.0, booking.ServiceFee)
	assert.Equal(t, 4200.0, booking.Taxes)
	assert.Equal(t, 100110.0, booking.TotalPrice)
	assert.Equal(t, w.hostID, booking.HostID)

	resp = call(t, host.Bookings, http.MethodPatch, "/api/bookings/"+booking.ID+"/status", map[string]any{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorMessage(resp))

	t.Run("overlapping stay is rejected", func(t *testing.T) {
		resp := call(t, omer.Bookings, http.MethodPost, "/api/bookings", map[string]any{
			"listingId": w.listing.ID,
			"checkIn":   day(74),
			"checkOut":  day(110),
			"adults":    1,
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode, client.GetErrorMessage(resp))
	})

	t.Run("guest cannot start the stay", func(t *testing.T) {
		resp := call(t, dana.Bookings, http.MethodPatch, "/api/bookings/"+booking.ID+"/status", map[string]any{"status": "IN_PROGRESS"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	for _, status := range []string{"IN_PROGRESS", "COMPLETED"} {
		resp = call(t, host.Bookings, http.MethodPatch, "/api/bookings/"+booking.ID+"/status", map[string]any{"status": status})
		require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorMessage(resp))
	}

	t.Run("guest reviews the completed stay", func(t *testing.T) {
		resp := call(t, dana.Listings, http.MethodPost, "/api/reviews", map[string]any{
			"bookingId": booking.ID,
			"overall":   4,
			"comment":   "Great view",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, client.GetErrorMessage(resp))

		resp = call(t, dana.Listings, http.MethodPost, "/api/reviews", map[string]any{
			"bookingId": booking.ID,
			"overall":   5,
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		resp = call(t, dana.Listings, http.MethodGet, "/api/properties/"+w.listing.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		listing := decode[model.Listing](t, resp)
		assert.Equal(t, 4.0, listing.AverageRating)
		assert.Equal(t, 1, listing.ReviewCount)
	})

	t.Run("guest is notified of every step", func(t *testing.T) {
		require.Eventually(t, func() bool {
			resp, err := dana.Notifications.GET(context.Background(), "/api/notifications")
			if err != nil || resp.StatusCode != http.StatusOK {
				return false
			}
			var list struct {
				Data []model.Notification `json:"data"`
			}
			return resp.DecodeJSON(&list) == nil && len(list.Data) == 3
		}, 10*time.Second, 200*time.Millisecond)

		resp := call(t, host.Notifications, http.MethodGet, "/api/notifications?type=BOOKING_REQUEST", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		requests := decode[[]model.Notification](t, resp)
		require.Len(t, requests, 1)
		assert.Equal(t, "New Booking Request", requests[0].Title)
	})
}

func TestConcurrentBookingsForSameDates(t *testing.T) {
	w := setup(t)

	const guests = 8
	clients := make([]testutil.Clients, guests)
	for i := range clients {
		_, clients[i] = w.guest(t, fmt.Sprintf("Guest%d", i))
	}

	var wg sync.WaitGroup
	codes := make([]int, guests)
	for i := range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := clients[i].Bookings.POST(context.Background(), "/api/bookings", map[string]any{
				"listingId": w.listing.ID,
				"checkIn":   day(30),
				"checkOut":  day(60),
				"adults":    1,
			})
			if err == nil {
				codes[i] = resp.StatusCode
			}
		}()
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		if code == http.StatusCreated {
			created++
		} else {
			assert.Equal(t, http.StatusConflict, code)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, int64(1), w.mongo.CountDocuments(t, bookingsrepo.CollectionName, bson.M{"listing_id": w.listing.ID}))
}

func TestCancelWithFullRefund(t *testing.T) {
	w := setup(t)
	_, dana := w.guest(t, "Dana")

	resp := call(t, dana.Bookings, http.MethodPost, "/api/bookings", map[string]any{
		"listingId": w.listing.ID,
		"checkIn":   day(40),
		"checkOut":  day(70),
		"adults":    2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, client.GetErrorMessage(resp))
	booking := decode[model.Booking](t, resp)

	resp = call(t, dana.Bookings, http.MethodDelete, "/api/bookings/"+booking.ID+"/cancel", map[string]any{"cancelReason": "Plans changed"})
	require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorMessage(resp))
	result := decode[model.CancelResult](t, resp)

	assert.Equal(t, model.BookingCancelled, result.Status)
	assert.Equal(t, 1.0, result.RefundAmount)

	resp = call(t, dana.Bookings, http.MethodDelete, "/api/bookings/"+booking.ID+"/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
