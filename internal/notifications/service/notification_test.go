package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	notificationserrors "homestay/internal/notifications/errors"
	"homestay/pkg/config"
	apperrors "homestay/pkg/errors"
	"homestay/pkg/logger"
	"homestay/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepository struct {
	mu        sync.Mutex
	items     []*model.Notification
	seq       int
	createErr error
}

func (f *fakeNotificationRepository) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	n.ID = fmt.Sprintf("%024x", f.seq)
	n.CreatedAt = time.Date(2025, 2, 1, 0, 0, f.seq, 0, time.UTC)
	cp := *n
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeNotificationRepository) matching(userID string, filter model.NotificationFilter) []*model.Notification {
	var out []*model.Notification
	for _, n := range f.items {
		if n.UserID != userID {
			continue
		}
		if filter.Type != nil && n.Type != *filter.Type {
			continue
		}
		if filter.Read != nil && n.Read != *filter.Read {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeNotificationRepository) FindByUser(_ context.Context, userID string, filter model.NotificationFilter, page model.Page) ([]*model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.matching(userID, filter)
	start := int(page.Skip())
	if start >= len(all) {
		return []*model.Notification{}, nil
	}
	end := min(start+page.Limit, len(all))
	return all[start:end], nil
}

func (f *fakeNotificationRepository) CountByUser(_ context.Context, userID string, filter model.NotificationFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.matching(userID, filter))), nil
}

func (f *fakeNotificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	unread := false
	return f.CountByUser(ctx, userID, model.NotificationFilter{Read: &unread})
}

func (f *fakeNotificationRepository) MarkRead(_ context.Context, id, userID string) (*model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			cp := *n
			return &cp, nil
		}
	}
	return nil, notificationserrors.ErrNotFound
}

func (f *fakeNotificationRepository) MarkAllRead(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var updated int64
	for _, n := range f.items {
		if n.UserID == userID && !n.Read {
			n.Read = true
			updated++
		}
	}
	return updated, nil
}

func (f *fakeNotificationRepository) Delete(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.items {
		if n.ID == id && n.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return notificationserrors.ErrNotFound
}

type mockUserReader struct {
	FindSummariesFunc func(ctx context.Context, ids []string) (map[string]*model.UserSummary, error)
}

func (m *mockUserReader) FindSummaries(ctx context.Context, ids []string) (map[string]*model.UserSummary, error) {
	return m.FindSummariesFunc(ctx, ids)
}

func newTestService(repo *fakeNotificationRepository, users UserReader) NotificationService {
	cfg := &config.Config{Log: logger.Discard()}
	return NewNotificationService(repo, users, nil, cfg)
}

func bookingEvent(t model.BookingEventType, actorID string) model.BookingEvent {
	return model.BookingEvent{
		Type:         t,
		BookingID:    "b1",
		BookingCode:  "HS1234560AB1",
		ListingID:    "l1",
		ListingTitle: "Sea View Loft",
		GuestID:      "guest-1",
		HostID:       "host-1",
		ActorID:      actorID,
		CheckIn:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:     time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestHandleBookingEvent_Recipients(t *testing.T) {
	tests := []struct {
		name      string
		event     model.BookingEvent
		wantUser  string
		wantType  model.NotificationType
		wantTitle string
	}{
		{
			name:      "created goes to host",
			event:     bookingEvent(model.EventBookingCreated, "guest-1"),
			wantUser:  "host-1",
			wantType:  model.NotificationBookingRequest,
			wantTitle: "New Booking Request",
		},
		{
			name:      "confirmed goes to guest",
			event:     bookingEvent(model.EventBookingConfirmed, "host-1"),
			wantUser:  "guest-1",
			wantType:  model.NotificationBookingConfirmed,
			wantTitle: "Booking Confirmed",
		},
		{
			name:      "started goes to guest",
			event:     bookingEvent(model.EventBookingStarted, "host-1"),
			wantUser:  "guest-1",
			wantType:  model.NotificationBookingStarted,
			wantTitle: "Stay Started",
		},
		{
			name:      "completed goes to guest",
			event:     bookingEvent(model.EventBookingCompleted, "host-1"),
			wantUser:  "guest-1",
			wantType:  model.NotificationBookingCompleted,
			wantTitle: "Stay Completed",
		},
		{
			name:      "guest cancellation goes to host",
			event:     bookingEvent(model.EventBookingCancelled, "guest-1"),
			wantUser:  "host-1",
			wantType:  model.NotificationBookingCancelled,
			wantTitle: "Booking Cancelled",
		},
		{
			name:      "host cancellation goes to guest",
			event:     bookingEvent(model.EventBookingCancelled, "host-1"),
			wantUser:  "guest-1",
			wantType:  model.NotificationBookingCancelled,
			wantTitle: "Booking Cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeNotificationRepository{}
			svc := newTestService(repo, nil)

			require.NoError(t, svc.HandleBookingEvent(context.Background(), tt.event))

			require.Len(t, repo.items, 1)
			n := repo.items[0]
			assert.Equal(t, tt.wantUser, n.UserID)
			assert.Equal(t, tt.wantType, n.Type)
			assert.Equal(t, tt.wantTitle, n.Title)
			assert.Equal(t, "b1", n.RelatedID)
			assert.False(t, n.Read)
			assert.Equal(t, "2025-03-10", n.Data["checkIn"])
			assert.Equal(t, "HS1234560AB1", n.Data["bookingCode"])
		})
	}
}

func TestHandleBookingEvent_Messages(t *testing.T) {
	users := &mockUserReader{FindSummariesFunc: func(_ context.Context, ids []string) (map[string]*model.UserSummary, error) {
		return map[string]*model.UserSummary{ids[0]: {ID: ids[0], FirstName: "Dana"}}, nil
	}}
	repo := &fakeNotificationRepository{}
	svc := newTestService(repo, users)

	require.NoError(t, svc.HandleBookingEvent(context.Background(), bookingEvent(model.EventBookingCreated, "guest-1")))

	half := 0.5
	cancelled := bookingEvent(model.EventBookingCancelled, "guest-1")
	cancelled.RefundFraction = &half
	require.NoError(t, svc.HandleBookingEvent(context.Background(), cancelled))

	require.Len(t, repo.items, 2)
	assert.Equal(t, "Dana has requested to book Sea View Loft from 2025-03-10 to 2025-03-15", repo.items[0].Message)
	assert.Equal(t, "Booking HS1234560AB1 for Sea View Loft has been cancelled (50% refund)", repo.items[1].Message)
	assert.Equal(t, 0.5, repo.items[1].Data["refundFraction"])
}

func TestHandleBookingEvent_GuestLookupFailureIsNotFatal(t *testing.T) {
	users := &mockUserReader{FindSummariesFunc: func(context.Context, []string) (map[string]*model.UserSummary, error) {
		return nil, errors.New("users unavailable")
	}}
	repo := &fakeNotificationRepository{}
	svc := newTestService(repo, users)

	require.NoError(t, svc.HandleBookingEvent(context.Background(), bookingEvent(model.EventBookingCreated, "guest-1")))

	require.Len(t, repo.items, 1)
	assert.Equal(t, "A guest has requested to book Sea View Loft from 2025-03-10 to 2025-03-15", repo.items[0].Message)
}

func TestHandleBookingEvent_Rejections(t *testing.T) {
	t.Run("unknown type is ignored", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		err := newTestService(repo, nil).HandleBookingEvent(context.Background(), model.BookingEvent{Type: "booking_archived", BookingID: "b1"})
		require.NoError(t, err)
		assert.Empty(t, repo.items)
	})

	t.Run("missing recipient", func(t *testing.T) {
		event := bookingEvent(model.EventBookingConfirmed, "host-1")
		event.GuestID = ""
		err := newTestService(&fakeNotificationRepository{}, nil).HandleBookingEvent(context.Background(), event)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := &fakeNotificationRepository{createErr: errors.New("mongo down")}
		err := newTestService(repo, nil).HandleBookingEvent(context.Background(), bookingEvent(model.EventBookingConfirmed, "host-1"))
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
	})
}

func TestList(t *testing.T) {
	repo := &fakeNotificationRepository{}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	for _, et := range []model.BookingEventType{
		model.EventBookingConfirmed,
		model.EventBookingStarted,
		model.EventBookingCompleted,
	} {
		require.NoError(t, svc.HandleBookingEvent(ctx, bookingEvent(et, "host-1")))
	}
	require.NoError(t, svc.HandleBookingEvent(ctx, bookingEvent(model.EventBookingCreated, "guest-1")))

	_, err := svc.MarkRead(ctx, repo.items[0].ID, "guest-1")
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		list, err := svc.List(ctx, "guest-1", model.NotificationFilter{}, model.Page{Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), list.Total)
		assert.Equal(t, int64(2), list.UnreadCount)
		require.Len(t, list.Notifications, 2)
		assert.Equal(t, "Stay Completed", list.Notifications[0].Title)
	})

	t.Run("unread only", func(t *testing.T) {
		unread := false
		list, err := svc.List(ctx, "guest-1", model.NotificationFilter{Read: &unread}, model.Page{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(2), list.Total)
		for _, n := range list.Notifications {
			assert.False(t, n.Read)
		}
	})

	t.Run("by type", func(t *testing.T) {
		kind := model.NotificationBookingStarted
		list, err := svc.List(ctx, "guest-1", model.NotificationFilter{Type: &kind}, model.Page{Page: 1, Limit: 20})
		require.NoError(t, err)
		require.Len(t, list.Notifications, 1)
		assert.Equal(t, "Stay Started", list.Notifications[0].Title)
	})

	t.Run("empty page is not nil", func(t *testing.T) {
		list, err := svc.List(ctx, "nobody", model.NotificationFilter{}, model.Page{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.NotNil(t, list.Notifications)
		assert.Empty(t, list.Notifications)
	})
}

func TestOwnership(t *testing.T) {
	repo := &fakeNotificationRepository{}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	require.NoError(t, svc.HandleBookingEvent(ctx, bookingEvent(model.EventBookingConfirmed, "host-1")))
	id := repo.items[0].ID

	_, err := svc.MarkRead(ctx, id, "host-1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	err = svc.Delete(ctx, id, "host-1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	updated, err := svc.MarkAllRead(ctx, "host-1")
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.False(t, repo.items[0].Read)

	updated, err = svc.MarkAllRead(ctx, "guest-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	require.NoError(t, svc.Delete(ctx, id, "guest-1"))
	assert.Empty(t, repo.items)
}
