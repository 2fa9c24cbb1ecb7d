package service

import (
	"context"
	"errors"

	notificationserrors "homestay/internal/notifications/errors"
	"homestay/internal/notifications/repository"
	"homestay/pkg/config"
	apperrors "homestay/pkg/errors"
	"homestay/pkg/metrics"
	"homestay/pkg/model"

	"golang.org/x/sync/errgroup"
)

type UserReader interface {
	FindSummaries(ctx context.Context, ids []string) (map[string]*model.UserSummary, error)
}

type NotificationService interface {
	List(ctx context.Context, userID string, filter model.NotificationFilter, page model.Page) (*model.NotificationList, error)
	MarkRead(ctx context.Context, id, userID string) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
	HandleBookingEvent(ctx context.Context, event model.BookingEvent) error
}

type notificationService struct {
	repo    repository.NotificationRepository
	users   UserReader
	metrics *metrics.Metrics
	cfg     *config.Config
}

func NewNotificationService(
	repo repository.NotificationRepository,
	users UserReader,
	m *metrics.Metrics,
	cfg *config.Config,
) NotificationService {
	return &notificationService{
		repo:    repo,
		users:   users,
		metrics: m,
		cfg:     cfg,
	}
}

func (s *notificationService) List(ctx context.Context, userID string, filter model.NotificationFilter, page model.Page) (*model.NotificationList, error) {
	list := &model.NotificationList{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if list.Total, err = s.repo.CountByUser(gctx, userID, filter); err != nil {
			s.cfg.Log.Error("Failed to count notifications", "user_id", userID, "error", err)
			return apperrors.Internal("Failed to count notifications", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if list.UnreadCount, err = s.repo.UnreadCount(gctx, userID); err != nil {
			s.cfg.Log.Error("Failed to count unread notifications", "user_id", userID, "error", err)
			return apperrors.Internal("Failed to count notifications", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if list.Notifications, err = s.repo.FindByUser(gctx, userID, filter, page); err != nil {
			s.cfg.Log.Error("Failed to list notifications", "user_id", userID, "error", err)
			return apperrors.Internal("Failed to retrieve notifications", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if list.Notifications == nil {
		list.Notifications = []*model.Notification{}
	}
	s.cfg.Log.Debug("Notifications listed",
		"user_id", userID,
		"count", len(list.Notifications),
		"total", list.Total,
		"unread", list.UnreadCount,
	)
	return list, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) (*model.Notification, error) {
	notification, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, notificationserrors.ErrNotFound) || errors.Is(err, notificationserrors.ErrInvalidID) {
			return nil, apperrors.NotFound("Notification")
		}
		s.cfg.Log.Error("Failed to mark notification read", "id", id, "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to update notification", err)
	}
	return notification, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to mark notifications read", "user_id", userID, "error", err)
		return 0, apperrors.Internal("Failed to update notifications", err)
	}
	s.cfg.Log.Info("Notifications marked read", "user_id", userID, "updated", updated)
	return updated, nil
}

func (s *notificationService) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, notificationserrors.ErrNotFound) || errors.Is(err, notificationserrors.ErrInvalidID) {
			return apperrors.NotFound("Notification")
		}
		s.cfg.Log.Error("Failed to delete notification", "id", id, "user_id", userID, "error", err)
		return apperrors.Internal("Failed to delete notification", err)
	}
	s.cfg.Log.Info("Notification deleted", "id", id, "user_id", userID)
	return nil
}

// HandleBookingEvent stores the notification a booking event produces.
// Event types without a template are ignored.
func (s *notificationService) HandleBookingEvent(ctx context.Context, event model.BookingEvent) error {
	notification, ok := s.render(ctx, event)
	if !ok {
		s.cfg.Log.Debug("No notification for booking event", "type", event.Type, "booking_id", event.BookingID)
		return nil
	}
	if notification.UserID == "" {
		s.cfg.Log.Warn("Booking event has no recipient", "type", event.Type, "booking_id", event.BookingID)
		return apperrors.Validation("Booking event has no recipient", map[string]any{
			"type":      event.Type,
			"bookingId": event.BookingID,
		})
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		s.cfg.Log.Error("Failed to create notification",
			"type", notification.Type,
			"user_id", notification.UserID,
			"booking_id", event.BookingID,
			"error", err,
		)
		return apperrors.Internal("Failed to create notification", err)
	}

	s.metrics.NotificationCreated(string(notification.Type))
	s.cfg.Log.Info("Notification created",
		"id", notification.ID,
		"type", notification.Type,
		"user_id", notification.UserID,
		"booking_id", event.BookingID,
	)
	return nil
}

// render fills the template of the event's type. The guest's first name
// is best effort: a lookup failure falls back to a generic wording.
func (s *notificationService) render(ctx context.Context, event model.BookingEvent) (*model.Notification, bool) {
	tpl, ok := templateFor(event.Type)
	if !ok {
		return nil, false
	}

	guestName := ""
	if event.Type == model.EventBookingCreated {
		guestName = s.guestName(ctx, event.GuestID)
	}

	return &model.Notification{
		UserID:    tpl.recipient(event),
		Type:      tpl.kind,
		Title:     tpl.title,
		Message:   tpl.message(event, guestName),
		Data:      eventData(event),
		RelatedID: event.BookingID,
	}, true
}

func (s *notificationService) guestName(ctx context.Context, guestID string) string {
	if s.users == nil || guestID == "" {
		return ""
	}
	summaries, err := s.users.FindSummaries(ctx, []string{guestID})
	if err != nil {
		s.cfg.Log.Warn("Failed to load guest summary", "guest_id", guestID, "error", err)
		return ""
	}
	if u, ok := summaries[guestID]; ok {
		return u.FirstName
	}
	return ""
}
