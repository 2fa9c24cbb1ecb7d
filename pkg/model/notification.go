package model

import "time"

type NotificationType string

const (
	NotificationBookingRequest   NotificationType = "BOOKING_REQUEST"
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationBookingStarted   NotificationType = "BOOKING_STARTED"
	NotificationBookingCompleted NotificationType = "BOOKING_COMPLETED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationBookingRequest,
		NotificationBookingConfirmed,
		NotificationBookingStarted,
		NotificationBookingCompleted,
		NotificationBookingCancelled:
		return true
	}
	return false
}

type Notification struct {
	ID        string           `json:"id" bson:"_id,omitempty"`
	UserID    string           `json:"userId" bson:"user_id"`
	Type      NotificationType `json:"type" bson:"type"`
	Title     string           `json:"title" bson:"title"`
	Message   string           `json:"message" bson:"message"`
	Data      map[string]any   `json:"data,omitempty" bson:"data,omitempty"`
	RelatedID string           `json:"relatedId,omitempty" bson:"related_id,omitempty"`
	Read      bool             `json:"read" bson:"read"`
	ReadAt    *time.Time       `json:"readAt,omitempty" bson:"read_at,omitempty"`
	CreatedAt time.Time        `json:"createdAt" bson:"created_at"`
}

type NotificationFilter struct {
	Type *NotificationType
	Read *bool
}

// NotificationList is one page of a user's notifications along with the
// user's overall unread count.
type NotificationList struct {
	Notifications []*Notification
	Total         int64
	UnreadCount   int64
}
