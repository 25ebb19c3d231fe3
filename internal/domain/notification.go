package domain

import "time"

// NotificationType categorizes persisted notifications.
type NotificationType string

const (
	NotificationBooking  NotificationType = "booking"
	NotificationMessage  NotificationType = "message"
	NotificationReminder NotificationType = "reminder"
)

// Notification is the durable record of an event a user should see. It is
// created only as a side effect of a booking or message domain event and is
// never mutated after creation except to flip Read.
type Notification struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
