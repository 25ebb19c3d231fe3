package notify

import (
	"context"
	"errors"

	"github.com/tutorlink/platform/internal/domain"
)

// ErrNotFound is returned for an unknown notification id.
var ErrNotFound = errors.New("notification not found")

// Repository defines the data access contract for notifications.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Create persists a notification.
	Create(ctx context.Context, n *domain.Notification) error

	// ListForUser returns the user's notifications, newest first.
	ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)

	// MarkRead flips the read flag. The userID guard stops users marking
	// each other's notifications. Returns ErrNotFound when no row matches.
	MarkRead(ctx context.Context, id, userID string) error
}

// UserDirectory resolves user records for name lookups in notification text.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}
