package booking

import (
	"context"

	"github.com/tutorlink/platform/internal/domain"
)

// Repository defines the data access contract for bookings.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single booking. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Booking, error)

	// Create inserts a new booking.
	Create(ctx context.Context, b *domain.Booking) error

	// TransitionStatus atomically moves a booking from `from` to `to` in a
	// single conditional write (UPDATE ... WHERE status = from). It returns
	// the updated booking on success, ErrNotFound for an unknown id, and
	// ErrInvalidTransition when the booking exists but is no longer in
	// `from`, which is exactly what a lost race looks like.
	TransitionStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error)

	// ListForUser returns bookings where the user participates, newest
	// first. Role selects which side of the booking to match.
	ListForUser(ctx context.Context, userID string, role domain.Role) ([]domain.Booking, error)
}
