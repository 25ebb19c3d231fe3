package schedule

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tutorlink/platform/internal/domain"
)

// Repository defines the data access contract for tutor schedules.
// Implementations must be safe for concurrent use.
type Repository interface {
	// GetTutorProfile returns a tutor's profile including the raw
	// availability JSON. Returns ErrTutorNotFound if it doesn't exist.
	GetTutorProfile(ctx context.Context, tutorID string) (*domain.TutorProfile, error)

	// PutAvailability stores the given availability JSON on the tutor's
	// profile as-is. Returns ErrTutorNotFound for an unknown tutor.
	PutAvailability(ctx context.Context, tutorID string, raw json.RawMessage) error

	// BookingsForTutorOnDate returns the tutor's non-cancelled bookings
	// whose start time falls on the given calendar date.
	BookingsForTutorOnDate(ctx context.Context, tutorID string, date time.Time) ([]domain.Booking, error)
}
