package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tutorlink/platform/internal/domain"
)

// Service exposes tutor availability and slot resolution. It is the only
// component that reads the raw availability JSON; everything downstream sees
// the canonical representation.
type Service struct {
	repo Repository
}

// NewService creates a schedule service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Profile returns the tutor's stored profile with the availability document
// exactly as persisted, legacy shape included.
func (s *Service) Profile(ctx context.Context, tutorID string) (*domain.TutorProfile, error) {
	return s.repo.GetTutorProfile(ctx, tutorID)
}

// Availability returns the tutor's canonical weekly schedule.
func (s *Service) Availability(ctx context.Context, tutorID string) (domain.CanonicalAvailability, error) {
	profile, err := s.repo.GetTutorProfile(ctx, tutorID)
	if err != nil {
		return domain.CanonicalAvailability{}, err
	}
	return Normalize(profile.Availability), nil
}

// SetAvailability validates and stores a tutor's schedule. Input is always
// the canonical array shape; the legacy weekly-object shape is read-only
// compatibility for old records.
func (s *Service) SetAvailability(ctx context.Context, tutorID string, entries []domain.AvailabilityEntry) error {
	for _, e := range entries {
		if e.DayOfWeek < 0 || e.DayOfWeek > 6 {
			return fmt.Errorf("%w: day %d out of range", ErrInvalidAvailability, e.DayOfWeek)
		}
		start, err := ParseClock(e.StartTime)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
		}
		end, err := ParseClock(e.EndTime)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
		}
		if end <= start {
			return fmt.Errorf("%w: %s-%s ends before it starts", ErrInvalidAvailability, e.StartTime, e.EndTime)
		}
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode availability: %w", err)
	}
	return s.repo.PutAvailability(ctx, tutorID, raw)
}

// SlotsForDate returns the bookable "HH:MM" start times for a tutor on the
// given date, with already-booked slots excluded.
func (s *Service) SlotsForDate(ctx context.Context, tutorID string, date time.Time) ([]string, error) {
	canonical, err := s.Availability(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.BookingsForTutorOnDate(ctx, tutorID, date)
	if err != nil {
		return nil, fmt.Errorf("load bookings for %s: %w", date.Format("2006-01-02"), err)
	}
	return Resolve(canonical, date, bookings), nil
}
