package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/events"
	"github.com/tutorlink/platform/internal/pkg/logger"
)

// SlotSource yields the currently bookable start times for a tutor on a
// date. Satisfied by *schedule.Service.
type SlotSource interface {
	SlotsForDate(ctx context.Context, tutorID string, date time.Time) ([]string, error)
}

// Service drives the booking lifecycle. All public methods are safe for
// concurrent use if the underlying repository is concurrency-safe.
type Service struct {
	repo  Repository
	slots SlotSource
	bus   *events.Bus
	now   func() time.Time
}

// NewService creates a booking service. bus may not be nil; transitions
// always publish their event.
func NewService(repo Repository, slots SlotSource, bus *events.Bus) *Service {
	return &Service{repo: repo, slots: slots, bus: bus, now: time.Now}
}

// CreateInput holds the fields for creating a new booking.
type CreateInput struct {
	TutorID   string    `json:"tutor_id"`
	Subject   string    `json:"subject"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Create validates the requested slot against the tutor's resolvable slots
// and persists a pending booking. Pending creation emits no event: only
// transitions are notification-worthy.
func (s *Service) Create(ctx context.Context, studentID string, input CreateInput) (*domain.Booking, error) {
	if input.EndTime.Sub(input.StartTime) != domain.SlotDuration {
		return nil, fmt.Errorf("%w: booking must be exactly %s", ErrInvalidSlot, domain.SlotDuration)
	}
	if !input.StartTime.After(s.now()) {
		return nil, fmt.Errorf("%w: start time is not in the future", ErrInvalidSlot)
	}

	available, err := s.slots.SlotsForDate(ctx, input.TutorID, input.StartTime)
	if err != nil {
		return nil, err
	}
	clock := input.StartTime.Format("15:04")
	if !contains(available, clock) {
		return nil, fmt.Errorf("%w: %s is not an open slot", ErrInvalidSlot, clock)
	}

	now := s.now()
	b := &domain.Booking{
		ID:        uuid.New().String(),
		StudentID: studentID,
		TutorID:   input.TutorID,
		Subject:   input.Subject,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Status:    domain.BookingPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	logger.Info("booking created",
		"booking_id", b.ID, "tutor_id", b.TutorID, "start", clock)
	return b, nil
}

// Transition applies the state machine:
//
//	pending → confirmed   (tutor who owns the booking, or payment webhook)
//	pending → cancelled   (tutor who owns the booking, or payment webhook)
//
// Everything else fails with ErrInvalidTransition. Ownership failures come
// back as ErrForbidden so a client can tell "someone already acted on this"
// apart from "you are not allowed to act on this". On success exactly one
// BookingEvent is published.
func (s *Service) Transition(ctx context.Context, bookingID string, actor domain.Actor, to domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if actor.Kind == domain.ActorTutor && b.TutorID != actor.UserID {
		return nil, ErrForbidden
	}

	if to != domain.BookingConfirmed && to != domain.BookingCancelled {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, b.Status, to)
	}
	if b.Status != domain.BookingPending {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, b.Status, to)
	}

	// The conditional write is the arbiter: of two racing transitions only
	// one sees the pending row.
	updated, err := s.repo.TransitionStatus(ctx, bookingID, domain.BookingPending, to)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(domain.BookingEvent{
		BookingID:  updated.ID,
		StudentID:  updated.StudentID,
		TutorID:    updated.TutorID,
		Previous:   domain.BookingPending,
		New:        updated.Status,
		Actor:      actor,
		StartTime:  updated.StartTime,
		OccurredAt: s.now(),
	})

	logger.Info("booking transitioned",
		"booking_id", updated.ID, "from", domain.BookingPending, "to", updated.Status,
		"actor", actor.Kind)
	return updated, nil
}

// Get returns a single booking.
func (s *Service) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.repo.Get(ctx, id)
}

// ListForUser returns the bookings the user participates in.
func (s *Service) ListForUser(ctx context.Context, userID string, role domain.Role) ([]domain.Booking, error) {
	return s.repo.ListForUser(ctx, userID, role)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
