// Package worker runs the background jobs that are not request-driven.
// Currently that is the session reminder scan.
package worker

import (
	"context"
	"time"

	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/pkg/distlock"
	"github.com/tutorlink/platform/internal/pkg/logger"
)

// BookingSource yields the bookings due for a reminder. Satisfied by
// *postgres.BookingRepo.
type BookingSource interface {
	ListUpcomingConfirmed(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	MarkReminderSent(ctx context.Context, id string) error
}

// Notifier sends the reminder to one participant. Satisfied by
// *notify.Service.
type Notifier interface {
	NotifySessionReminder(ctx context.Context, userID, otherName string, start time.Time) error
}

// UserDirectory resolves participant names for the reminder text.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// ReminderWorker periodically scans for confirmed sessions starting within
// the lead time and notifies both participants once. A distributed lock
// keeps multiple instances from double-sending.
type ReminderWorker struct {
	bookings BookingSource
	notifier Notifier
	users    UserDirectory
	lock     distlock.DistLock

	leadTime     time.Duration
	pollInterval time.Duration
	now          func() time.Time
}

// NewReminderWorker creates a reminder worker.
func NewReminderWorker(bookings BookingSource, notifier Notifier, users UserDirectory, lock distlock.DistLock, leadTime, pollInterval time.Duration) *ReminderWorker {
	return &ReminderWorker{
		bookings:     bookings,
		notifier:     notifier,
		users:        users,
		lock:         lock,
		leadTime:     leadTime,
		pollInterval: pollInterval,
		now:          time.Now,
	}
}

// Run loops until the context is cancelled.
func (w *ReminderWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	logger.Info("reminder worker started",
		"lead_time", w.leadTime.String(), "poll_interval", w.pollInterval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("reminder worker stopped")
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				logger.Error("reminder pass failed", "err", err)
			}
		}
	}
}

// RunOnce performs a single scan pass. It is a no-op when another instance
// holds the lock.
func (w *ReminderWorker) RunOnce(ctx context.Context) error {
	acquired, err := w.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	if !acquired {
		return nil
	}
	defer w.lock.Release(ctx)

	now := w.now()
	due, err := w.bookings.ListUpcomingConfirmed(ctx, now, now.Add(w.leadTime))
	if err != nil {
		return err
	}

	for _, b := range due {
		w.remind(ctx, b)
	}
	return nil
}

func (w *ReminderWorker) remind(ctx context.Context, b domain.Booking) {
	tutor, err := w.users.GetUser(ctx, b.TutorID)
	if err != nil {
		logger.Error("reminder: resolve tutor failed", "booking_id", b.ID, "err", err)
		return
	}
	student, err := w.users.GetUser(ctx, b.StudentID)
	if err != nil {
		logger.Error("reminder: resolve student failed", "booking_id", b.ID, "err", err)
		return
	}

	// Both participants get a reminder naming the other party.
	if err := w.notifier.NotifySessionReminder(ctx, b.StudentID, tutor.Name, b.StartTime); err != nil {
		logger.Error("reminder: notify student failed", "booking_id", b.ID, "err", err)
		return
	}
	if err := w.notifier.NotifySessionReminder(ctx, b.TutorID, student.Name, b.StartTime); err != nil {
		logger.Error("reminder: notify tutor failed", "booking_id", b.ID, "err", err)
		return
	}

	// Mark only after both notifications persisted so a failed pass is
	// retried on the next tick.
	if err := w.bookings.MarkReminderSent(ctx, b.ID); err != nil {
		logger.Error("reminder: mark sent failed", "booking_id", b.ID, "err", err)
	}
}
