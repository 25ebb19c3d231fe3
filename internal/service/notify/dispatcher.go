package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/pkg/logger"
)

// Pusher is the realtime fan-out surface the dispatcher needs. Satisfied by
// *realtime.Hub. Pushes are at-most-once: a user with no connected client
// simply misses the live event and reads the persisted notification later.
type Pusher interface {
	PushUser(userID, event string, payload any)
}

// Realtime event names, matching the client protocol.
const (
	EventBookingConfirmed = "booking_confirmed"
	EventPaymentSuccess   = "payment_success"
	EventPaymentFailed    = "payment_failed"
	EventNewMessage       = "new_message"
	EventSessionReminder  = "session_reminder"
)

// Service persists notifications and consumes booking events from the bus.
type Service struct {
	repo   Repository
	users  UserDirectory
	push   Pusher
	mailer Mailer
	tmpl   *TemplateSet
}

// NewService creates the notification service. mailer may be nil (email
// channel disabled).
func NewService(repo Repository, users UserDirectory, push Pusher, mailer Mailer) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		push:   push,
		mailer: mailer,
		tmpl:   NewTemplateSet(),
	}
}

// Run consumes booking events until the channel closes or ctx is done.
// Intended to be started once as a goroutine at boot.
func (s *Service) Run(ctx context.Context, eventsCh <-chan domain.BookingEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-eventsCh:
			if !ok {
				return
			}
			if err := s.HandleBookingEvent(ctx, ev); err != nil {
				logger.Error("dispatch booking event failed",
					"booking_id", ev.BookingID, "err", err)
			}
		}
	}
}

// HandleBookingEvent synthesizes exactly one Notification for the booking's
// student, persists it, and only then attempts the realtime push and email.
func (s *Service) HandleBookingEvent(ctx context.Context, ev domain.BookingEvent) error {
	tutor, err := s.users.GetUser(ctx, ev.TutorID)
	if err != nil {
		return fmt.Errorf("resolve tutor %s: %w", ev.TutorID, err)
	}
	student, err := s.users.GetUser(ctx, ev.StudentID)
	if err != nil {
		return fmt.Errorf("resolve student %s: %w", ev.StudentID, err)
	}

	var title, message string
	switch ev.New {
	case domain.BookingConfirmed:
		title = "Booking Confirmed"
		message, err = s.tmpl.BookingConfirmed(tutor.Name, ev.StartTime)
	case domain.BookingCancelled:
		title = "Booking Cancelled"
		message, err = s.tmpl.BookingCancelled(tutor.Name)
	default:
		return fmt.Errorf("unexpected transition target %s", ev.New)
	}
	if err != nil {
		return err
	}

	n := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    student.ID,
		Type:      domain.NotificationBooking,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	// Durability precedes delivery: a failed insert means no push at all.
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}

	if ev.New == domain.BookingConfirmed {
		s.push.PushUser(ev.TutorID, EventBookingConfirmed, map[string]any{
			"bookingId":   ev.BookingID,
			"studentName": student.Name,
		})
	}
	if ev.Actor.Kind == domain.ActorPaymentWebhook {
		event := EventPaymentSuccess
		if ev.New == domain.BookingCancelled {
			event = EventPaymentFailed
		}
		s.push.PushUser(ev.StudentID, event, map[string]any{
			"bookingId": ev.BookingID,
			"status":    string(ev.New),
		})
	}

	s.sendEmail(ctx, student.Email, title, message)
	return nil
}

// NotifyMessage persists a new-message notification for the recipient and
// pushes the live event. Message storage itself belongs to the chat
// collaborator; this is only the notification side effect.
func (s *Service) NotifyMessage(ctx context.Context, senderName, recipientID string) error {
	message, err := s.tmpl.NewMessage(senderName)
	if err != nil {
		return err
	}
	n := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    recipientID,
		Type:      domain.NotificationMessage,
		Title:     "New Message",
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}

	s.push.PushUser(recipientID, EventNewMessage, map[string]any{
		"senderName": senderName,
	})
	return nil
}

// NotifySessionReminder persists a reminder for userID about an upcoming
// session with otherName and pushes the live event.
func (s *Service) NotifySessionReminder(ctx context.Context, userID, otherName string, start time.Time) error {
	message, err := s.tmpl.SessionReminder(otherName, start)
	if err != nil {
		return err
	}
	n := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      domain.NotificationReminder,
		Title:     "Upcoming Session",
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}

	s.push.PushUser(userID, EventSessionReminder, map[string]any{
		"otherPartyName": otherName,
	})
	return nil
}

// ListForUser returns the user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	return s.repo.ListForUser(ctx, userID, limit)
}

// MarkRead flips the read flag on the user's own notification.
func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *Service) sendEmail(ctx context.Context, to, subject, body string) {
	if s.mailer == nil || to == "" {
		return
	}
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		logger.Warn("notification email failed", "email", to, "err", err)
	}
}
