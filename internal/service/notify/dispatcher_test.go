package notify_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/service/notify"
)

type memNotifyRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification
	failCreate    bool
}

func (m *memNotifyRepo) Create(_ context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return errors.New("insert failed")
	}
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *memNotifyRepo) ListForUser(_ context.Context, userID string, limit int) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifyRepo) MarkRead(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id && m.notifications[i].UserID == userID {
			m.notifications[i].Read = true
			return nil
		}
	}
	return notify.ErrNotFound
}

type memDirectory map[string]*domain.User

func (d memDirectory) GetUser(_ context.Context, id string) (*domain.User, error) {
	u, ok := d[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

type pushRecord struct {
	userID  string
	event   string
	payload any
}

type fakePusher struct {
	mu     sync.Mutex
	pushes []pushRecord
}

func (p *fakePusher) PushUser(userID, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, pushRecord{userID, event, payload})
}

var testUsers = memDirectory{
	"tutor-1":   {ID: "tutor-1", Name: "Ada Lovelace", Email: "ada@example.com", Role: domain.RoleTutor},
	"student-1": {ID: "student-1", Name: "Per Bak", Email: "per@example.com", Role: domain.RoleStudent},
}

func confirmEvent() domain.BookingEvent {
	return domain.BookingEvent{
		BookingID: "bk-1",
		StudentID: "student-1",
		TutorID:   "tutor-1",
		Previous:  domain.BookingPending,
		New:       domain.BookingConfirmed,
		Actor:     domain.TutorActor("tutor-1"),
		StartTime: time.Date(2026, 1, 5, 16, 0, 0, 0, time.UTC),
	}
}

func TestConfirmationNotifiesStudent(t *testing.T) {
	repo := &memNotifyRepo{}
	push := &fakePusher{}
	svc := notify.NewService(repo, testUsers, push, nil)

	if err := svc.HandleBookingEvent(context.Background(), confirmEvent()); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(repo.notifications) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(repo.notifications))
	}
	n := repo.notifications[0]
	if n.UserID != "student-1" || n.Type != domain.NotificationBooking {
		t.Fatalf("wrong recipient/type: %+v", n)
	}
	if n.Title != "Booking Confirmed" {
		t.Fatalf("wrong title: %q", n.Title)
	}
	if !strings.Contains(n.Message, "Ada Lovelace") {
		t.Fatalf("message must name the tutor: %q", n.Message)
	}
	if !strings.Contains(n.Message, "Monday, Jan 5 at 16:00") {
		t.Fatalf("confirmation must include the formatted start time: %q", n.Message)
	}
}

func TestConfirmationPushesAfterPersist(t *testing.T) {
	repo := &memNotifyRepo{}
	push := &fakePusher{}
	svc := notify.NewService(repo, testUsers, push, nil)

	if err := svc.HandleBookingEvent(context.Background(), confirmEvent()); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(push.pushes) != 1 {
		t.Fatalf("expected one realtime push, got %d", len(push.pushes))
	}
	p := push.pushes[0]
	if p.userID != "tutor-1" || p.event != notify.EventBookingConfirmed {
		t.Fatalf("wrong push: %+v", p)
	}
	data := p.payload.(map[string]any)
	if data["bookingId"] != "bk-1" || data["studentName"] != "Per Bak" {
		t.Fatalf("wrong payload: %+v", data)
	}
}

func TestPersistFailureSuppressesPush(t *testing.T) {
	repo := &memNotifyRepo{failCreate: true}
	push := &fakePusher{}
	svc := notify.NewService(repo, testUsers, push, nil)

	if err := svc.HandleBookingEvent(context.Background(), confirmEvent()); err == nil {
		t.Fatal("expected persist error")
	}
	if len(push.pushes) != 0 {
		t.Fatal("durability precedes delivery: no push after failed persist")
	}
}

func TestCancellationNotification(t *testing.T) {
	repo := &memNotifyRepo{}
	push := &fakePusher{}
	svc := notify.NewService(repo, testUsers, push, nil)

	ev := confirmEvent()
	ev.New = domain.BookingCancelled
	ev.Actor = domain.WebhookActor()
	if err := svc.HandleBookingEvent(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(repo.notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(repo.notifications))
	}
	n := repo.notifications[0]
	if n.Title != "Booking Cancelled" || !strings.Contains(n.Message, "Ada Lovelace") {
		t.Fatalf("wrong cancellation copy: %+v", n)
	}
	// Webhook-driven cancellations surface the payment outcome to the
	// student, and only after the notification row exists.
	if len(push.pushes) != 1 {
		t.Fatalf("expected one push, got %+v", push.pushes)
	}
	if p := push.pushes[0]; p.userID != "student-1" || p.event != notify.EventPaymentFailed {
		t.Fatalf("wrong push: %+v", p)
	}
}

func TestWebhookConfirmPushesPaymentOutcome(t *testing.T) {
	repo := &memNotifyRepo{}
	push := &fakePusher{}
	svc := notify.NewService(repo, testUsers, push, nil)

	ev := confirmEvent()
	ev.Actor = domain.WebhookActor()
	if err := svc.HandleBookingEvent(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(repo.notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(repo.notifications))
	}
	if len(push.pushes) != 2 {
		t.Fatalf("expected tutor and student pushes, got %+v", push.pushes)
	}
	if p := push.pushes[0]; p.userID != "tutor-1" || p.event != notify.EventBookingConfirmed {
		t.Fatalf("wrong tutor push: %+v", p)
	}
	p := push.pushes[1]
	if p.userID != "student-1" || p.event != notify.EventPaymentSuccess {
		t.Fatalf("wrong student push: %+v", p)
	}
	data := p.payload.(map[string]any)
	if data["bookingId"] != "bk-1" || data["status"] != string(domain.BookingConfirmed) {
		t.Fatalf("wrong payload: %+v", data)
	}
}

func TestWebhookPersistFailureSuppressesPaymentPush(t *testing.T) {
	repo := &memNotifyRepo{failCreate: true}
	push := &fakePusher{}
	svc := notify.NewService(repo, testUsers, push, nil)

	ev := confirmEvent()
	ev.Actor = domain.WebhookActor()
	if err := svc.HandleBookingEvent(context.Background(), ev); err == nil {
		t.Fatal("expected persist error")
	}
	if len(push.pushes) != 0 {
		t.Fatalf("no push may precede the durable record, got %+v", push.pushes)
	}
}

func TestNotifyMessage(t *testing.T) {
	repo := &memNotifyRepo{}
	push := &fakePusher{}
	svc := notify.NewService(repo, testUsers, push, nil)

	if err := svc.NotifyMessage(context.Background(), "Ada Lovelace", "student-1"); err != nil {
		t.Fatalf("notify message: %v", err)
	}
	if len(repo.notifications) != 1 || repo.notifications[0].Type != domain.NotificationMessage {
		t.Fatalf("expected one message notification, got %+v", repo.notifications)
	}
	if len(push.pushes) != 1 || push.pushes[0].event != notify.EventNewMessage {
		t.Fatalf("expected new_message push, got %+v", push.pushes)
	}
}

func TestMarkReadGuardsOwnership(t *testing.T) {
	repo := &memNotifyRepo{}
	svc := notify.NewService(repo, testUsers, &fakePusher{}, nil)

	if err := svc.NotifyMessage(context.Background(), "Ada Lovelace", "student-1"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	id := repo.notifications[0].ID

	if err := svc.MarkRead(context.Background(), id, "tutor-1"); !errors.Is(err, notify.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign notification, got %v", err)
	}
	if err := svc.MarkRead(context.Background(), id, "student-1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !repo.notifications[0].Read {
		t.Fatal("notification not marked read")
	}
}
