package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tutorlink/platform/internal/config"
	"github.com/tutorlink/platform/internal/domain"
)

type memUsers struct {
	byID map[string]*domain.User
}

func (m *memUsers) GetUser(_ context.Context, id string) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, context.Canceled
	}
	return u, nil
}

func (m *memUsers) Upsert(_ context.Context, u *domain.User) error {
	m.byID[u.ID] = u
	return nil
}

func newTestManager(enabled bool) (*Manager, *memUsers) {
	users := &memUsers{byID: map[string]*domain.User{
		"tutor-1": {ID: "tutor-1", Email: "t@example.com", Name: "Tara", Role: domain.RoleTutor},
	}}
	cfg := &config.AuthConfig{
		Enabled:      enabled,
		CookieName:   "tutorlink_session",
		CookieMaxAge: 3600,
	}
	return NewManager(cfg, users), users
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	m, _ := newTestManager(true)

	h := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/bookings", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestDevSessionFromHeader(t *testing.T) {
	m, _ := newTestManager(false)

	var got *Session
	h := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/bookings", nil)
	req.Header.Set("X-User-ID", "tutor-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got == nil || got.UserID != "tutor-1" || got.Role != domain.RoleTutor {
		t.Fatalf("session = %+v, want tutor-1 with TUTOR role", got)
	}
}

func TestExpiredSessionIsDropped(t *testing.T) {
	m, _ := newTestManager(true)

	m.sessionMu.Lock()
	m.sessions["sid"] = &Session{
		UserID:    "tutor-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	m.sessionMu.Unlock()

	req := httptest.NewRequest("GET", "/api/bookings", nil)
	req.AddCookie(&http.Cookie{Name: "tutorlink_session", Value: "sid"})
	if s := m.GetSession(req); s != nil {
		t.Fatalf("expired session returned: %+v", s)
	}

	m.sessionMu.RLock()
	_, exists := m.sessions["sid"]
	m.sessionMu.RUnlock()
	if exists {
		t.Fatal("expired session not evicted")
	}
}
