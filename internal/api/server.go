package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tutorlink/platform/internal/pkg/httputil"
	"github.com/tutorlink/platform/internal/realtime"
	"github.com/tutorlink/platform/internal/service/booking"
	"github.com/tutorlink/platform/internal/service/notify"
	"github.com/tutorlink/platform/internal/service/schedule"
)

// Handlers carries the service dependencies for all HTTP handlers.
type Handlers struct {
	schedules     *schedule.Service
	bookings      *booking.Service
	notifications *notify.Service
	hub           *realtime.Hub
	tokens        *realtime.TokenSigner

	webhookSecret   string
	signatureHeader string

	db       *sql.DB
	validate *validator.Validate
	started  time.Time
}

// NewHandlers creates the handler set. db may be nil in tests; the health
// check then skips the database ping.
func NewHandlers(
	schedules *schedule.Service,
	bookings *booking.Service,
	notifications *notify.Service,
	hub *realtime.Hub,
	tokens *realtime.TokenSigner,
	webhookSecret, signatureHeader string,
	db *sql.DB,
) *Handlers {
	return &Handlers{
		schedules:       schedules,
		bookings:        bookings,
		notifications:   notifications,
		hub:             hub,
		tokens:          tokens,
		webhookSecret:   webhookSecret,
		signatureHeader: signatureHeader,
		db:              db,
		validate:        validator.New(),
		started:         time.Now(),
	}
}

// HealthCheck reports process liveness and database reachability.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "skipped"
	if h.db != nil {
		dbStatus = "ok"
		if err := h.db.PingContext(r.Context()); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
		}
	}
	httputil.OK(w, map[string]any{
		"status":   status,
		"database": dbStatus,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
	})
}
