package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tutorlink/platform/internal/auth"
	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/pkg/httputil"
)

type availabilityEntryRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type putAvailabilityRequest struct {
	Entries []availabilityEntryRequest `json:"entries" validate:"required,dive"`
}

// GetAvailability returns a tutor's canonical weekly schedule.
// GET /api/availability?tutorId=<id>
func (h *Handlers) GetAvailability(w http.ResponseWriter, r *http.Request) {
	tutorID := r.URL.Query().Get("tutorId")
	if tutorID == "" {
		httputil.BadRequest(w, "missing_param", "tutorId query parameter is required")
		return
	}

	avail, err := h.schedules.Availability(r.Context(), tutorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httputil.OK(w, avail)
}

// PutAvailability replaces the calling tutor's weekly schedule.
// PUT /api/availability
func (h *Handlers) PutAvailability(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())
	if session.Role != domain.RoleTutor {
		httputil.Forbidden(w, "only tutors can set availability")
		return
	}

	var req putAvailabilityRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.BadRequest(w, "invalid_availability", err.Error())
		return
	}

	entries := make([]domain.AvailabilityEntry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = domain.AvailabilityEntry{
			DayOfWeek: e.DayOfWeek,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		}
	}

	if err := h.schedules.SetAvailability(r.Context(), session.UserID, entries); err != nil {
		writeDomainError(w, err)
		return
	}
	httputil.NoContent(w)
}

// GetTutor returns a tutor's profile, the availability document as stored,
// and the open slots for a date.
// GET /api/tutors/{id}?date=YYYY-MM-DD (date defaults to today)
func (h *Handlers) GetTutor(w http.ResponseWriter, r *http.Request) {
	tutorID := chi.URLParam(r, "id")

	date := time.Now()
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			httputil.BadRequest(w, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	profile, err := h.schedules.Profile(r.Context(), tutorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	slots, err := h.schedules.SlotsForDate(r.Context(), tutorID, date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if slots == nil {
		slots = []string{}
	}

	subjects := profile.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	availability := profile.Availability
	if len(availability) == 0 {
		availability = json.RawMessage("null")
	}

	httputil.OK(w, map[string]any{
		"tutor_id":     tutorID,
		"hourly_rate":  profile.HourlyRate,
		"subjects":     subjects,
		"availability": availability,
		"date":         date.Format("2006-01-02"),
		"slots":        slots,
	})
}
