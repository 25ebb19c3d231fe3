package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tutorlink/platform/internal/auth"
	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/pkg/httputil"
	"github.com/tutorlink/platform/internal/service/booking"
)

type createBookingRequest struct {
	TutorID   string    `json:"tutor_id" validate:"required"`
	Subject   string    `json:"subject" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

type patchBookingRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled"`
}

// CreateBooking reserves a slot for the calling student.
// POST /api/bookings
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())
	if session.Role != domain.RoleStudent {
		httputil.Forbidden(w, "only students can create bookings")
		return
	}

	var req createBookingRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.BadRequest(w, "invalid_request", err.Error())
		return
	}

	b, err := h.bookings.Create(r.Context(), session.UserID, booking.CreateInput{
		TutorID:   req.TutorID,
		Subject:   req.Subject,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httputil.Created(w, b)
}

// PatchBooking lets the owning tutor confirm or cancel a pending booking.
// PATCH /api/bookings/{id}
func (h *Handlers) PatchBooking(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())
	if session.Role != domain.RoleTutor {
		httputil.Forbidden(w, "only tutors can act on bookings")
		return
	}

	var req patchBookingRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.BadRequest(w, "invalid_request", err.Error())
		return
	}

	b, err := h.bookings.Transition(r.Context(),
		chi.URLParam(r, "id"),
		domain.TutorActor(session.UserID),
		domain.BookingStatus(req.Status),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httputil.OK(w, b)
}

// ListBookings returns the caller's bookings, on the side their role selects.
// GET /api/bookings
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())

	list, err := h.bookings.ListForUser(r.Context(), session.UserID, session.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []domain.Booking{}
	}
	httputil.OK(w, map[string]any{"bookings": list})
}
