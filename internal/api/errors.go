package api

import (
	"errors"
	"net/http"

	"github.com/tutorlink/platform/internal/pkg/httputil"
	"github.com/tutorlink/platform/internal/service/booking"
	"github.com/tutorlink/platform/internal/service/notify"
	"github.com/tutorlink/platform/internal/service/schedule"
)

// writeDomainError maps service sentinel errors onto the HTTP surface.
// Anything unrecognized becomes a sanitized 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidSlot):
		httputil.BadRequest(w, "invalid_slot", err.Error())
	case errors.Is(err, booking.ErrInvalidTransition):
		httputil.BadRequest(w, "invalid_transition", err.Error())
	case errors.Is(err, schedule.ErrInvalidAvailability):
		httputil.BadRequest(w, "invalid_availability", err.Error())
	case errors.Is(err, booking.ErrForbidden):
		httputil.Forbidden(w, "you are not a participant of this booking")
	case errors.Is(err, booking.ErrNotFound),
		errors.Is(err, schedule.ErrTutorNotFound),
		errors.Is(err, notify.ErrNotFound):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, booking.ErrTransient):
		httputil.ServiceUnavailable(w, "temporarily unavailable, retry")
	default:
		httputil.InternalError(w, err)
	}
}
