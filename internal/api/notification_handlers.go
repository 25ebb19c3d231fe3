package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tutorlink/platform/internal/auth"
	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/pkg/httputil"
)

// ListNotifications returns the caller's notifications, newest first.
// GET /api/notifications?limit=
func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	list, err := h.notifications.ListForUser(r.Context(), session.UserID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []domain.Notification{}
	}
	httputil.OK(w, map[string]any{"notifications": list})
}

// MarkNotificationRead flips the read flag on one of the caller's
// notifications.
// POST /api/notifications/{id}/read
func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())

	if err := h.notifications.MarkRead(r.Context(), chi.URLParam(r, "id"), session.UserID); err != nil {
		writeDomainError(w, err)
		return
	}
	httputil.NoContent(w)
}

type postMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Body        string `json:"body" validate:"required"`
}

// PostMessage records a message notification for the recipient and pushes a
// new_message realtime event. Message content itself is not stored here.
// POST /api/messages
func (h *Handlers) PostMessage(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())

	var req postMessageRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.BadRequest(w, "invalid_request", err.Error())
		return
	}

	if err := h.notifications.NotifyMessage(r.Context(), session.Name, req.RecipientID); err != nil {
		writeDomainError(w, err)
		return
	}
	httputil.NoContent(w)
}
