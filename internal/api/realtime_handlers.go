package api

import (
	"net/http"
	"time"

	"github.com/tutorlink/platform/internal/auth"
	"github.com/tutorlink/platform/internal/pkg/httputil"
)

const realtimeTokenTTL = 15 * time.Minute

// MintRealtimeToken issues a short-lived signed token the SSE handshake
// accepts. EventSource cannot set headers, so the token travels as a query
// parameter instead of the session cookie.
// GET /api/realtime/token
func (h *Handlers) MintRealtimeToken(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())
	httputil.OK(w, map[string]any{
		"token":      h.tokens.Mint(session.UserID, realtimeTokenTTL),
		"expires_in": int(realtimeTokenTTL.Seconds()),
	})
}

// RealtimeEvents is the SSE stream endpoint.
// GET /api/realtime/events?token=
func (h *Handlers) RealtimeEvents(w http.ResponseWriter, r *http.Request) {
	h.hub.HandleSSE(w, r)
}
