// Package realtime is the room-scoped push channel delivering live events to
// connected clients over Server-Sent Events.
//
// Delivery is at-most-once: if no client is connected to a room at
// push time the event is dropped, and a slow client loses events rather than
// stalling the hub. The persisted Notification row is the durable record;
// this layer is a convenience, not a queue.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/tutorlink/platform/internal/pkg/logger"
)

// UserRoom names the per-user room a connection joins after its token is
// verified.
func UserRoom(userID string) string {
	return "user:" + userID
}

// Hub tracks connected clients per room and fans pushed events out to them.
// The room registry is mutated only by connect/disconnect.
type Hub struct {
	tokens    *TokenSigner
	backplane Backplane

	mu    sync.RWMutex
	rooms map[string]map[chan []byte]bool
}

// NewHub creates a hub. Start must be called before the first push.
func NewHub(tokens *TokenSigner, backplane Backplane) *Hub {
	return &Hub{
		tokens:    tokens,
		backplane: backplane,
		rooms:     make(map[string]map[chan []byte]bool),
	}
}

// Start wires the hub to its backplane.
func (h *Hub) Start(ctx context.Context) error {
	return h.backplane.Start(ctx, h.deliver)
}

// PushUser sends an event to the user's room on every instance.
func (h *Hub) PushUser(userID, event string, payload any) {
	h.Push(UserRoom(userID), event, payload)
}

// Push sends an event to a room. Errors are logged, never returned: by the
// time a push happens the durable record already exists, so a lost live
// event is acceptable.
func (h *Hub) Push(room, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("realtime: encode payload", "event", event, "err", err)
		return
	}
	msg := Message{Room: room, Event: event, Data: data}
	if err := h.backplane.Publish(context.Background(), msg); err != nil {
		logger.Warn("realtime: backplane publish failed", "event", event, "err", err)
	}
}

// deliver fans a backplane message out to local room members. No member, or
// a member with a full buffer, means the event is dropped.
func (h *Hub) deliver(msg Message) {
	frame := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", msg.Event, msg.Data))

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.rooms[msg.Room] {
		select {
		case ch <- frame:
		default:
			// slow client: drop
		}
	}
}

// join registers a client channel in a room.
func (h *Hub) join(room string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[chan []byte]bool)
	}
	h.rooms[room][ch] = true
}

// leave removes a client channel and its room if empty.
func (h *Hub) leave(room string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[room], ch)
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
}

// RoomSize reports the number of connections in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// HandleSSE serves GET /api/realtime/events as a Server-Sent Events stream.
// The handshake requires a valid signed token; on success the connection
// joins the caller's user room for the lifetime of the request.
func (h *Hub) HandleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	userID, err := h.tokens.Verify(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	room := UserRoom(userID)
	ch := make(chan []byte, 64)
	h.join(room, ch)
	defer h.leave(room, ch)

	// Initial comment so proxies flush headers immediately.
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-ch:
			w.Write(frame)
			flusher.Flush()
		}
	}
}
