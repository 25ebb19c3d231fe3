package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLocalHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(NewTokenSigner("secret"), NewLocalBackplane())
	if err := hub.Start(context.Background()); err != nil {
		t.Fatalf("start hub: %v", err)
	}
	return hub
}

// connect opens an SSE stream for userID and returns the recorder plus a
// cancel+wait function that tears the connection down and returns the body.
func connect(t *testing.T, hub *Hub, userID string) (cancelAndBody func() string) {
	t.Helper()
	tok := hub.tokens.Mint(userID, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/api/realtime/events?token="+tok, nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		hub.HandleSSE(rec, req)
		close(done)
	}()

	// Wait for the connection to join its room.
	deadline := time.Now().Add(time.Second)
	for hub.RoomSize(UserRoom(userID)) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never joined its room")
		}
		time.Sleep(time.Millisecond)
	}

	return func() string {
		cancel()
		<-done
		return rec.Body.String()
	}
}

func TestSSERejectsBadToken(t *testing.T) {
	hub := newLocalHub(t)
	req := httptest.NewRequest("GET", "/api/realtime/events?token=bogus", nil)
	rec := httptest.NewRecorder()
	hub.HandleSSE(rec, req)
	if rec.Code != 401 {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestPushReachesConnectedClient(t *testing.T) {
	hub := newLocalHub(t)
	finish := connect(t, hub, "user-1")

	hub.PushUser("user-1", "booking_confirmed", map[string]any{"bookingId": "bk-1"})
	time.Sleep(20 * time.Millisecond)

	body := finish()
	if !strings.Contains(body, "event: booking_confirmed") {
		t.Fatalf("missing event frame in body: %q", body)
	}
	if !strings.Contains(body, `"bookingId":"bk-1"`) {
		t.Fatalf("missing payload in body: %q", body)
	}
}

func TestPushIsRoomScoped(t *testing.T) {
	hub := newLocalHub(t)
	finishA := connect(t, hub, "user-a")
	finishB := connect(t, hub, "user-b")

	hub.PushUser("user-a", "new_message", map[string]any{"senderName": "Ada"})
	time.Sleep(20 * time.Millisecond)

	if body := finishB(); strings.Contains(body, "new_message") {
		t.Fatalf("user-b must not see user-a's event: %q", body)
	}
	if body := finishA(); !strings.Contains(body, "new_message") {
		t.Fatalf("user-a should see its event: %q", body)
	}
}

// An empty room drops the event: at-most-once, no queueing, no error.
func TestPushToEmptyRoomIsDropped(t *testing.T) {
	hub := newLocalHub(t)
	hub.PushUser("ghost", "session_reminder", map[string]any{"otherPartyName": "Ada"})

	if hub.RoomSize(UserRoom("ghost")) != 0 {
		t.Fatal("push must not create rooms")
	}

	// A client connecting afterwards receives nothing.
	finish := connect(t, hub, "ghost")
	time.Sleep(20 * time.Millisecond)
	if body := finish(); strings.Contains(body, "session_reminder") {
		t.Fatalf("dropped event must not be replayed: %q", body)
	}
}

func TestDisconnectLeavesRoom(t *testing.T) {
	hub := newLocalHub(t)
	finish := connect(t, hub, "user-1")
	finish()

	if hub.RoomSize(UserRoom("user-1")) != 0 {
		t.Fatal("disconnect must remove the client from its room")
	}
}

// A push on one hub instance reaches a client connected to another instance
// when both share the redis backplane.
func TestRedisBackplaneCrossInstance(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	signer := NewTokenSigner("secret")
	clientA := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	clientB := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer clientA.Close()
	defer clientB.Close()

	hubA := NewHub(signer, NewRedisBackplane(clientA))
	hubB := NewHub(signer, NewRedisBackplane(clientB))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := hubA.Start(ctx); err != nil {
		t.Fatalf("start hubA: %v", err)
	}
	if err := hubB.Start(ctx); err != nil {
		t.Fatalf("start hubB: %v", err)
	}

	finish := connect(t, hubB, "user-1")

	hubA.PushUser("user-1", "payment_success", map[string]any{"bookingId": "bk-9"})

	// Redis delivery is asynchronous.
	time.Sleep(300 * time.Millisecond)

	body := finish()
	if !strings.Contains(body, "payment_success") || !strings.Contains(body, "bk-9") {
		t.Fatalf("cross-instance push not delivered: %q", body)
	}
}
