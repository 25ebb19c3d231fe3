package events_test

import (
	"testing"
	"time"

	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/events"
)

func TestPublishFanOut(t *testing.T) {
	bus := events.NewBus(4)
	defer bus.Close()

	a := bus.Subscribe("a")
	b := bus.Subscribe("b")

	bus.Publish(domain.BookingEvent{BookingID: "bk-1", Previous: domain.BookingPending, New: domain.BookingConfirmed})

	for name, ch := range map[string]<-chan domain.BookingEvent{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.BookingID != "bk-1" || ev.New != domain.BookingConfirmed {
				t.Fatalf("subscriber %s got wrong event: %+v", name, ev)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s did not receive event", name)
		}
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	bus := events.NewBus(1)
	defer bus.Close()

	bus.Subscribe("slow") // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Publish(domain.BookingEvent{BookingID: "bk"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := events.NewBus(4)
	defer bus.Close()

	ch := bus.Subscribe("x")
	bus.Unsubscribe("x")

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel after unsubscribe")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	bus.Publish(domain.BookingEvent{BookingID: "bk-2"})
}
