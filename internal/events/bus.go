// Package events carries booking state-change events from the booking
// service to interested consumers (notification dispatcher, realtime hub)
// without either side importing the other.
package events

import (
	"sync"

	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/pkg/logger"
)

// Bus is an in-process fan-out channel for booking events. Publish never
// blocks the caller: a subscriber that cannot keep up loses events (its
// durable effects are re-derivable from the booking row, so dropping here is
// bounded degradation, not data loss).
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan domain.BookingEvent
	buffer      int
	closed      bool
}

// NewBus creates a bus. buffer is the per-subscriber channel depth.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{
		subscribers: make(map[string]chan domain.BookingEvent),
		buffer:      buffer,
	}
}

// Subscribe registers a consumer under id and returns its event channel.
// Subscribing twice with the same id replaces (and closes) the old channel.
func (b *Bus) Subscribe(id string) <-chan domain.BookingEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	if old, ok := b.subscribers[id]; ok {
		close(old)
	}
	ch := make(chan domain.BookingEvent, b.buffer)
	b.subscribers[id] = ch
	return ch
}

// Unsubscribe removes a consumer and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// Publish delivers ev to every subscriber without blocking.
func (b *Bus) Publish(ev domain.BookingEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for id, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			logger.Warn("event bus subscriber full, dropping event",
				"subscriber", id, "booking_id", ev.BookingID)
		}
	}
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
