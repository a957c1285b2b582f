// Package hub implements a per-owner broadcast notification hub: each
// owner gets its own set of subscriber channels, a notify fans out to
// every subscriber without blocking on a slow one, and a full buffer
// drops its oldest entry rather than stalling the producer. Subscribe
// is rare (one per device per session); notify is the hot path.
package hub

import (
	"sync"
)

// SubscriberBufferSize is the per-subscriber channel capacity.
const SubscriberBufferSize = 64

// Event is the only event kind the hub carries: a signal that a bucket
// changed on the server.
type Event struct {
	Archived bool
}

// Subscriber is a receive-only view of a subscription. When its buffer
// is full, Notify drops the oldest queued event to make room; the
// subscriber receives no separate signal that such a gap occurred.
type Subscriber struct {
	ch     chan Event
	hub    *Hub
	owner  string
	closed bool
	mu     sync.Mutex
}

// Recv blocks until an event arrives or the subscription is closed, in
// which case ok is false.
func (s *Subscriber) Recv() (Event, bool) {
	ev, ok := <-s.ch
	return ev, ok
}

// Chan exposes the underlying channel for select-based consumption (used
// by the SSE handler to multiplex against a keep-alive ticker and request
// cancellation).
func (s *Subscriber) Chan() <-chan Event { return s.ch }

// Close unsubscribes, reclaiming the slot in the owner's broker.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.hub.unsubscribe(s.owner, s)
}

type broker struct {
	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
}

// Hub is the process-wide per-owner broadcast map.
type Hub struct {
	mu      sync.RWMutex
	brokers map[string]*broker

	// activeSubscriptions is incremented/decremented around each
	// subscription's lifetime and exposed via ActiveSubscriptions for
	// tests and diagnostics.
	activeSubscriptions int64
	gaugeMu             sync.Mutex
}

// New builds an empty Hub.
func New() *Hub {
	return &Hub{brokers: make(map[string]*broker)}
}

func (h *Hub) brokerFor(owner string) *broker {
	h.mu.RLock()
	b, ok := h.brokers[owner]
	h.mu.RUnlock()
	if ok {
		return b
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if b, ok := h.brokers[owner]; ok {
		return b
	}
	b = &broker{subscribers: make(map[*Subscriber]struct{})}
	h.brokers[owner] = b
	return b
}

// Subscribe creates a new receiver for owner. Multiple receivers per owner
// are supported (one per device). The subscription gauge is incremented
// here and decremented in Close, tied to the Subscriber's lifetime rather
// than to any success path.
func (h *Hub) Subscribe(owner string) *Subscriber {
	b := h.brokerFor(owner)
	sub := &Subscriber{ch: make(chan Event, SubscriberBufferSize), hub: h, owner: owner}

	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	b.mu.Unlock()

	h.gaugeMu.Lock()
	h.activeSubscriptions++
	h.gaugeMu.Unlock()

	return sub
}

func (h *Hub) unsubscribe(owner string, sub *Subscriber) {
	h.mu.RLock()
	b, ok := h.brokers[owner]
	h.mu.RUnlock()
	if ok {
		b.mu.Lock()
		delete(b.subscribers, sub)
		b.mu.Unlock()
	}
	close(sub.ch)

	h.gaugeMu.Lock()
	h.activeSubscriptions--
	h.gaugeMu.Unlock()
}

// ActiveSubscriptions returns the current process-wide subscriber count.
func (h *Hub) ActiveSubscriptions() int64 {
	h.gaugeMu.Lock()
	defer h.gaugeMu.Unlock()
	return h.activeSubscriptions
}

// Notify sends ev to every current subscriber of owner. A subscriber whose
// buffer is full does not block the producer: the oldest pending event is
// dropped to make room, so the subscriber always observes the most recent
// state rather than stalling the notify path. Absent subscribers (no one
// has ever subscribed for owner) are silently dropped.
func (h *Hub) Notify(owner string, ev Event) {
	h.mu.RLock()
	b, ok := h.brokers[owner]
	h.mu.RUnlock()
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subscribers {
		select {
		case sub.ch <- ev:
		default:
			// Slow consumer: drop the oldest queued event to make room,
			// then retry once. If the channel is still full (a second
			// producer raced us), give up — a future event will convey
			// the same "refresh" signal.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- ev:
			default:
			}
		}
	}
}
