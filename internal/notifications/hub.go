package notifications

import (
	"context"
	"sync"
)

// DefaultBufferSize is the per-subscriber queue length when none is configured.
const DefaultBufferSize = 16

// Hub fans events out to in-process subscribers grouped by room. Delivery is
// best-effort: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Subscription]struct{}
	buffer int
	closed bool
}

// NewHub builds a hub whose subscribers buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	return &Hub{
		rooms:  map[string]map[*Subscription]struct{}{},
		buffer: buffer,
	}
}

// Subscription is a listener joined to one or more rooms.
type Subscription struct {
	hub    *Hub
	events chan Event
	rooms  map[string]struct{}
	once   sync.Once
}

// Subscribe registers a listener in the given rooms. Subscribing to a closed
// hub returns a subscription whose channel is already closed.
func (h *Hub) Subscribe(rooms ...string) *Subscription {
	sub := &Subscription{
		hub:    h,
		events: make(chan Event, h.buffer),
		rooms:  map[string]struct{}{},
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.once.Do(func() { close(sub.events) })
		return sub
	}
	for _, room := range rooms {
		h.joinLocked(sub, room)
	}
	return sub
}

// Events streams delivered events until the subscription or hub closes.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Join adds the subscription to room.
func (s *Subscription) Join(room string) {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	if !s.hub.closed {
		s.hub.joinLocked(s, room)
	}
}

// Leave removes the subscription from room.
func (s *Subscription) Leave(room string) {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.hub.leaveLocked(s, room)
}

// Rooms lists the rooms the subscription currently belongs to.
func (s *Subscription) Rooms() []string {
	s.hub.mu.RLock()
	defer s.hub.mu.RUnlock()
	out := make([]string, 0, len(s.rooms))
	for room := range s.rooms {
		out = append(out, room)
	}
	return out
}

// Close detaches the subscription and closes its channel.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	for room := range s.rooms {
		s.hub.leaveLocked(s, room)
	}
	s.hub.mu.Unlock()
	s.once.Do(func() { close(s.events) })
}

// Deliver hands evt to every subscriber of evt.Room without blocking and
// returns how many subscribers accepted it.
func (h *Hub) Deliver(evt Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return 0
	}

	delivered := 0
	for sub := range h.rooms[evt.Room] {
		select {
		case sub.events <- evt:
			delivered++
		default:
		}
	}
	return delivered
}

// Publish delivers locally. It lets the hub stand in for the Redis broker
// when a single instance is running.
func (h *Hub) Publish(_ context.Context, evt Event) error {
	h.Deliver(evt)
	return nil
}

// Close ends every subscription. Further deliveries are dropped.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	seen := map[*Subscription]struct{}{}
	for _, members := range h.rooms {
		for sub := range members {
			seen[sub] = struct{}{}
		}
	}
	h.rooms = map[string]map[*Subscription]struct{}{}
	for sub := range seen {
		sub.rooms = map[string]struct{}{}
		sub.once.Do(func() { close(sub.events) })
	}
	return nil
}

func (h *Hub) joinLocked(sub *Subscription, room string) {
	if room == "" {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = map[*Subscription]struct{}{}
		h.rooms[room] = members
	}
	members[sub] = struct{}{}
	sub.rooms[room] = struct{}{}
}

func (h *Hub) leaveLocked(sub *Subscription, room string) {
	delete(sub.rooms, room)
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, sub)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}
