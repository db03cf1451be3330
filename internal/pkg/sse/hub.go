package sse

import (
	"sync"
)

const subscriberBuffer = 16

// Event is a message delivered to the subscribers of a topic.
type Event struct {
	Topic string
	Name  string
	Data  interface{}
}

// Hub fans events out to subscribers grouped by topic.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	closed      bool
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for topic and returns its channel and a cleanup
// function. Cleanup closes the channel and is safe to call more than once. After
// Close the returned channel is already closed.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[chan Event]struct{})
	}
	h.subscribers[topic][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			// Close may have released the channel already
			if _, ok := h.subscribers[topic][ch]; !ok {
				return
			}
			delete(h.subscribers[topic], ch)
			close(ch)
			if len(h.subscribers[topic]) == 0 {
				delete(h.subscribers, topic)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers event to every subscriber of its topic. Slow subscribers whose
// buffer is full miss the event rather than block the publisher.
func (h *Hub) Publish(event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers[event.Topic] {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// Close closes every subscriber channel so streaming handlers return, and rejects
// later subscriptions. It returns the number of subscribers released.
func (h *Hub) Close() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	released := 0
	for topic, subs := range h.subscribers {
		for ch := range subs {
			close(ch)
			released++
		}
		delete(h.subscribers, topic)
	}
	h.closed = true
	return released
}
