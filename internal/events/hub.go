package events

import (
	"log"
	"sync"
)

// Kind labels a change notification.
type Kind string

const (
	// KindNewChat fires when another user opens a conversation with us.
	KindNewChat Kind = "new_chat"
	// KindNewMessage fires when a chat gains an unread message from the
	// other participant.
	KindNewMessage Kind = "new_message"
)

// Notification is a user-facing change event produced by the sync engine.
type Notification struct {
	Kind     Kind
	ChatID   string
	FromUID  string
	FromName string
	Text     string
}

// Hub fans notifications out to any number of subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Notification]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Notification]bool)}
}

// Subscribe registers a buffered channel receiving future notifications.
func (h *Hub) Subscribe(buffer int) chan Notification {
	ch := make(chan Notification, buffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[ch] = true
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (h *Hub) Unsubscribe(ch chan Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[ch] {
		delete(h.subs, ch)
		close(ch)
	}
}

// Broadcast delivers n to every subscriber. Slow subscribers with a full
// buffer miss the event; delivery is not exactly-once.
func (h *Hub) Broadcast(n Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- n:
		default:
			log.Printf("events: dropping %s notification for slow subscriber", n.Kind)
		}
	}
}
