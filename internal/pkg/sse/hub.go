package sse

import (
	"sync"
)

// Event is delivered to every open stream of one recipient.
type Event struct {
	RecipientID int64
	Event       string
	Data        interface{}
}

// Hub fans events out to in-process subscribers keyed by employee ID.
type Hub struct {
	mu          sync.RWMutex
	buffer      int
	subscribers map[int64]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		buffer:      10,
		subscribers: make(map[int64]map[chan Event]struct{}),
	}
}

// Subscribe registers a stream for recipientID. The cleanup func removes and
// closes the channel and is safe to call more than once.
func (h *Hub) Subscribe(recipientID int64) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.subscribers[recipientID] == nil {
		h.subscribers[recipientID] = make(map[chan Event]struct{})
	}
	h.subscribers[recipientID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[recipientID], ch)
			close(ch)
			if len(h.subscribers[recipientID]) == 0 {
				delete(h.subscribers, recipientID)
			}
		})
	}

	return ch, cleanup
}

// Publish never blocks: a subscriber with a full buffer misses the event.
func (h *Hub) Publish(recipientID int64, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[recipientID] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *Hub) SubscriberCount(recipientID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[recipientID])
}
