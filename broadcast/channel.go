package broadcast

import (
	"chat-presence/domain"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Subscription is the receiving end of the shared topic. Events arrive on
// a buffered channel owned by the subscriber; the channel is never closed
// by the hub, so a departed subscriber is simply garbage collected once
// its consumer stops draining.
type Subscription struct {
	ID     uuid.UUID
	Events chan domain.ChatMessage
}

// Channel is the single shared broadcast topic.
//
// Delivery is best-effort, at-most-once per subscriber per publish: there
// is no acknowledgment, no retry, and no backlog. A subscriber joining
// after a publish never sees that event.
//
// Channel is safe for concurrent use by multiple goroutines.
type Channel struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]*Subscription
	bufferSize  int
	log         *slog.Logger
}

func NewChannel(log *slog.Logger, bufferSize int) *Channel {
	return &Channel{
		subscribers: make(map[uuid.UUID]*Subscription),
		bufferSize:  bufferSize,
		log:         log,
	}
}

// Subscribe registers a new receiver. The subscription takes effect for
// subsequent publishes only.
func (c *Channel) Subscribe() *Subscription {
	sub := &Subscription{
		ID:     uuid.New(),
		Events: make(chan domain.ChatMessage, c.bufferSize),
	}
	c.mu.Lock()
	c.subscribers[sub.ID] = sub
	c.mu.Unlock()
	return sub
}

// Unsubscribe removes a receiver. A publish that already snapshotted the
// subscriber set may still deliver to this subscription's buffer; that is
// tolerated by contract, never an error.
func (c *Channel) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	c.mu.Lock()
	delete(c.subscribers, sub.ID)
	c.mu.Unlock()
}

// Publish delivers an event to every subscriber active at call time.
// The subscriber set is snapshotted under the read lock before sending, so
// a concurrent unsubscribe cannot cause a delivery failure. Sends are
// non-blocking: a subscriber whose buffer is full misses the event.
//
// Events published from a single goroutine reach each subscriber's buffer
// in publish order. No cross-sender ordering is guaranteed.
func (c *Channel) Publish(message domain.ChatMessage) {
	c.mu.RLock()
	targets := lo.Values(c.subscribers)
	c.mu.RUnlock()

	for _, sub := range targets {
		select {
		case sub.Events <- message:
		default:
			c.log.Debug("Dropping event for slow subscriber",
				"subscription_id", sub.ID,
				"type", message.Type,
				"sender_id", message.SenderID)
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (c *Channel) SubscriberCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subscribers)
}
