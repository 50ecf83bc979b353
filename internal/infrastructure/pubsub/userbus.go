// Package pubsub implements the in-process event bus behind the SSE stream.
// Events fan out to the owning user's open connections only; nothing is
// persisted and a missed event is recovered by re-reading state over HTTP.
package pubsub

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/recurra-io/recurra/internal/domain/shared/events"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

// Subscription is one open stream of a user. Events arrive on C until
// Unsubscribe or bus shutdown closes it.
type Subscription struct {
	ID     string
	UserID uint
	C      <-chan events.Event
	ch     chan events.Event
}

// UserEventBus fans events out per user. Publish never blocks: when a
// subscriber's queue is full the oldest queued event is dropped to make room,
// since the stream carries notifications, not state.
type UserEventBus struct {
	mu          sync.RWMutex
	subscribers map[uint]map[string]*Subscription
	queueDepth  int
	closed      bool
	logger      logger.Interface
}

func NewUserEventBus(queueDepth int, log logger.Interface) *UserEventBus {
	if queueDepth < 1 {
		queueDepth = 64
	}
	if log == nil {
		log = logger.NewLogger()
	}
	return &UserEventBus{
		subscribers: make(map[uint]map[string]*Subscription),
		queueDepth:  queueDepth,
		logger:      log.Named("event-bus"),
	}
}

// Subscribe registers a new stream for the user. The returned subscription
// immediately carries a connected event so clients know the stream is live.
func (b *UserEventBus) Subscribe(userID uint) *Subscription {
	sub := &Subscription{
		ID:     uuid.NewString(),
		UserID: userID,
		ch:     make(chan events.Event, b.queueDepth),
	}
	sub.C = sub.ch

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.ch)
		return sub
	}
	if b.subscribers[userID] == nil {
		b.subscribers[userID] = make(map[string]*Subscription)
	}
	b.subscribers[userID][sub.ID] = sub

	sub.ch <- events.Event{
		Kind:       events.KindConnected,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}

	b.logger.Debugw("stream subscribed", "user_id", userID, "subscription_id", sub.ID)
	return sub
}

// Unsubscribe removes the stream and closes its channel.
func (b *UserEventBus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	userSubs, ok := b.subscribers[sub.UserID]
	if !ok {
		return
	}
	if _, ok := userSubs[sub.ID]; !ok {
		return
	}
	delete(userSubs, sub.ID)
	if len(userSubs) == 0 {
		delete(b.subscribers, sub.UserID)
	}
	close(sub.ch)

	b.logger.Debugw("stream unsubscribed", "user_id", sub.UserID, "subscription_id", sub.ID)
}

// Publish delivers the event to every open stream of its user.
func (b *UserEventBus) Publish(event events.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, sub := range b.subscribers[event.UserID] {
		select {
		case sub.ch <- event:
			continue
		default:
		}

		// Queue full: evict the oldest event, then retry once. A concurrent
		// reader may have drained the channel in between, so the send still
		// needs a non-blocking fallback.
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- event:
			b.logger.Warnw("slow event stream, dropped oldest event",
				"user_id", event.UserID, "subscription_id", sub.ID)
		default:
			b.logger.Warnw("slow event stream, dropped event",
				"user_id", event.UserID, "subscription_id", sub.ID, "kind", event.Kind)
		}
	}
}

// SubscriberCount reports the user's open stream count.
func (b *UserEventBus) SubscriberCount(userID uint) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[userID])
}

// Close shuts the bus down and closes every subscriber channel.
func (b *UserEventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	for userID, userSubs := range b.subscribers {
		for id, sub := range userSubs {
			close(sub.ch)
			delete(userSubs, id)
		}
		delete(b.subscribers, userID)
	}

	b.logger.Infow("event bus closed")
}
