// Package events defines the lifecycle event kinds pushed to connected UI
// streams and the publisher contract the application layer emits through.
package events

import "time"

// Kind names a lifecycle event on the per-user stream.
type Kind string

const (
	KindConnected            Kind = "connected"
	KindReminderDuePending   Kind = "reminder_due_pending"
	KindReminderAnswered     Kind = "reminder_answered"
	KindReminderUpdated      Kind = "reminder_updated"
	KindReminderDeleted      Kind = "reminder_deleted"
	KindUpcomingReplaced     Kind = "upcoming_replaced"
	KindTrackingStateChanged Kind = "tracking_state_changed"
	KindTelegramConnected    Kind = "telegram_connected"
)

// Event is a single lifecycle notification scoped to one user. The payload
// carries exactly the JSON document the HTTP reads of the same entity return,
// so clients reconcile missed events by re-reading state.
type Event struct {
	Kind       Kind      `json:"kind"`
	UserID     uint      `json:"-"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher fans an event out to the owning user's connected streams.
// Publishing never blocks; delivery is best-effort and unpersisted.
type Publisher interface {
	Publish(event Event)
}

// NopPublisher discards events; used where no stream hub is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
