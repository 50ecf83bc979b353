// Package notification defines the outbound delivery port. The tick pass
// enqueues due reminders here; the infrastructure notifier drains the queue
// through channel adapters (email, telegram).
package notification

import "github.com/recurra-io/recurra/internal/domain/reminder"

// Dispatcher accepts a due reminder for asynchronous delivery. Enqueue never
// blocks the tick; a full queue drops the item with a log line since the next
// tick re-delivers nothing (the reminder is already Pending) and the UI stream
// carries the event regardless.
type Dispatcher interface {
	Enqueue(item reminder.DueItem)
}

// NopDispatcher discards deliveries; used where no notifier is wired.
type NopDispatcher struct{}

func (NopDispatcher) Enqueue(reminder.DueItem) {}
