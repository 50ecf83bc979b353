// Package reminder holds the scheduled-instance aggregate. A reminder is one
// firing of a tracking at a specific instant; it moves Upcoming → Pending
// when its instant passes and Pending → Answered when the owner responds.
package reminder

import (
	"fmt"
	"sync"
	"time"

	vo "github.com/recurra-io/recurra/internal/domain/reminder/valueobjects"
)

type Reminder struct {
	id            uint
	trackingID    uint
	userID        uint
	scheduledTime time.Time
	notes         string
	answerValue   *vo.AnswerValue
	status        vo.Status
	createdAt     time.Time
	updatedAt     time.Time
	mu            sync.RWMutex
}

// NewReminder creates an Upcoming reminder at the given instant. The instant
// is stored in UTC.
func NewReminder(trackingID, userID uint, scheduledTime time.Time) (*Reminder, error) {
	if trackingID == 0 {
		return nil, fmt.Errorf("tracking ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if scheduledTime.IsZero() {
		return nil, fmt.Errorf("scheduled time is required")
	}

	now := time.Now().UTC()
	return &Reminder{
		trackingID:    trackingID,
		userID:        userID,
		scheduledTime: scheduledTime.UTC(),
		status:        vo.StatusUpcoming,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructReminder(
	id uint,
	trackingID, userID uint,
	scheduledTime time.Time,
	notes string,
	answerValue *vo.AnswerValue,
	status vo.Status,
	createdAt, updatedAt time.Time,
) (*Reminder, error) {
	if id == 0 {
		return nil, fmt.Errorf("reminder ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid reminder status: %s", status)
	}
	if status == vo.StatusAnswered && answerValue == nil {
		return nil, fmt.Errorf("answered reminder requires an answer value")
	}

	return &Reminder{
		id:            id,
		trackingID:    trackingID,
		userID:        userID,
		scheduledTime: scheduledTime.UTC(),
		notes:         notes,
		answerValue:   answerValue,
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

func (r *Reminder) ID() uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.id
}

func (r *Reminder) TrackingID() uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.trackingID
}

func (r *Reminder) UserID() uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userID
}

func (r *Reminder) ScheduledTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scheduledTime
}

func (r *Reminder) Notes() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.notes
}

func (r *Reminder) AnswerValue() *vo.AnswerValue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.answerValue
}

func (r *Reminder) Status() vo.Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

func (r *Reminder) CreatedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.createdAt
}

func (r *Reminder) UpdatedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.updatedAt
}

func (r *Reminder) SetID(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.id != 0 {
		return fmt.Errorf("reminder ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("reminder ID cannot be zero")
	}
	r.id = id
	return nil
}

// MarkPending promotes an Upcoming reminder whose instant has passed.
func (r *Reminder) MarkPending(asOf time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != vo.StatusUpcoming {
		return fmt.Errorf("cannot mark %s reminder as pending", r.status)
	}
	if r.scheduledTime.After(asOf) {
		return fmt.Errorf("scheduled time %s has not passed yet", r.scheduledTime.Format(time.RFC3339))
	}

	r.status = vo.StatusPending
	r.updatedAt = time.Now().UTC()
	return nil
}

// Answer records the user's response on a Pending reminder. An optional note
// replaces the reminder's notes.
func (r *Reminder) Answer(value vo.AnswerValue, note *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != vo.StatusPending {
		return fmt.Errorf("cannot answer %s reminder", r.status)
	}
	if !value.IsValid() {
		return fmt.Errorf("invalid answer value: %s", value)
	}

	r.status = vo.StatusAnswered
	r.answerValue = &value
	if note != nil {
		r.notes = *note
	}
	r.updatedAt = time.Now().UTC()
	return nil
}

// Snooze pushes the scheduled instant forward and returns the reminder to
// Upcoming. Valid from Pending or Upcoming; snoozes stack additively.
func (r *Reminder) Snooze(minutes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if minutes < 1 {
		return fmt.Errorf("snooze minutes must be at least 1, got %d", minutes)
	}
	if r.status != vo.StatusPending && r.status != vo.StatusUpcoming {
		return fmt.Errorf("cannot snooze %s reminder", r.status)
	}

	r.scheduledTime = r.scheduledTime.Add(time.Duration(minutes) * time.Minute)
	r.status = vo.StatusUpcoming
	r.updatedAt = time.Now().UTC()
	return nil
}

// AddNote sets the notes text without changing status.
func (r *Reminder) AddNote(note string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = note
	r.updatedAt = time.Now().UTC()
}
