// Package tracking holds the recurring-question aggregate and the pure
// recurrence evaluator that computes the next firing instant.
package tracking

import (
	"fmt"
	"strings"
	"sync"
	"time"

	vo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
)

// MaxQuestionLength bounds the tracking question text.
const MaxQuestionLength = 100

type Tracking struct {
	id        uint
	userID    uint
	question  string
	notes     string
	icon      string
	days      *vo.DaysPattern // nil means one-shot
	schedules []vo.Schedule
	state     vo.TrackingState
	createdAt time.Time
	updatedAt time.Time
	mu        sync.RWMutex
}

func NewTracking(
	userID uint,
	question, notes, icon string,
	days *vo.DaysPattern,
	schedules []vo.Schedule,
) (*Tracking, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is required")
	}
	if len(question) > MaxQuestionLength {
		return nil, fmt.Errorf("question exceeds maximum length of %d characters", MaxQuestionLength)
	}

	if days != nil {
		if err := days.Validate(); err != nil {
			return nil, err
		}
	}

	if err := vo.ValidateSchedules(schedules); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Tracking{
		userID:    userID,
		question:  question,
		notes:     notes,
		icon:      icon,
		days:      days,
		schedules: vo.SortSchedules(schedules),
		state:     vo.StateRunning,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructTracking(
	id uint,
	userID uint,
	question, notes, icon string,
	days *vo.DaysPattern,
	schedules []vo.Schedule,
	state vo.TrackingState,
	createdAt, updatedAt time.Time,
) (*Tracking, error) {
	if id == 0 {
		return nil, fmt.Errorf("tracking ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !state.IsValid() {
		return nil, fmt.Errorf("invalid tracking state: %s", state)
	}

	return &Tracking{
		id:        id,
		userID:    userID,
		question:  question,
		notes:     notes,
		icon:      icon,
		days:      days,
		schedules: vo.SortSchedules(schedules),
		state:     state,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (t *Tracking) ID() uint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.id
}

func (t *Tracking) UserID() uint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.userID
}

func (t *Tracking) Question() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.question
}

func (t *Tracking) Notes() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.notes
}

func (t *Tracking) Icon() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.icon
}

func (t *Tracking) Days() *vo.DaysPattern {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.days
}

func (t *Tracking) Schedules() []vo.Schedule {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]vo.Schedule, len(t.schedules))
	copy(out, t.schedules)
	return out
}

func (t *Tracking) State() vo.TrackingState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func (t *Tracking) CreatedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.createdAt
}

func (t *Tracking) UpdatedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.updatedAt
}

// IsOneShot reports whether the tracking fires once instead of recurring.
func (t *Tracking) IsOneShot() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.days == nil
}

func (t *Tracking) IsRunning() bool {
	return t.State() == vo.StateRunning
}

func (t *Tracking) SetID(id uint) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.id != 0 {
		return fmt.Errorf("tracking ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("tracking ID cannot be zero")
	}
	t.id = id
	return nil
}

// TransitionTo moves the tracking to the target state if the edge is in the
// allowed transition table. Same-state transitions are accepted as no-ops.
func (t *Tracking) TransitionTo(target vo.TrackingState) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !target.IsValid() {
		return fmt.Errorf("invalid tracking state: %s", target)
	}
	if t.state == target {
		return nil
	}
	if !t.state.CanTransitionTo(target) {
		return fmt.Errorf("transition from %s to %s is not allowed", t.state, target)
	}

	t.state = target
	t.updatedAt = time.Now().UTC()
	return nil
}

// UpdateQuestion replaces the question text after trimming and bounds checks.
func (t *Tracking) UpdateQuestion(question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("question is required")
	}
	if len(question) > MaxQuestionLength {
		return fmt.Errorf("question exceeds maximum length of %d characters", MaxQuestionLength)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.question = question
	t.updatedAt = time.Now().UTC()
	return nil
}

func (t *Tracking) UpdateNotes(notes string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notes = notes
	t.updatedAt = time.Now().UTC()
}

func (t *Tracking) UpdateIcon(icon string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.icon = icon
	t.updatedAt = time.Now().UTC()
}

// UpdateDays replaces the recurrence pattern. A nil pattern turns the
// tracking into a one-shot.
func (t *Tracking) UpdateDays(days *vo.DaysPattern) error {
	if days != nil {
		if err := days.Validate(); err != nil {
			return err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.days = days
	t.updatedAt = time.Now().UTC()
	return nil
}

// UpdateSchedules replaces the schedule list.
func (t *Tracking) UpdateSchedules(schedules []vo.Schedule) error {
	if err := vo.ValidateSchedules(schedules); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.schedules = vo.SortSchedules(schedules)
	t.updatedAt = time.Now().UTC()
	return nil
}
