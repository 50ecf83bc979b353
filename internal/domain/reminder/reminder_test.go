package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/recurra-io/recurra/internal/domain/reminder/valueobjects"
)

func newTestReminder(t *testing.T, at time.Time) *Reminder {
	t.Helper()
	r, err := NewReminder(1, 1, at)
	require.NoError(t, err)
	require.NoError(t, r.SetID(1))
	return r
}

func TestNewReminder(t *testing.T) {
	at := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	r := newTestReminder(t, at)
	assert.Equal(t, vo.StatusUpcoming, r.Status())
	assert.Equal(t, at, r.ScheduledTime())
	assert.Nil(t, r.AnswerValue())

	t.Run("instant is normalized to UTC", func(t *testing.T) {
		loc := time.FixedZone("ART", -3*3600)
		r, err := NewReminder(1, 1, time.Date(2025, 3, 15, 9, 0, 0, 0, loc))
		require.NoError(t, err)
		assert.Equal(t, time.UTC, r.ScheduledTime().Location())
		assert.Equal(t, at, r.ScheduledTime())
	})

	t.Run("required fields", func(t *testing.T) {
		_, err := NewReminder(0, 1, at)
		assert.Error(t, err)
		_, err = NewReminder(1, 0, at)
		assert.Error(t, err)
		_, err = NewReminder(1, 1, time.Time{})
		assert.Error(t, err)
	})
}

func TestReminderMarkPending(t *testing.T) {
	at := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("due instant promotes", func(t *testing.T) {
		r := newTestReminder(t, at)
		require.NoError(t, r.MarkPending(at.Add(30*time.Second)))
		assert.Equal(t, vo.StatusPending, r.Status())
	})

	t.Run("future instant does not promote", func(t *testing.T) {
		r := newTestReminder(t, at)
		assert.Error(t, r.MarkPending(at.Add(-time.Second)))
		assert.Equal(t, vo.StatusUpcoming, r.Status())
	})

	t.Run("pending cannot promote twice", func(t *testing.T) {
		r := newTestReminder(t, at)
		require.NoError(t, r.MarkPending(at))
		assert.Error(t, r.MarkPending(at))
	})
}

func TestReminderAnswer(t *testing.T) {
	at := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("pending accepts completed", func(t *testing.T) {
		r := newTestReminder(t, at)
		require.NoError(t, r.MarkPending(at))

		require.NoError(t, r.Answer(vo.AnswerCompleted, nil))
		assert.Equal(t, vo.StatusAnswered, r.Status())
		require.NotNil(t, r.AnswerValue())
		assert.Equal(t, vo.AnswerCompleted, *r.AnswerValue())
	})

	t.Run("answer note replaces notes", func(t *testing.T) {
		r := newTestReminder(t, at)
		require.NoError(t, r.MarkPending(at))

		note := "skipped the last set"
		require.NoError(t, r.Answer(vo.AnswerDismissed, &note))
		assert.Equal(t, note, r.Notes())
	})

	t.Run("upcoming cannot be answered", func(t *testing.T) {
		r := newTestReminder(t, at)
		assert.Error(t, r.Answer(vo.AnswerCompleted, nil))
	})

	t.Run("answered is terminal", func(t *testing.T) {
		r := newTestReminder(t, at)
		require.NoError(t, r.MarkPending(at))
		require.NoError(t, r.Answer(vo.AnswerCompleted, nil))
		assert.Error(t, r.Answer(vo.AnswerDismissed, nil))
	})
}

func TestReminderSnooze(t *testing.T) {
	at := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("pending returns to upcoming", func(t *testing.T) {
		r := newTestReminder(t, at)
		require.NoError(t, r.MarkPending(at))

		require.NoError(t, r.Snooze(15))
		assert.Equal(t, vo.StatusUpcoming, r.Status())
		assert.Equal(t, at.Add(15*time.Minute), r.ScheduledTime())
	})

	t.Run("snoozes stack additively", func(t *testing.T) {
		r := newTestReminder(t, at)
		require.NoError(t, r.Snooze(10))
		require.NoError(t, r.Snooze(20))
		assert.Equal(t, at.Add(30*time.Minute), r.ScheduledTime())
		assert.Equal(t, vo.StatusUpcoming, r.Status())
	})

	t.Run("minutes must be positive", func(t *testing.T) {
		r := newTestReminder(t, at)
		assert.Error(t, r.Snooze(0))
	})

	t.Run("answered cannot snooze", func(t *testing.T) {
		r := newTestReminder(t, at)
		require.NoError(t, r.MarkPending(at))
		require.NoError(t, r.Answer(vo.AnswerCompleted, nil))
		assert.Error(t, r.Snooze(5))
	})
}

func TestReconstructReminder(t *testing.T) {
	at := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("answered requires answer value", func(t *testing.T) {
		_, err := ReconstructReminder(1, 1, 1, at, "", nil, vo.StatusAnswered, at, at)
		assert.Error(t, err)
	})

	t.Run("round trip", func(t *testing.T) {
		answer := vo.AnswerCompleted
		r, err := ReconstructReminder(7, 3, 2, at, "note", &answer, vo.StatusAnswered, at, at)
		require.NoError(t, err)
		assert.Equal(t, uint(7), r.ID())
		assert.Equal(t, uint(3), r.TrackingID())
		assert.Equal(t, vo.StatusAnswered, r.Status())
	})
}
