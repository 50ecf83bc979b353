package tracking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
)

func newTestTracking(t *testing.T) *Tracking {
	t.Helper()
	tr, err := NewTracking(1, "Did you stretch?", "", "🧘",
		&vo.DaysPattern{Type: vo.PatternInterval, Value: 1, Unit: vo.UnitDays},
		[]vo.Schedule{{Hour: 9, Minute: 0}})
	require.NoError(t, err)
	return tr
}

func TestNewTracking(t *testing.T) {
	t.Run("valid recurring tracking", func(t *testing.T) {
		tr := newTestTracking(t)
		assert.Equal(t, vo.StateRunning, tr.State())
		assert.False(t, tr.IsOneShot())
		assert.True(t, tr.IsRunning())
	})

	t.Run("nil pattern is a one-shot", func(t *testing.T) {
		tr, err := NewTracking(1, "Dentist appointment", "", "", nil, []vo.Schedule{{Hour: 10, Minute: 0}})
		require.NoError(t, err)
		assert.True(t, tr.IsOneShot())
	})

	t.Run("question is trimmed and required", func(t *testing.T) {
		_, err := NewTracking(1, "   ", "", "", nil, []vo.Schedule{{Hour: 9, Minute: 0}})
		assert.Error(t, err)
	})

	t.Run("question length bound", func(t *testing.T) {
		_, err := NewTracking(1, strings.Repeat("x", MaxQuestionLength+1), "", "", nil, []vo.Schedule{{Hour: 9, Minute: 0}})
		assert.Error(t, err)
	})

	t.Run("invalid pattern rejected", func(t *testing.T) {
		_, err := NewTracking(1, "q", "", "",
			&vo.DaysPattern{Type: vo.PatternInterval, Value: 0, Unit: vo.UnitDays},
			[]vo.Schedule{{Hour: 9, Minute: 0}})
		assert.Error(t, err)
	})

	t.Run("schedules required", func(t *testing.T) {
		_, err := NewTracking(1, "q", "", "", nil, nil)
		assert.Error(t, err)
	})
}

func TestTrackingTransitionTable(t *testing.T) {
	tests := []struct {
		from    vo.TrackingState
		to      vo.TrackingState
		allowed bool
	}{
		{vo.StateRunning, vo.StatePaused, true},
		{vo.StateRunning, vo.StateArchived, false},
		{vo.StateRunning, vo.StateDeleted, false},
		{vo.StatePaused, vo.StateRunning, true},
		{vo.StatePaused, vo.StateArchived, true},
		{vo.StatePaused, vo.StateDeleted, false},
		{vo.StateArchived, vo.StateRunning, true},
		{vo.StateArchived, vo.StateDeleted, true},
		{vo.StateArchived, vo.StatePaused, false},
		{vo.StateDeleted, vo.StateRunning, false},
		{vo.StateDeleted, vo.StatePaused, false},
		{vo.StateDeleted, vo.StateArchived, false},
	}

	for _, tt := range tests {
		name := string(tt.from) + " to " + string(tt.to)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	t.Run("same state is always allowed", func(t *testing.T) {
		for _, s := range []vo.TrackingState{vo.StateRunning, vo.StatePaused, vo.StateArchived, vo.StateDeleted} {
			assert.True(t, s.CanTransitionTo(s))
		}
	})
}

func TestTrackingTransitionTo(t *testing.T) {
	t.Run("allowed edge", func(t *testing.T) {
		tr := newTestTracking(t)
		require.NoError(t, tr.TransitionTo(vo.StatePaused))
		assert.Equal(t, vo.StatePaused, tr.State())
	})

	t.Run("disallowed edge", func(t *testing.T) {
		tr := newTestTracking(t)
		err := tr.TransitionTo(vo.StateDeleted)
		assert.Error(t, err)
		assert.Equal(t, vo.StateRunning, tr.State())
	})

	t.Run("same state is a no-op", func(t *testing.T) {
		tr := newTestTracking(t)
		before := tr.UpdatedAt()
		require.NoError(t, tr.TransitionTo(vo.StateRunning))
		assert.Equal(t, before, tr.UpdatedAt())
	})

	t.Run("full lifecycle path", func(t *testing.T) {
		tr := newTestTracking(t)
		require.NoError(t, tr.TransitionTo(vo.StatePaused))
		require.NoError(t, tr.TransitionTo(vo.StateArchived))
		require.NoError(t, tr.TransitionTo(vo.StateDeleted))
		assert.Equal(t, vo.StateDeleted, tr.State())
	})
}

func TestTrackingUpdates(t *testing.T) {
	tr := newTestTracking(t)

	t.Run("update days to nil makes one-shot", func(t *testing.T) {
		require.NoError(t, tr.UpdateDays(nil))
		assert.True(t, tr.IsOneShot())
	})

	t.Run("schedules are kept sorted", func(t *testing.T) {
		require.NoError(t, tr.UpdateSchedules([]vo.Schedule{{Hour: 20}, {Hour: 8}}))
		got := tr.Schedules()
		require.Len(t, got, 2)
		assert.Equal(t, 8, got[0].Hour)
		assert.Equal(t, 20, got[1].Hour)
	})

	t.Run("set id once", func(t *testing.T) {
		require.NoError(t, tr.SetID(42))
		assert.Error(t, tr.SetID(43))
		assert.Equal(t, uint(42), tr.ID())
	})
}
