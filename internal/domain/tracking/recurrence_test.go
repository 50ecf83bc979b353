package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func intPtr(v int) *int { return &v }

func TestNextOccurrence_DailyInterval(t *testing.T) {
	ba := mustLoadLocation(t, "America/Argentina/Buenos_Aires")
	pattern := &vo.DaysPattern{Type: vo.PatternInterval, Value: 1, Unit: vo.UnitDays}
	schedules := []vo.Schedule{{Hour: 8, Minute: 0}, {Hour: 20, Minute: 0}}
	anchor := time.Date(2025, 1, 10, 10, 0, 0, 0, ba)

	t.Run("same day later schedule wins", func(t *testing.T) {
		got, err := NextOccurrence(pattern, schedules, anchor, anchor, ba, nil)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 10, 20, 0, 0, 0, ba).UTC(), got)
	})

	t.Run("past last schedule rolls to next day", func(t *testing.T) {
		now := time.Date(2025, 1, 10, 21, 0, 0, 0, ba)
		got, err := NextOccurrence(pattern, schedules, anchor, now, ba, nil)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 11, 8, 0, 0, 0, ba).UTC(), got)
	})
}

func TestNextOccurrence_DayOfWeek(t *testing.T) {
	pattern := &vo.DaysPattern{Type: vo.PatternDayOfWeek, Days: []int{0, 6}}
	schedules := []vo.Schedule{{Hour: 9, Minute: 0}}
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// Wednesday just past the schedule time; Saturday is the next hit.
	now := time.Date(2025, 1, 8, 9, 1, 0, 0, time.UTC)
	got, err := NextOccurrence(pattern, schedules, anchor, now, time.UTC, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.Saturday, got.Weekday())
}

func TestNextOccurrence_LastDayOfMonth(t *testing.T) {
	pattern := &vo.DaysPattern{Type: vo.PatternDayOfMonth, Mode: vo.ModeLastDay}
	schedules := []vo.Schedule{{Hour: 23, Minute: 59}}
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// One second past February's firing; March's last day is the 31st.
	now := time.Date(2025, 2, 28, 23, 59, 1, 0, time.UTC)
	got, err := NextOccurrence(pattern, schedules, anchor, now, time.UTC, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC), got)
}

func TestNextOccurrence_DayNumber31SkipsShortMonths(t *testing.T) {
	pattern := &vo.DaysPattern{Type: vo.PatternDayOfMonth, Mode: vo.ModeDayNumbers, DayNumbers: []int{31}}
	schedules := []vo.Schedule{{Hour: 12, Minute: 0}}
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	now := time.Date(2025, 1, 31, 13, 0, 0, 0, time.UTC)
	got, err := NextOccurrence(pattern, schedules, anchor, now, time.UTC, nil)
	require.NoError(t, err)
	// February has no 31st; March is the next hit.
	assert.Equal(t, time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC), got)
}

func TestNextOccurrence_Feb29WaitsForLeapYear(t *testing.T) {
	pattern := &vo.DaysPattern{Type: vo.PatternDayOfYear, Mode: vo.ModeDate, Month: 2, Day: 29}
	schedules := []vo.Schedule{{Hour: 10, Minute: 0}}
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	got, err := NextOccurrence(pattern, schedules, anchor, now, time.UTC, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2028, 2, 29, 10, 0, 0, 0, time.UTC), got)
}

func TestNextOccurrence_FifthWeekdaySkipsShortMonths(t *testing.T) {
	pattern := &vo.DaysPattern{
		Type:    vo.PatternDayOfMonth,
		Mode:    vo.ModeWeekdayOrdinal,
		Weekday: intPtr(5), // Friday
		Ordinal: 5,
	}
	schedules := []vo.Schedule{{Hour: 18, Minute: 0}}
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// February, March and April 2025 have only four Fridays.
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	got, err := NextOccurrence(pattern, schedules, anchor, now, time.UTC, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 30, 18, 0, 0, 0, time.UTC), got)
}

func TestNextOccurrence_MonthlyAnchorDay31Clips(t *testing.T) {
	pattern := &vo.DaysPattern{Type: vo.PatternInterval, Value: 1, Unit: vo.UnitMonths}
	schedules := []vo.Schedule{{Hour: 9, Minute: 0}}
	anchor := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)

	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	got, err := NextOccurrence(pattern, schedules, anchor, now, time.UTC, nil)
	require.NoError(t, err)
	// February clips the 31st to its last day.
	assert.Equal(t, time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC), got)
}

func TestNextOccurrence_ExcludedInstantIsSkipped(t *testing.T) {
	pattern := &vo.DaysPattern{Type: vo.PatternInterval, Value: 1, Unit: vo.UnitDays}
	schedules := []vo.Schedule{{Hour: 8, Minute: 0}}
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	first, err := NextOccurrence(pattern, schedules, anchor, now, time.UTC, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC), first)

	second, err := NextOccurrence(pattern, schedules, anchor, now, time.UTC, &first)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 11, 8, 0, 0, 0, time.UTC), second)
}

func TestNextOccurrence_Determinism(t *testing.T) {
	pattern := &vo.DaysPattern{Type: vo.PatternDayOfWeek, Days: []int{1, 3, 5}}
	schedules := []vo.Schedule{{Hour: 7, Minute: 30}, {Hour: 19, Minute: 0}}
	anchor := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)

	first, err := NextOccurrence(pattern, schedules, anchor, now, time.UTC, nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := NextOccurrence(pattern, schedules, anchor, now, time.UTC, nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestNextOccurrence_Errors(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := anchor
	schedules := []vo.Schedule{{Hour: 8, Minute: 0}}

	t.Run("nil pattern is a one-shot", func(t *testing.T) {
		_, err := NextOccurrence(nil, schedules, anchor, now, time.UTC, nil)
		assert.ErrorIs(t, err, ErrNoOccurrence)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		pattern := &vo.DaysPattern{Type: vo.PatternInterval, Value: 0, Unit: vo.UnitDays}
		_, err := NextOccurrence(pattern, schedules, anchor, now, time.UTC, nil)
		assert.ErrorIs(t, err, ErrInvalidPattern)
	})

	t.Run("empty schedule list", func(t *testing.T) {
		pattern := &vo.DaysPattern{Type: vo.PatternInterval, Value: 1, Unit: vo.UnitDays}
		_, err := NextOccurrence(pattern, nil, anchor, now, time.UTC, nil)
		assert.ErrorIs(t, err, ErrInvalidPattern)
	})

	t.Run("no hit within horizon", func(t *testing.T) {
		// Interval longer than the scan horizon never matches again.
		pattern := &vo.DaysPattern{Type: vo.PatternInterval, Value: 11, Unit: vo.UnitYears}
		lateNow := anchor.Add(9 * time.Hour) // past the anchor-day firing
		_, err := NextOccurrence(pattern, schedules, anchor, lateNow, time.UTC, nil)
		assert.ErrorIs(t, err, ErrNoOccurrence)
	})
}

func TestNextOccurrence_ResultIsUTC(t *testing.T) {
	tokyo := mustLoadLocation(t, "Asia/Tokyo")
	pattern := &vo.DaysPattern{Type: vo.PatternInterval, Value: 1, Unit: vo.UnitDays}
	schedules := []vo.Schedule{{Hour: 6, Minute: 0}}
	anchor := time.Date(2025, 5, 1, 0, 0, 0, 0, tokyo)
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, tokyo)

	got, err := NextOccurrence(pattern, schedules, anchor, now, tokyo, nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2025, 5, 2, 6, 0, 0, 0, tokyo).UTC(), got)
}
