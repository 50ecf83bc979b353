package tracking

import (
	"errors"
	"time"

	vo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
	"github.com/recurra-io/recurra/internal/shared/timeutil"
)

// searchHorizonDays bounds the forward scan to ten years of candidate dates.
const searchHorizonDays = 3662

// ErrNoOccurrence is returned when no future firing instant exists within
// the search horizon.
var ErrNoOccurrence = errors.New("no occurrence within search horizon")

// ErrInvalidPattern is returned for a structurally invalid recurrence pattern.
var ErrInvalidPattern = errors.New("invalid recurrence pattern")

// NextOccurrence computes the earliest firing instant strictly after now for
// the given pattern and schedule list. All date arithmetic happens in loc,
// the owner's IANA timezone; the result is returned in UTC.
//
// The anchor is the tracking's creation instant and is the origin for
// interval-unit arithmetic. An optional excluded instant is skipped, which
// lets a chained computation step past the occurrence that just terminated.
//
// The function is pure: identical inputs produce identical outputs.
func NextOccurrence(
	pattern *vo.DaysPattern,
	schedules []vo.Schedule,
	anchor time.Time,
	now time.Time,
	loc *time.Location,
	excluded *time.Time,
) (time.Time, error) {
	if pattern == nil {
		// One-shot trackings have no recurrence to evaluate.
		return time.Time{}, ErrNoOccurrence
	}
	if err := pattern.Validate(); err != nil {
		return time.Time{}, errors.Join(ErrInvalidPattern, err)
	}
	if len(schedules) == 0 {
		return time.Time{}, errors.Join(ErrInvalidPattern, errors.New("schedule list is empty"))
	}

	localNow := now.In(loc)
	anchorLocal := anchor.In(loc)
	sorted := vo.SortSchedules(schedules)

	// Walk forward by day; schedule times within a matching date are tried
	// in ascending order so the earliest future instant wins.
	startDate := timeutil.DateOf(localNow)
	for offset := 0; offset <= searchHorizonDays; offset++ {
		date := startDate.AddDate(0, 0, offset)
		if !pattern.Matches(date, anchorLocal) {
			continue
		}

		for _, s := range sorted {
			candidate := time.Date(date.Year(), date.Month(), date.Day(), s.Hour, s.Minute, 0, 0, loc)
			if !candidate.After(now) {
				continue
			}
			if excluded != nil && candidate.Equal(*excluded) {
				continue
			}
			return candidate.UTC(), nil
		}
	}

	return time.Time{}, ErrNoOccurrence
}
