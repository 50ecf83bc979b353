package valueobjects

import (
	"fmt"
	"sort"
)

// MaxSchedulesPerTracking bounds the wall-clock times a tracking fires at per day.
const MaxSchedulesPerTracking = 5

// Schedule is a wall-clock (hour, minute) tuple attached to a tracking.
type Schedule struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func NewSchedule(hour, minute int) (Schedule, error) {
	s := Schedule{Hour: hour, Minute: minute}
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

func (s Schedule) Validate() error {
	if s.Hour < 0 || s.Hour > 23 {
		return fmt.Errorf("schedule hour must be between 0 and 23, got %d", s.Hour)
	}
	if s.Minute < 0 || s.Minute > 59 {
		return fmt.Errorf("schedule minute must be between 0 and 59, got %d", s.Minute)
	}
	return nil
}

func (s Schedule) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// Before orders schedules by (hour, minute).
func (s Schedule) Before(other Schedule) bool {
	if s.Hour != other.Hour {
		return s.Hour < other.Hour
	}
	return s.Minute < other.Minute
}

// ValidateSchedules enforces the 1..5 count bound and pairwise distinctness.
func ValidateSchedules(schedules []Schedule) error {
	if len(schedules) == 0 {
		return fmt.Errorf("at least one schedule is required")
	}
	if len(schedules) > MaxSchedulesPerTracking {
		return fmt.Errorf("at most %d schedules are allowed, got %d", MaxSchedulesPerTracking, len(schedules))
	}

	seen := make(map[Schedule]bool, len(schedules))
	for _, s := range schedules {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s] {
			return fmt.Errorf("duplicate schedule time %s", s)
		}
		seen[s] = true
	}
	return nil
}

// SortSchedules returns a copy ordered ascending by (hour, minute).
func SortSchedules(schedules []Schedule) []Schedule {
	sorted := make([]Schedule, len(schedules))
	copy(sorted, schedules)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})
	return sorted
}
