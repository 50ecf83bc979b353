package valueobjects

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/recurra-io/recurra/internal/shared/timeutil"
)

// PatternType is the top-level tag of a DaysPattern variant.
type PatternType string

const (
	PatternInterval   PatternType = "interval"
	PatternDayOfWeek  PatternType = "day_of_week"
	PatternDayOfMonth PatternType = "day_of_month"
	PatternDayOfYear  PatternType = "day_of_year"
)

// IntervalUnit is the unit of an interval pattern.
type IntervalUnit string

const (
	UnitDays   IntervalUnit = "days"
	UnitWeeks  IntervalUnit = "weeks"
	UnitMonths IntervalUnit = "months"
	UnitYears  IntervalUnit = "years"
)

// Sub-variant modes for day_of_month and day_of_year patterns.
const (
	ModeDayNumbers     = "day_numbers"
	ModeLastDay        = "last_day"
	ModeWeekdayOrdinal = "weekday_ordinal"
	ModeDate           = "date"
)

// DaysPattern is the recurrence rule selecting which dates a tracking fires
// on. It is stored as a JSON document; the populated fields depend on Type
// (and Mode for monthly/yearly variants). Weekdays are 0=Sunday..6=Saturday.
type DaysPattern struct {
	Type PatternType `json:"type"`

	// interval
	Value int          `json:"value,omitempty"`
	Unit  IntervalUnit `json:"unit,omitempty"`

	// day_of_week
	Days []int `json:"days,omitempty"`

	// day_of_month / day_of_year sub-variant selector
	Mode string `json:"mode,omitempty"`

	// day_of_month / day_numbers
	DayNumbers []int `json:"day_numbers,omitempty"`

	// weekday_ordinal (monthly or yearly)
	Weekday *int `json:"weekday,omitempty"`
	Ordinal int  `json:"ordinal,omitempty"`

	// day_of_year / date
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// ParseDaysPattern decodes and validates a stored JSON pattern document.
func ParseDaysPattern(raw []byte) (*DaysPattern, error) {
	var p DaysPattern
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("malformed days pattern document: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate enforces the variant invariants of the pattern.
func (p *DaysPattern) Validate() error {
	switch p.Type {
	case PatternInterval:
		if p.Value < 1 {
			return fmt.Errorf("interval value must be at least 1, got %d", p.Value)
		}
		switch p.Unit {
		case UnitDays, UnitWeeks, UnitMonths, UnitYears:
		default:
			return fmt.Errorf("unknown interval unit: %q", p.Unit)
		}

	case PatternDayOfWeek:
		if len(p.Days) == 0 {
			return fmt.Errorf("day_of_week pattern requires at least one weekday")
		}
		seen := make(map[int]bool, len(p.Days))
		for _, d := range p.Days {
			if d < 0 || d > 6 {
				return fmt.Errorf("weekday must be between 0 and 6, got %d", d)
			}
			if seen[d] {
				return fmt.Errorf("duplicate weekday %d", d)
			}
			seen[d] = true
		}

	case PatternDayOfMonth:
		switch p.Mode {
		case ModeDayNumbers:
			if len(p.DayNumbers) == 0 {
				return fmt.Errorf("day_numbers mode requires at least one day number")
			}
			seen := make(map[int]bool, len(p.DayNumbers))
			for _, d := range p.DayNumbers {
				if d < 1 || d > 31 {
					return fmt.Errorf("day number must be between 1 and 31, got %d", d)
				}
				if seen[d] {
					return fmt.Errorf("duplicate day number %d", d)
				}
				seen[d] = true
			}
		case ModeLastDay:
		case ModeWeekdayOrdinal:
			if err := p.validateWeekdayOrdinal(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown day_of_month mode: %q", p.Mode)
		}

	case PatternDayOfYear:
		switch p.Mode {
		case ModeDate:
			if p.Month < 1 || p.Month > 12 {
				return fmt.Errorf("month must be between 1 and 12, got %d", p.Month)
			}
			if p.Day < 1 || p.Day > 31 {
				return fmt.Errorf("day must be between 1 and 31, got %d", p.Day)
			}
		case ModeWeekdayOrdinal:
			if err := p.validateWeekdayOrdinal(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown day_of_year mode: %q", p.Mode)
		}

	default:
		return fmt.Errorf("unknown pattern type: %q", p.Type)
	}
	return nil
}

func (p *DaysPattern) validateWeekdayOrdinal() error {
	if p.Weekday == nil {
		return fmt.Errorf("weekday_ordinal mode requires a weekday")
	}
	if *p.Weekday < 0 || *p.Weekday > 6 {
		return fmt.Errorf("weekday must be between 0 and 6, got %d", *p.Weekday)
	}
	if p.Ordinal < 1 || p.Ordinal > 5 {
		return fmt.Errorf("ordinal must be between 1 and 5, got %d", p.Ordinal)
	}
	return nil
}

// Matches reports whether the calendar date satisfies the pattern. The
// anchor is the tracking's creation date in the user's zone and only
// participates in interval arithmetic. Both times must already be expressed
// in the user's location.
func (p *DaysPattern) Matches(date, anchor time.Time) bool {
	switch p.Type {
	case PatternInterval:
		return p.matchesInterval(date, anchor)

	case PatternDayOfWeek:
		wd := int(date.Weekday())
		for _, d := range p.Days {
			if d == wd {
				return true
			}
		}
		return false

	case PatternDayOfMonth:
		switch p.Mode {
		case ModeDayNumbers:
			for _, d := range p.DayNumbers {
				// Day numbers beyond the month's length skip that month.
				if d == date.Day() && d <= timeutil.DaysInMonth(date.Year(), date.Month()) {
					return true
				}
			}
			return false
		case ModeLastDay:
			return date.Day() == timeutil.DaysInMonth(date.Year(), date.Month())
		case ModeWeekdayOrdinal:
			day := timeutil.NthWeekdayOfMonth(date.Year(), date.Month(), time.Weekday(*p.Weekday), p.Ordinal)
			return day != 0 && date.Day() == day
		}

	case PatternDayOfYear:
		switch p.Mode {
		case ModeDate:
			// Feb 29 skips non-leap years.
			if p.Month == 2 && p.Day == 29 && !timeutil.IsLeapYear(date.Year()) {
				return false
			}
			return int(date.Month()) == p.Month && date.Day() == p.Day
		case ModeWeekdayOrdinal:
			yday := timeutil.NthWeekdayOfYear(date.Year(), time.Weekday(*p.Weekday), p.Ordinal)
			return yday != 0 && date.YearDay() == yday
		}
	}
	return false
}

func (p *DaysPattern) matchesInterval(date, anchor time.Time) bool {
	switch p.Unit {
	case UnitDays:
		diff := timeutil.DaysBetween(anchor, date)
		return diff >= 0 && diff%p.Value == 0

	case UnitWeeks:
		diff := timeutil.DaysBetween(anchor, date)
		return diff >= 0 && diff%(7*p.Value) == 0

	case UnitMonths:
		months := timeutil.MonthsBetween(anchor, date)
		if months < 0 || months%p.Value != 0 {
			return false
		}
		// Anchor day 31 clips to the last day of shorter target months.
		target := timeutil.ClampDayOfMonth(date.Year(), date.Month(), anchor.Day())
		return date.Day() == target

	case UnitYears:
		years := date.Year() - anchor.Year()
		if years < 0 || years%p.Value != 0 {
			return false
		}
		day := anchor.Day()
		// Feb 29 anchors fall back to Feb 28 in non-leap years.
		if anchor.Month() == time.February && day == 29 && !timeutil.IsLeapYear(date.Year()) {
			day = 28
		}
		return date.Month() == anchor.Month() && date.Day() == day
	}
	return false
}

// ToJSON encodes the pattern into its stored document shape.
func (p *DaysPattern) ToJSON() ([]byte, error) {
	return json.Marshal(p)
}
