// Package timeutil provides calendar helpers for recurrence arithmetic.
// All storage and transport use UTC; wall-clock math happens in the owning
// user's IANA timezone and is converted back to UTC at the edges.
package timeutil

import (
	"fmt"
	"time"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// LoadLocation resolves an IANA timezone name.
func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeapYear reports whether the year has a February 29.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// NthWeekdayOfMonth returns the day-of-month of the n-th occurrence (1-based)
// of the weekday within the month, or 0 when the month has no such occurrence.
func NthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	day := 1 + (int(weekday)-int(first)+7)%7 + 7*(n-1)
	if day > DaysInMonth(year, month) {
		return 0
	}
	return day
}

// NthWeekdayOfYear returns the day-of-year of the n-th occurrence (1-based)
// of the weekday within the calendar year, or 0 when out of range.
func NthWeekdayOfYear(year int, weekday time.Weekday, n int) int {
	first := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Weekday()
	yday := 1 + (int(weekday)-int(first)+7)%7 + 7*(n-1)
	limit := 365
	if IsLeapYear(year) {
		limit = 366
	}
	if yday > limit {
		return 0
	}
	return yday
}

// ClampDayOfMonth clips a target day-of-month to the month's length, so an
// anchor on the 31st lands on the last day of shorter months.
func ClampDayOfMonth(year int, month time.Month, day int) int {
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	return day
}

// DateOf truncates a time to its calendar date in the same location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole calendar days from a's date to b's
// date, negative when b precedes a. The dates are compared as plain calendar
// dates, so DST transitions in the source location do not skew the count.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// MonthsBetween returns the number of calendar months from a to b, ignoring
// the day component.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
