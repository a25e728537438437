package clock

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/brk3/wellnest/internal/logger"
)

// DateFormat is the canonical calendar-day layout (YYYY-MM-DD).
const DateFormat = "2006-01-02"

var ErrInvalidDay = errors.New("invalid calendar day")

// Clock supplies the current instant. Everything that needs "now" takes one,
// so tests can pin time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the wall clock of the server.
var System Clock = systemClock{}

// Fixed is a Clock that always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Location resolves an IANA timezone name. Empty, unknown or invalid names
// resolve to UTC.
func Location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		logger.Debug("Unknown timezone, falling back to UTC", "timezone", tz, "error", err)
		return time.UTC
	}
	return loc
}

// ValidTimezone reports whether tz names a loadable location.
func ValidTimezone(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// DayRange returns the first and last instant of the calendar day that
// contains instant, as observed in tz. The range is inclusive on both ends and
// spans 23 or 25 hours on DST transition days.
func DayRange(instant time.Time, tz string) (start, end time.Time) {
	loc := Location(tz)
	local := instant.In(loc)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return start, next.Add(-time.Nanosecond)
}

// DayString formats instant as the calendar day it falls on in tz.
func DayString(instant time.Time, tz string) string {
	return instant.In(Location(tz)).Format(DateFormat)
}

// Today is the calendar day of c.Now() in tz.
func Today(c Clock, tz string) string {
	return DayString(c.Now(), tz)
}

// ParseDay validates s as a canonical YYYY-MM-DD day and returns it as a
// UTC midnight. Non-padded or otherwise non-canonical forms are rejected.
func ParseDay(s string) (time.Time, error) {
	if len(s) != len(DateFormat) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return t, nil
}

// ValidDay reports whether s is a canonical calendar day.
func ValidDay(s string) bool {
	_, err := ParseDay(s)
	return err == nil
}

// DatePart returns the calendar-day prefix of a stored value that may carry a
// time component ("2024-01-05T00:00:00Z" -> "2024-01-05"). Values without a
// valid day prefix are returned unchanged.
func DatePart(s string) string {
	if len(s) > len(DateFormat) && ValidDay(s[:len(DateFormat)]) {
		return s[:len(DateFormat)]
	}
	return s
}

// StartOfDay is local midnight of day in tz.
func StartOfDay(day string, tz string) (time.Time, error) {
	d, err := ParseDay(day)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, Location(tz)), nil
}

// RangeOfDay is DayRange for a calendar-day label.
func RangeOfDay(day string, tz string) (start, end time.Time, err error) {
	s, err := StartOfDay(day, tz)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, end = DayRange(s, tz)
	return start, end, nil
}

// AddDays shifts a calendar day by n days. Calendar arithmetic only, so the
// result does not depend on any timezone.
func AddDays(day string, n int) (string, error) {
	d, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, n).Format(DateFormat), nil
}

// Weekday of a calendar day.
func Weekday(day string) (time.Weekday, error) {
	d, err := ParseDay(day)
	if err != nil {
		return 0, err
	}
	return d.Weekday(), nil
}

// WeekStart is the Monday on or before day.
func WeekStart(day string) (string, error) {
	wd, err := Weekday(day)
	if err != nil {
		return "", err
	}
	return AddDays(day, -((int(wd) + 6) % 7))
}

// MonthBounds returns the first and last calendar day of the given month.
func MonthBounds(year int, month time.Month) (first, last string) {
	f := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	l := f.AddDate(0, 1, -1)
	return f.Format(DateFormat), l.Format(DateFormat)
}

// Days yields every calendar day from from to to, inclusive. The sequence is
// lazy and can be ranged over any number of times. Invalid bounds or
// to < from yield nothing.
func Days(from, to string) iter.Seq[string] {
	return func(yield func(string) bool) {
		f, err := ParseDay(from)
		if err != nil {
			return
		}
		t, err := ParseDay(to)
		if err != nil {
			return
		}
		for d := f; !d.After(t); d = d.AddDate(0, 0, 1) {
			if !yield(d.Format(DateFormat)) {
				return
			}
		}
	}
}
