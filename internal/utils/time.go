package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/sixtysix/internal/constants"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// Calendar answers day-granularity questions against the device-local calendar.
// All comparisons are done on year/month/day in the calendar's location, never on
// elapsed hours, so DST transitions and late-night check-ins do not shift days.
type Calendar struct {
	loc *time.Location
}

// NewCalendar returns a calendar for loc. A nil location means time.Local.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{loc: loc}
}

// Location returns the calendar's time zone.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// StartOfDay returns midnight of t's calendar day.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	t = t.In(c.Location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.Location())
}

// IsSameDay reports whether a and b fall on the same calendar day.
func (c Calendar) IsSameDay(a, b time.Time) bool {
	a = a.In(c.Location())
	b = b.In(c.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// IsToday reports whether t falls on now's calendar day.
func (c Calendar) IsToday(t, now time.Time) bool {
	return c.IsSameDay(t, now)
}

// DaysBetween returns the number of calendar days from from's day to to's day.
// It is negative when to is on an earlier day.
func (c Calendar) DaysBetween(from, to time.Time) int {
	from = from.In(c.Location())
	to = to.In(c.Location())
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// DaysElapsed returns the number of whole days between two instants, counted on the
// wall clock: from plus the result (in days) is never after to.
func (c Calendar) DaysElapsed(from, to time.Time) int {
	if to.Before(from) {
		return -c.DaysElapsed(to, from)
	}
	n := c.DaysBetween(from, to)
	if from.In(c.Location()).AddDate(0, 0, n).After(to) {
		n--
	}
	return n
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ParseTimeOfDay parses a time string in the standard format (HH:MM).
func ParseTimeOfDay(timeStr string) (hour, minute int, err error) {
	t, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q (expected HH:MM): %w", timeStr, err)
	}
	return t.Hour(), t.Minute(), nil
}

// FormatTimeOfDay renders hour and minute as HH:MM.
func FormatTimeOfDay(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
