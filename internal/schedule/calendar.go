package schedule

import (
	"errors"
	"time"
)

// ErrHorizonExhausted is returned when no working day exists between the
// requested date and the end of the calendar horizon.
var ErrHorizonExhausted = errors.New("no working day left within the calendar horizon")

// ClosedRule marks individual dates as non-working. Rules may overlap; a date
// excluded by several rules is simply excluded.
type ClosedRule interface {
	Closes(d time.Time) bool
}

// ClosedDate closes one specific date.
type ClosedDate struct {
	Date time.Time
}

func (r ClosedDate) Closes(d time.Time) bool {
	return sameDay(r.Date, d)
}

// ClosedWeekday closes every occurrence of one weekday.
type ClosedWeekday struct {
	Day time.Weekday
}

func (r ClosedWeekday) Closes(d time.Time) bool {
	return d.Weekday() == r.Day
}

// ClosedRange closes every date in an inclusive range.
type ClosedRange struct {
	Start time.Time
	End   time.Time
}

func (r ClosedRange) Closes(d time.Time) bool {
	day := midnight(d)
	return !day.Before(midnight(r.Start)) && !day.After(midnight(r.End))
}

// Horizon is the inclusive date range the schedule operates in. Dates outside
// it are never working days.
type Horizon struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the horizon (inclusive).
func (h Horizon) Contains(d time.Time) bool {
	day := midnight(d)
	return !day.Before(midnight(h.Start)) && !day.After(midnight(h.End))
}

// Calendar answers "is this date a working day" for one immutable set of
// closed-date rules and one horizon.
type Calendar struct {
	rules   []ClosedRule
	horizon Horizon
}

// NewCalendar builds a calendar over the given rules and horizon. The rule
// slice is copied; the calendar never mutates after construction.
func NewCalendar(rules []ClosedRule, horizon Horizon) *Calendar {
	c := &Calendar{
		rules: make([]ClosedRule, len(rules)),
		horizon: Horizon{
			Start: midnight(horizon.Start),
			End:   midnight(horizon.End),
		},
	}
	copy(c.rules, rules)
	return c
}

// Horizon returns the calendar's inclusive horizon.
func (c *Calendar) Horizon() Horizon {
	return c.horizon
}

// IsWorking reports whether d is a working day. Dates outside the horizon are
// non-working (the calendar fails closed rather than extrapolating).
func (c *Calendar) IsWorking(d time.Time) bool {
	if !c.horizon.Contains(d) {
		return false
	}
	for _, r := range c.rules {
		if r.Closes(d) {
			return false
		}
	}
	return true
}

// NextWorkingDay scans forward from d for the first working day. With
// inclusive set, d itself qualifies; otherwise the scan starts the day after.
// Returns ErrHorizonExhausted when the scan runs past the horizon end.
func (c *Calendar) NextWorkingDay(d time.Time, inclusive bool) (time.Time, error) {
	cur := midnight(d)
	if !inclusive {
		cur = cur.AddDate(0, 0, 1)
	}
	// Dates before the horizon clip to its start instead of scanning
	// day-by-day through open-ended history.
	if cur.Before(c.horizon.Start) {
		cur = c.horizon.Start
	}
	for !cur.After(c.horizon.End) {
		if c.IsWorking(cur) {
			return cur, nil
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return time.Time{}, ErrHorizonExhausted
}

// lastWorkingDay scans backward from d to the most recent working day.
func (c *Calendar) lastWorkingDay(d time.Time) (time.Time, error) {
	cur := midnight(d)
	if cur.After(c.horizon.End) {
		cur = c.horizon.End
	}
	for !cur.Before(c.horizon.Start) {
		if c.IsWorking(cur) {
			return cur, nil
		}
		cur = cur.AddDate(0, 0, -1)
	}
	return time.Time{}, ErrHorizonExhausted
}

// WorkingDayCount counts the working days in [from, to] inclusive.
func (c *Calendar) WorkingDayCount(from, to time.Time) int {
	count := 0
	for cur := midnight(from); !cur.After(midnight(to)); cur = cur.AddDate(0, 0, 1) {
		if c.IsWorking(cur) {
			count++
		}
	}
	return count
}
