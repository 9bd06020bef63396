// Package schedule contains the scheduling core: the working-day calendar,
// per-issue timeline normalization, assignee grouping, and the final
// render-ready schedule model. Everything in this package is pure — identical
// inputs always produce identical outputs.
package schedule

import "time"

// Issue is one row of a GitHub Projects export, already parsed and
// syntactically validated by the upstream loader. A zero Start or End
// means the export did not carry that date.
type Issue struct {
	Title     string
	URL       string
	Assignees []string
	Start     time.Time
	End       time.Time
	Milestone string
}

// Day builds a calendar date (midnight UTC). All date arithmetic in this
// package operates on dates in this form.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// midnight strips any time-of-day component a caller may have left on a date.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sameDay reports whether two timestamps fall on the same calendar date.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
