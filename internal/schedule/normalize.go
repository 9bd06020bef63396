package schedule

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Anomaly is a recorded, non-fatal data-quality flag on a single issue.
type Anomaly int

const (
	AnomalyNone Anomaly = iota
	AnomalyMissingDate
	AnomalyInvertedRange
	AnomalyOutOfHorizon
)

func (a Anomaly) String() string {
	switch a {
	case AnomalyMissingDate:
		return "missing date"
	case AnomalyInvertedRange:
		return "inverted date range"
	case AnomalyOutOfHorizon:
		return "outside project horizon"
	default:
		return "none"
	}
}

// NormalizedIssue is an Issue with its effective working-day span resolved
// against the calendar. Built once by Normalize and immutable afterward.
type NormalizedIssue struct {
	Issue

	EffectiveStart time.Time
	EffectiveEnd   time.Time
	WorkingDays    int
	Anomaly        Anomaly
}

// Drawable reports whether the issue may appear in a lane. Only issues whose
// dates could not be placed inside the horizon are excluded; missing and
// inverted dates are repaired best-effort and stay drawable.
func (n NormalizedIssue) Drawable() bool {
	return n.Anomaly != AnomalyOutOfHorizon
}

// Normalize resolves one issue's effective span against the calendar.
//
// Missing dates substitute the nearest working day at the matching horizon
// bound; an inverted pair is swapped before adjustment (operator error is
// tolerated, not dropped); both endpoints are advanced forward to working
// days. A date that cannot be placed inside the horizon marks the issue
// AnomalyOutOfHorizon.
func Normalize(issue Issue, cal *Calendar) NormalizedIssue {
	n := NormalizedIssue{Issue: issue}
	h := cal.Horizon()

	start, end := issue.Start, issue.End

	if start.IsZero() || end.IsZero() {
		n.Anomaly = AnomalyMissingDate
		if start.IsZero() {
			start = h.Start
		}
		if end.IsZero() {
			end = h.End
		}
	}

	if start.After(end) {
		n.Anomaly = AnomalyInvertedRange
		start, end = end, start
	}

	effStart, err := cal.NextWorkingDay(start, true)
	if err != nil {
		n.Anomaly = AnomalyOutOfHorizon
		return n
	}

	var effEnd time.Time
	if issue.End.IsZero() {
		// The placeholder horizon end may itself be closed; take the last
		// working day instead of scanning forward out of the horizon.
		effEnd, err = cal.lastWorkingDay(end)
	} else {
		effEnd, err = cal.NextWorkingDay(end, true)
	}
	if err != nil {
		n.Anomaly = AnomalyOutOfHorizon
		return n
	}
	if effEnd.Before(effStart) {
		effEnd = effStart
	}

	n.EffectiveStart = effStart
	n.EffectiveEnd = effEnd
	n.WorkingDays = cal.WorkingDayCount(effStart, effEnd)

	if n.Anomaly != AnomalyNone {
		log.Debug().
			Str("issue", issue.Title).
			Str("anomaly", n.Anomaly.String()).
			Time("effectiveStart", effStart).
			Time("effectiveEnd", effEnd).
			Msg("Issue normalized with anomaly")
	}
	return n
}

// NormalizeAll normalizes every issue concurrently. Issues are independent,
// so the only ordering requirement is that results come back in input order —
// group and lane ordering downstream is defined by first occurrence.
func NormalizeAll(ctx context.Context, issues []Issue, cal *Calendar) ([]NormalizedIssue, error) {
	results := make([]NormalizedIssue, len(issues))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, issue := range issues {
		i, issue := i, issue
		g.Go(func() error {
			results[i] = Normalize(issue, cal)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
