package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ganttinator/internal/projects"
	"ganttinator/internal/schedule"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ClosedRules converts the closed-days configuration into calendar rules.
// Unknown weekday names and malformed dates are configuration errors and
// rejected here, at the boundary.
func (d *Document) ClosedRules() ([]schedule.ClosedRule, error) {
	var rules []schedule.ClosedRule

	for _, name := range d.ClosedDays.Weekdays {
		trimmed := strings.ToLower(strings.TrimSpace(name))
		if trimmed == "" {
			continue
		}
		day, ok := weekdayNames[trimmed]
		if !ok {
			return nil, fmt.Errorf("unknown closed weekday %q", name)
		}
		rules = append(rules, schedule.ClosedWeekday{Day: day})
	}

	for _, raw := range d.ClosedDays.Dates {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		date, err := projects.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid closed date: %w", err)
		}
		rules = append(rules, schedule.ClosedDate{Date: date})
	}

	for _, pair := range d.ClosedDays.DateRanges {
		if len(pair) != 2 {
			return nil, fmt.Errorf("closed date range must be [start, end], got %v", pair)
		}
		start, err := projects.ParseDate(pair[0])
		if err != nil {
			return nil, fmt.Errorf("invalid closed range start: %w", err)
		}
		end, err := projects.ParseDate(pair[1])
		if err != nil {
			return nil, fmt.Errorf("invalid closed range end: %w", err)
		}
		rules = append(rules, schedule.ClosedRange{Start: start, End: end})
	}

	return rules, nil
}

// MilestoneList converts the milestone map into dated milestones, sorted by
// name for a deterministic input order. Milestones without a date are left
// out of the model (nothing to draw) but stay in the document.
func (d *Document) MilestoneList() ([]schedule.Milestone, error) {
	names := make([]string, 0, len(d.Milestones))
	for name := range d.Milestones {
		names = append(names, name)
	}
	sort.Strings(names)

	var milestones []schedule.Milestone
	for _, name := range names {
		raw := d.Milestones[name]
		if strings.TrimSpace(raw) == "" {
			continue
		}
		date, err := projects.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("milestone %q: %w", name, err)
		}
		milestones = append(milestones, schedule.Milestone{Name: name, Date: date})
	}
	return milestones, nil
}

// Issues converts the stored task rows into schedule issues. Dates were
// validated when the document was written; a corrupted cell degrades to a
// missing date for the normalizer to flag rather than failing the run.
func (d *Document) Issues() []schedule.Issue {
	issues := make([]schedule.Issue, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		issue := schedule.Issue{
			Title:     t.Title,
			URL:       t.URL,
			Assignees: projects.SplitAssignees(t.Assignees),
			Milestone: t.Milestone,
		}
		if t.StartDate != "" {
			if date, err := projects.ParseDate(t.StartDate); err == nil {
				issue.Start = date
			}
		}
		if t.EndDate != "" {
			if date, err := projects.ParseDate(t.EndDate); err == nil {
				issue.End = date
			}
		}
		issues = append(issues, issue)
	}
	return issues
}

// ResolveHorizon determines the inclusive project horizon. Explicit project
// dates win; missing bounds derive from the earliest and latest dated task
// or milestone. A derived end gets a week of slack so end dates falling on
// closed days can still advance to a working day.
func (d *Document) ResolveHorizon(issues []schedule.Issue, milestones []schedule.Milestone) (schedule.Horizon, error) {
	var earliest, latest time.Time
	observe := func(t time.Time) {
		if t.IsZero() {
			return
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
		if latest.IsZero() || t.After(latest) {
			latest = t
		}
	}
	for _, issue := range issues {
		observe(issue.Start)
		observe(issue.End)
	}
	for _, m := range milestones {
		observe(m.Date)
	}

	var h schedule.Horizon
	if d.Project.StartDate != "" {
		start, err := projects.ParseDate(d.Project.StartDate)
		if err != nil {
			return h, fmt.Errorf("project start_date: %w", err)
		}
		h.Start = start
	} else {
		h.Start = earliest
	}

	if d.Project.EndDate != "" {
		end, err := projects.ParseDate(d.Project.EndDate)
		if err != nil {
			return h, fmt.Errorf("project end_date: %w", err)
		}
		h.End = end
	} else if !latest.IsZero() {
		h.End = latest.AddDate(0, 0, 7)
	}

	if h.Start.IsZero() || h.End.IsZero() {
		return h, fmt.Errorf("cannot determine project horizon: no project dates configured and no task or milestone carries a date")
	}
	if h.End.Before(h.Start) {
		return h, fmt.Errorf("project horizon is inverted: %s to %s",
			h.Start.Format("2006-01-02"), h.End.Format("2006-01-02"))
	}
	return h, nil
}
