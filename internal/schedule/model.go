package schedule

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// Milestone is a user-supplied named date.
type Milestone struct {
	Name string
	Date time.Time
}

// Lane is one horizontal row of the diagram: one assignee group and its
// issues ordered by effective start.
type Lane struct {
	Group  AssigneeGroup
	Issues []NormalizedIssue
}

// SkippedIssue records an issue excluded from the lanes, for user-visible
// reporting.
type SkippedIssue struct {
	Title  string
	Reason Anomaly
}

// ScheduleModel is the render-ready artifact: milestones ordered by date and
// one lane per group in first-occurrence order. The renderer never needs to
// re-derive lane order, group membership, or working-day adjustment.
type ScheduleModel struct {
	Horizon    Horizon
	Milestones []Milestone
	Lanes      []Lane
	Skipped    []SkippedIssue
}

// DuplicateMilestoneError reports two milestones sharing a name but not a
// date. The renderer keys milestone lines by name, so this is fatal to the
// run rather than a per-issue anomaly.
type DuplicateMilestoneError struct {
	Name   string
	First  time.Time
	Second time.Time
}

func (e *DuplicateMilestoneError) Error() string {
	return fmt.Sprintf("milestone %q has conflicting dates %s and %s",
		e.Name, e.First.Format("2006-01-02"), e.Second.Format("2006-01-02"))
}

// BuildModel composes normalized issues, their grouping, and the milestones
// into one ordered ScheduleModel. Pure and deterministic: identical inputs
// produce a structurally identical model.
func BuildModel(issues []NormalizedIssue, grouping Grouping, milestones []Milestone, horizon Horizon) (*ScheduleModel, error) {
	sorted, err := sortMilestones(milestones)
	if err != nil {
		return nil, err
	}

	model := &ScheduleModel{
		Horizon:    horizon,
		Milestones: sorted,
	}

	byGroup := make(map[string][]NormalizedIssue)
	for i, issue := range issues {
		if !issue.Drawable() {
			model.Skipped = append(model.Skipped, SkippedIssue{
				Title:  issue.Title,
				Reason: issue.Anomaly,
			})
			continue
		}
		id := grouping.ByIssue[i]
		byGroup[id] = append(byGroup[id], issue)
	}

	for _, group := range grouping.Groups {
		laneIssues := byGroup[group.ID]
		if len(laneIssues) == 0 {
			continue
		}
		slices.SortStableFunc(laneIssues, func(a, b NormalizedIssue) int {
			return a.EffectiveStart.Compare(b.EffectiveStart)
		})
		model.Lanes = append(model.Lanes, Lane{
			Group:  group,
			Issues: laneIssues,
		})
	}

	return model, nil
}

// sortMilestones orders milestones ascending by date (stable, input order
// breaks ties) and rejects one name carrying two different dates. Exact
// duplicates collapse to a single entry.
func sortMilestones(milestones []Milestone) ([]Milestone, error) {
	seen := make(map[string]time.Time)
	var out []Milestone
	for _, m := range milestones {
		prev, ok := seen[m.Name]
		if ok {
			if sameDay(prev, m.Date) {
				continue
			}
			return nil, &DuplicateMilestoneError{Name: m.Name, First: prev, Second: m.Date}
		}
		seen[m.Name] = m.Date
		out = append(out, m)
	}
	slices.SortStableFunc(out, func(a, b Milestone) int {
		return a.Date.Compare(b.Date)
	})
	return out, nil
}

// Resolve runs the full pipeline: calendar construction, per-issue
// normalization, group detection, and model building.
func Resolve(ctx context.Context, issues []Issue, rules []ClosedRule, milestones []Milestone, horizon Horizon) (*ScheduleModel, error) {
	cal := NewCalendar(rules, horizon)

	normalized, err := NormalizeAll(ctx, issues, cal)
	if err != nil {
		return nil, err
	}

	grouping := DetectGroups(normalized)
	return BuildModel(normalized, grouping, milestones, cal.Horizon())
}
