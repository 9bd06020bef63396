// Package visuals renders the resolved schedule model as PlantUML Gantt
// markup. All layout decisions (lane order, group membership, working-day
// adjustment) were made upstream; this package only formats.
package visuals

import (
	"fmt"
	"strings"

	"ganttinator/internal/config"
	"ganttinator/internal/schedule"
)

const dateLayout = "2006-01-02"

// Escape replaces characters PlantUML treats as task-name delimiters.
func Escape(text string) string {
	return strings.NewReplacer("[", "(", "]", ")").Replace(text)
}

// GenerateGantt renders the model as a @startgantt block. The document
// supplies purely presentational settings: header/footer text, closed-day
// declarations, colors, display names, and the legend.
func GenerateGantt(model *schedule.ScheduleModel, doc *config.Document) string {
	var sb strings.Builder
	sb.WriteString("@startgantt\n")

	if doc.Project.Header != "" {
		sb.WriteString(fmt.Sprintf("title %s\n\n", Escape(doc.Project.Header)))
	}

	sb.WriteString(fmt.Sprintf("Project starts %s\n\n", model.Horizon.Start.Format(dateLayout)))
	sb.WriteString("printscale daily\n")

	writeClosedDays(&sb, doc.ClosedDays)
	writeLegend(&sb, doc)
	writeMilestones(&sb, model.Milestones)

	for _, lane := range model.Lanes {
		writeLane(&sb, lane, doc)
	}

	if doc.Project.Footer != "" {
		sb.WriteString(fmt.Sprintf("footer %s\n\n", Escape(doc.Project.Footer)))
	}

	sb.WriteString("@endgantt\n")
	return sb.String()
}

func writeClosedDays(sb *strings.Builder, closed config.ClosedDays) {
	for _, weekday := range closed.Weekdays {
		name := strings.ToLower(strings.TrimSpace(weekday))
		if name != "" {
			sb.WriteString(fmt.Sprintf("%s are closed\n", name))
		}
	}
	sb.WriteString("\n")

	wrote := false
	for _, date := range closed.Dates {
		if date != "" {
			sb.WriteString(fmt.Sprintf("%s is closed\n", date))
			wrote = true
		}
	}
	for _, r := range closed.DateRanges {
		if len(r) == 2 && r[0] != "" && r[1] != "" {
			sb.WriteString(fmt.Sprintf("%s to %s is closed\n", r[0], r[1]))
			wrote = true
		}
	}
	if wrote {
		sb.WriteString("\n")
	}
}

func writeLegend(sb *strings.Builder, doc *config.Document) {
	if !doc.Legend.Enabled || len(doc.Legend.Items) == 0 {
		return
	}
	sb.WriteString("legend\n")
	if doc.Legend.Title != "" {
		sb.WriteString(fmt.Sprintf("<b>%s</b>\n", Escape(doc.Legend.Title)))
	}
	for _, item := range doc.Legend.Items {
		if len(item) != 2 {
			continue
		}
		ref, color := item[0], item[1]
		var label string
		switch {
		case strings.HasPrefix(ref, "group:"):
			id := strings.TrimPrefix(ref, "group:")
			if g, ok := doc.GroupByUUID(id); ok {
				label = g.Name
			} else {
				label = fmt.Sprintf("Unknown Group (%.8s)", id)
			}
		case strings.HasPrefix(ref, "person:"):
			label = doc.PersonDisplayName(strings.TrimPrefix(ref, "person:"))
		default:
			label = ref
		}
		sb.WriteString(fmt.Sprintf("|<back:%s>    </back>| %s |\n", color, Escape(label)))
	}
	sb.WriteString("endlegend\n\n")
}

func writeMilestones(sb *strings.Builder, milestones []schedule.Milestone) {
	if len(milestones) == 0 {
		return
	}
	for _, m := range milestones {
		sb.WriteString(fmt.Sprintf("[%s] happens at %s\n", Escape(m.Name), m.Date.Format(dateLayout)))
	}
	sb.WriteString("\n")
	for _, m := range milestones {
		sb.WriteString(fmt.Sprintf("%s is colored in LightGray\n", m.Date.Format(dateLayout)))
	}
	sb.WriteString("\n")
}

func writeLane(sb *strings.Builder, lane schedule.Lane, doc *config.Document) {
	sb.WriteString(fmt.Sprintf("-- %s --\n", Escape(laneTitle(lane, doc))))

	for _, issue := range lane.Issues {
		title := Escape(issue.Title)
		sb.WriteString(fmt.Sprintf("[%s] starts %s\n", title, issue.EffectiveStart.Format(dateLayout)))
		sb.WriteString(fmt.Sprintf("[%s] ends %s\n", title, issue.EffectiveEnd.Format(dateLayout)))
		if color := taskColor(lane, issue, doc); color != "" {
			sb.WriteString(fmt.Sprintf("[%s] is colored in %s\n", title, color))
		}
	}
	sb.WriteString("\n")
}

// laneTitle picks a display name for a lane: the user-confirmed group name,
// the joined member display names, or "Unassigned" for the per-issue
// pseudo-groups.
func laneTitle(lane schedule.Lane, doc *config.Document) string {
	if lane.Group.Unassigned() {
		return "Unassigned"
	}
	if g, ok := doc.GroupByMembers(lane.Group.Members); ok && g.Name != "" {
		return g.Name
	}
	names := make([]string, 0, len(lane.Group.Members))
	for _, m := range lane.Group.Members {
		names = append(names, doc.PersonDisplayName(m))
	}
	return strings.Join(names, " & ")
}

// taskColor resolves an issue's bar color: a confirmed group color when the
// assignee set matches one, else the first assignee's color.
func taskColor(lane schedule.Lane, issue schedule.NormalizedIssue, doc *config.Document) string {
	if len(issue.Assignees) == 0 {
		return ""
	}
	if g, ok := doc.GroupByMembers(lane.Group.Members); ok && g.Color != "" {
		return g.Color
	}
	if color, ok := doc.PersonColor(issue.Assignees[0]); ok {
		return color
	}
	return ""
}
