package config

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"ganttinator/internal/schedule"
)

// palette of chart-friendly colors handed out to persons and groups in the
// scaffolded document. Users edit the TOML to taste afterwards.
var palette = []string{
	"LightBlue",
	"LightGreen",
	"LightCoral",
	"LightGoldenRodYellow",
	"LightPink",
	"LightSalmon",
	"LightSeaGreen",
	"LightSkyBlue",
	"LightSteelBlue",
	"PaleGreen",
	"PaleTurquoise",
	"PeachPuff",
	"Plum",
	"PowderBlue",
	"Thistle",
}

const fallbackColor = "LightGray"

// ScaffoldOptions carries the one-shot inputs the user supplies on first
// generation.
type ScaffoldOptions struct {
	ProjectStartDate    string
	Header              string
	Footer              string
	LegendTitle         string
	MilestoneDates      map[string]string
	MinGroupOccurrences int
}

// Scaffold builds a fresh configuration document from an export: detected
// frequent groups and all individual assignees get palette colors and legend
// entries, milestones found on the issues get (possibly empty) date slots,
// and the tasks themselves are stored for later regeneration.
func Scaffold(issues []schedule.Issue, opts ScaffoldOptions) *Document {
	if opts.MinGroupOccurrences < 1 {
		opts.MinGroupOccurrences = 2
	}

	doc := &Document{
		Project: Project{
			StartDate: opts.ProjectStartDate,
			Header:    opts.Header,
			Footer:    opts.Footer,
		},
		ClosedDays: ClosedDays{
			Weekdays:   []string{"saturday", "sunday"},
			Dates:      []string{},
			DateRanges: [][]string{},
		},
		Milestones: map[string]string{},
		Legend: Legend{
			Enabled: true,
			Title:   opts.LegendTitle,
			Items:   [][]string{},
		},
	}

	// Collect every individual assignee, sorted for stable color handout.
	seen := make(map[string]bool)
	var persons []string
	for _, issue := range issues {
		for _, a := range issue.Assignees {
			if !seen[a] {
				seen[a] = true
				persons = append(persons, a)
			}
		}
	}
	sort.Strings(persons)

	colorIndex := 0
	nextColor := func(fallback string) string {
		if colorIndex < len(palette) {
			c := palette[colorIndex]
			colorIndex++
			return c
		}
		return fallback
	}

	for _, name := range persons {
		doc.Colors.Persons = append(doc.Colors.Persons, Person{
			Name:  name,
			Color: nextColor(fallbackColor),
		})
	}

	for _, members := range schedule.FrequentGroups(issues, opts.MinGroupOccurrences) {
		doc.Groups = append(doc.Groups, Group{
			UUID:    uuid.NewString(),
			Name:    strings.Join(members, " & "),
			Members: members,
			Color:   nextColor(""),
		})
	}

	// Milestone date slots: caller-supplied dates first, empty otherwise.
	for _, issue := range issues {
		if issue.Milestone == "" {
			continue
		}
		if _, ok := doc.Milestones[issue.Milestone]; !ok {
			doc.Milestones[issue.Milestone] = opts.MilestoneDates[issue.Milestone]
		}
	}

	// Legend references groups by UUID (rename-safe) and persons by login.
	for _, g := range doc.Groups {
		doc.Legend.Items = append(doc.Legend.Items, []string{"group:" + g.UUID, g.Color})
	}
	for _, p := range doc.Colors.Persons {
		doc.Legend.Items = append(doc.Legend.Items, []string{"person:" + p.Name, p.Color})
	}

	for _, issue := range issues {
		task := Task{
			Title:     issue.Title,
			URL:       issue.URL,
			Assignees: strings.Join(issue.Assignees, ", "),
			Milestone: issue.Milestone,
		}
		if !issue.Start.IsZero() {
			task.StartDate = issue.Start.Format("2006-01-02")
		}
		if !issue.End.IsZero() {
			task.EndDate = issue.End.Format("2006-01-02")
		}
		doc.Tasks = append(doc.Tasks, task)
	}

	return doc
}
