// Package config owns the user-editable TOML document: project settings,
// closed days, milestone dates, colors, confirmed assignee groups, and the
// stored task list that makes regeneration possible without the original
// export.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Document is the full TOML configuration.
type Document struct {
	Project    Project           `toml:"project"`
	ClosedDays ClosedDays        `toml:"closed_days"`
	Milestones map[string]string `toml:"milestones"`
	Colors     Colors            `toml:"colors"`
	Groups     []Group           `toml:"groups"`
	Legend     Legend            `toml:"legend"`
	Tasks      []Task            `toml:"tasks"`
}

// Project holds chart-wide settings. Dates are "YYYY-MM-DD" or empty.
type Project struct {
	StartDate string `toml:"start_date"`
	EndDate   string `toml:"end_date"`
	Header    string `toml:"header"`
	Footer    string `toml:"footer"`
}

// ClosedDays lists non-working time: weekday names, single dates, and
// inclusive [start, end] date ranges.
type ClosedDays struct {
	Weekdays   []string   `toml:"weekdays"`
	Dates      []string   `toml:"dates"`
	DateRanges [][]string `toml:"date_ranges"`
}

// Person maps an assignee login to a display name and a color.
type Person struct {
	Name        string `toml:"name"`
	DisplayName string `toml:"display_name"`
	Color       string `toml:"color"`
}

type Colors struct {
	Persons []Person `toml:"persons"`
}

// Group is a user-confirmed assignee group. The UUID gives the entry a
// round-trip identity the user can rename against; scheduling itself keys
// groups by membership, never by this UUID.
type Group struct {
	UUID    string   `toml:"uuid"`
	Name    string   `toml:"name"`
	Members []string `toml:"members"`
	Color   string   `toml:"color"`
}

// Legend configures the color legend block. Items are [reference, color]
// pairs where the reference is "group:<uuid>" or "person:<name>".
type Legend struct {
	Enabled bool       `toml:"enabled"`
	Title   string     `toml:"title"`
	Items   [][]string `toml:"items"`
}

// Task is one stored issue row, kept in the export's string form.
type Task struct {
	Title     string `toml:"title"`
	URL       string `toml:"url"`
	Assignees string `toml:"assignees"`
	StartDate string `toml:"start_date"`
	EndDate   string `toml:"end_date"`
	Milestone string `toml:"milestone"`
}

// Load reads a TOML configuration document.
func Load(path string) (*Document, error) {
	var doc Document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("failed to load configuration %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("tasks", len(doc.Tasks)).Msg("Configuration loaded")
	return &doc, nil
}

// Save writes the document back out as TOML.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(d); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	log.Info().Str("path", path).Msg("Configuration saved")
	return nil
}

// Paths holds output locations, overridable through the environment
// (GANTT_OUTPUT_PUML, GANTT_OUTPUT_TOML) or a .env file.
type Paths struct {
	OutputPUML string
	OutputTOML string
}

// DefaultPaths resolves output paths from the environment with sensible
// defaults.
func DefaultPaths() Paths {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded .env from working directory")
	}
	return Paths{
		OutputPUML: getEnv("GANTT_OUTPUT_PUML", "gantt.puml"),
		OutputTOML: getEnv("GANTT_OUTPUT_TOML", "gantt_config.toml"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// PersonColor returns the configured color for an assignee.
func (d *Document) PersonColor(name string) (string, bool) {
	for _, p := range d.Colors.Persons {
		if p.Name == name && p.Color != "" {
			return p.Color, true
		}
	}
	return "", false
}

// PersonDisplayName returns the display name for an assignee, falling back
// to the login itself.
func (d *Document) PersonDisplayName(name string) string {
	for _, p := range d.Colors.Persons {
		if p.Name == name && p.DisplayName != "" {
			return p.DisplayName
		}
	}
	return name
}

// GroupByUUID looks up a confirmed group by its round-trip identity.
func (d *Document) GroupByUUID(id string) (Group, bool) {
	for _, g := range d.Groups {
		if g.UUID == id {
			return g, true
		}
	}
	return Group{}, false
}

// GroupByMembers looks up a confirmed group whose membership set-equals the
// given members.
func (d *Document) GroupByMembers(members []string) (Group, bool) {
	want := make(map[string]bool, len(members))
	for _, m := range members {
		want[m] = true
	}
	for _, g := range d.Groups {
		if len(g.Members) != len(want) {
			continue
		}
		match := true
		for _, m := range g.Members {
			if !want[m] {
				match = false
				break
			}
		}
		if match {
			return g, true
		}
	}
	return Group{}, false
}
