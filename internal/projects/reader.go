// Package projects reads GitHub Projects TSV exports and maps the raw rows
// into schedule issues. Syntactic validation (column presence, date formats)
// happens here at the boundary; semantic anomalies are the scheduling core's
// job.
package projects

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ganttinator/internal/schedule"
)

// The export's required column headers.
var requiredColumns = []string{"Title", "URL", "Assignees", "Start date", "End Date", "Milestone"}

// Date formats accepted in export cells, tried in order.
var dateFormats = []string{"2006-01-02", "Jan 2, 2006", "January 2, 2006"}

// ParseDate parses an export date cell ("2026-01-08", "Jan 8, 2026" or
// "January 8, 2026") into a midnight-UTC date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (expected 'Jan 8, 2026' or 'YYYY-MM-DD')", s)
}

// SplitAssignees splits a comma-separated assignee cell into trimmed names.
func SplitAssignees(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ReadExport reads a GitHub Projects TSV export into issues. Rows with an
// empty title are skipped with a warning; unparseable dates are warned about
// and dropped (the core records the resulting missing-date anomaly).
func ReadExport(path string) ([]schedule.Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	log.Debug().Str("path", path).Msg("Reading TSV export")
	issues, err := readExport(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read export %s: %w", path, err)
	}
	return issues, nil
}

func readExport(r io.Reader) ([]schedule.Issue, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("export file is empty")
	}
	if err != nil {
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, name string) string {
		i := columns[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var issues []schedule.Issue
	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		title := cell(row, "Title")
		if title == "" {
			log.Warn().Int("row", rowNum).Msg("Row has an empty title, skipping")
			continue
		}

		issue := schedule.Issue{
			Title:     title,
			URL:       cell(row, "URL"),
			Assignees: SplitAssignees(cell(row, "Assignees")),
			Milestone: cell(row, "Milestone"),
		}
		if len(issue.Assignees) == 0 {
			log.Warn().Int("row", rowNum).Str("title", title).Msg("Row has no assignees")
		}

		issue.Start = parseCell(rowNum, title, "start date", cell(row, "Start date"))
		issue.End = parseCell(rowNum, title, "end date", cell(row, "End Date"))

		issues = append(issues, issue)
	}
	return issues, nil
}

// parseCell parses an optional date cell, warning instead of failing on bad
// input so one malformed row cannot stop the rest of the chart.
func parseCell(rowNum int, title, field, raw string) time.Time {
	if raw == "" {
		log.Warn().Int("row", rowNum).Str("title", title).Msgf("Row has no %s", field)
		return time.Time{}
	}
	t, err := ParseDate(raw)
	if err != nil {
		log.Warn().Int("row", rowNum).Str("title", title).Str("value", raw).Msgf("Row has an invalid %s", field)
		return time.Time{}
	}
	return t
}
