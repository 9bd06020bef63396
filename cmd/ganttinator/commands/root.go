package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ganttinator/internal/config"
	"ganttinator/internal/logging"
	"ganttinator/internal/projects"
	"ganttinator/internal/schedule"
	"ganttinator/internal/visuals"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool

	inputTSV         string
	inputTOML        string
	outputPUML       string
	outputTOML       string
	projectStartDate string
	header           string
	footer           string
	legendTitle      string
	milestoneDates   []string
	minOccurrences   int
)

var rootCmd = &cobra.Command{
	Use:   "ganttinator",
	Short: "Ganttinator turns GitHub Projects exports into PlantUML Gantt diagrams",
	Long: `Ganttinator reads a GitHub Projects TSV export, detects recurring assignee
groups, resolves every issue onto a working-day calendar, and writes both a
PlantUML Gantt diagram and an editable TOML configuration. Rerun it against
the TOML to regenerate the diagram after tweaking dates, colors, or groups.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Ganttinator starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if (inputTSV == "") == (inputTOML == "") {
			return fmt.Errorf("exactly one of --input-tsv or --input-toml must be specified")
		}

		paths := config.DefaultPaths()
		if !cmd.Flags().Changed("output-puml") {
			outputPUML = paths.OutputPUML
		}
		if !cmd.Flags().Changed("output-toml") {
			outputTOML = paths.OutputTOML
		}

		if inputTOML != "" {
			doc, err := config.Load(inputTOML)
			if err != nil {
				return err
			}
			return generate(cmd.Context(), doc)
		}
		return generateFromExport(cmd.Context())
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.Flags().StringVar(&inputTSV, "input-tsv", "", "path to the GitHub Projects TSV export")
	rootCmd.Flags().StringVar(&inputTOML, "input-toml", "", "path to an existing TOML configuration")
	rootCmd.Flags().StringVar(&outputPUML, "output-puml", "gantt.puml", "path for the generated PlantUML diagram")
	rootCmd.Flags().StringVar(&outputTOML, "output-toml", "gantt_config.toml", "path for the generated TOML configuration")
	rootCmd.Flags().StringVar(&projectStartDate, "project-start-date", "", "project start date ('Jan 8, 2026' or 'YYYY-MM-DD')")
	rootCmd.Flags().StringVar(&header, "header", "", "diagram header text")
	rootCmd.Flags().StringVar(&footer, "footer", "", "diagram footer text")
	rootCmd.Flags().StringVar(&legendTitle, "legend-title", "", "legend title text")
	rootCmd.Flags().StringArrayVar(&milestoneDates, "milestone", nil, "milestone due date as 'Name=YYYY-MM-DD' (repeatable)")
	rootCmd.Flags().IntVar(&minOccurrences, "min-group-occurrences", 2, "co-assignments needed before a set counts as a group")
}

// generateFromExport is the first-run mode: parse the export, scaffold a
// configuration, save it, and render the diagram.
func generateFromExport(ctx context.Context) error {
	issues, err := projects.ReadExport(inputTSV)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		return fmt.Errorf("no valid tasks found in %s", inputTSV)
	}
	log.Info().Int("tasks", len(issues)).Str("path", inputTSV).Msg("Export read")

	startDate := ""
	if projectStartDate != "" {
		parsed, err := projects.ParseDate(projectStartDate)
		if err != nil {
			return fmt.Errorf("invalid --project-start-date: %w", err)
		}
		startDate = parsed.Format("2006-01-02")
	}

	milestones, err := parseMilestoneFlags(milestoneDates)
	if err != nil {
		return err
	}

	doc := config.Scaffold(issues, config.ScaffoldOptions{
		ProjectStartDate:    startDate,
		Header:              header,
		Footer:              footer,
		LegendTitle:         legendTitle,
		MilestoneDates:      milestones,
		MinGroupOccurrences: minOccurrences,
	})
	for _, g := range doc.Groups {
		log.Info().Str("group", g.Name).Msg("Detected frequent assignee group")
	}

	if err := doc.Save(outputTOML); err != nil {
		return err
	}
	return generate(ctx, doc)
}

// generate resolves the schedule from a configuration document and writes
// the PlantUML diagram.
func generate(ctx context.Context, doc *config.Document) error {
	issues := doc.Issues()
	if len(issues) == 0 {
		return fmt.Errorf("configuration contains no tasks")
	}

	rules, err := doc.ClosedRules()
	if err != nil {
		return err
	}
	milestones, err := doc.MilestoneList()
	if err != nil {
		return err
	}
	horizon, err := doc.ResolveHorizon(issues, milestones)
	if err != nil {
		return err
	}

	model, err := schedule.Resolve(ctx, issues, rules, milestones, horizon)
	if err != nil {
		return err
	}
	for _, skipped := range model.Skipped {
		log.Warn().Str("title", skipped.Title).Str("reason", skipped.Reason.String()).Msg("Task left out of the diagram")
	}

	out := visuals.GenerateGantt(model, doc)
	if err := os.WriteFile(outputPUML, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write diagram: %w", err)
	}
	log.Info().Str("path", outputPUML).Int("lanes", len(model.Lanes)).Msg("PlantUML diagram written")
	log.Info().Msgf("To render the image, run: plantuml %s", outputPUML)
	return nil
}

func parseMilestoneFlags(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	dates := make(map[string]string, len(flags))
	for _, raw := range flags {
		name, value, found := strings.Cut(raw, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid --milestone %q, expected 'Name=YYYY-MM-DD'", raw)
		}
		parsed, err := projects.ParseDate(value)
		if err != nil {
			return nil, fmt.Errorf("invalid --milestone %q: %w", raw, err)
		}
		dates[name] = parsed.Format("2006-01-02")
	}
	return dates, nil
}
