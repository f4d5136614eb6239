package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonchallenge/internal/config"
	"github.com/rshade/carbonchallenge/internal/engine"
	"github.com/rshade/carbonchallenge/internal/greenops"
	"github.com/rshade/carbonchallenge/internal/logging"
	"github.com/rshade/carbonchallenge/internal/tui"
)

// simulateParams holds the parameters for the simulate command execution.
type simulateParams struct {
	scenario  string
	breakdown bool
	chart     bool
}

// SimulateReport is the JSON document written by simulate.
type SimulateReport struct {
	CurrentYear   int                  `json:"current_year"`
	EndYear       int                  `json:"end_year"`
	BaselineTotal float64              `json:"baseline_total"`
	Total         float64              `json:"total"`
	Change        float64              `json:"change"`
	Degrees       float64              `json:"degrees"`
	Method        engine.BudgetMethod  `json:"method"`
	Equivalency   string               `json:"equivalency,omitempty"`
	Breakdown     []engine.OptionTotal `json:"breakdown,omitempty"`
	Yearly        []YearRow            `json:"yearly"`
}

// YearRow is one simulated year in simulate output.
type YearRow struct {
	Year  int     `json:"year"`
	Total float64 `json:"total"`
}

// NewSimulateCmd creates the "simulate" subcommand that projects the board.
//
// Registered flags:
//   - --scenario: optional scenario YAML replayed onto the default board
//   - --breakdown: include each option's delta over the window
//   - --chart: append the decade chart to table output
//   - --output: table, json, or ndjson (default from configuration)
func NewSimulateCmd() *cobra.Command {
	var params simulateParams

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Project total emissions and warming for a board",
		Long: `Project the board's emissions over the simulation window and convert the
total into an end-of-century warming estimate.

Without --scenario every option stays on the "none" policy, so the projection
equals the baseline.`,
		Example: `  # Project the untouched board
  carbonchallenge simulate

  # Replay a scenario as JSON
  carbonchallenge simulate --scenario plan.yaml --output json

  # One NDJSON line per simulated year
  carbonchallenge simulate --scenario plan.yaml --output ndjson`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeSimulate(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.scenario, "scenario", "", "Scenario YAML file of option edits")
	cmd.Flags().BoolVar(&params.breakdown, "breakdown", false, "Include each option's delta over the window")
	cmd.Flags().BoolVar(&params.chart, "chart", false, "Append a yearly emissions chart to table output")
	addOutputFlag(cmd)

	return cmd
}

func executeSimulate(cmd *cobra.Command, params simulateParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	s, err := newSession(ctx, params.scenario)
	if err != nil {
		return err
	}
	format, err := resolveOutputFormat(cmd, s.cfg)
	if err != nil {
		return err
	}

	tiles := s.board.Snapshot()
	totals, err := s.sim.ComputeTotalEmissions(ctx, tiles)
	if err != nil {
		return unavailable(ctx, "simulate", err)
	}
	report := buildSimulateReport(s.sim, totals, s.sim.ThermometerFor(totals.Total), params.breakdown)

	log.Info().Ctx(ctx).
		Str("operation", "simulate").
		Float64("total_gt", report.Total).
		Float64("degrees", report.Degrees).
		Msg("simulation complete")

	out := cmd.OutOrStdout()
	switch format {
	case config.FormatJSON:
		return writeJSON(out, report)
	case config.FormatNDJSON:
		return writeNDJSON(out, report.Yearly)
	default:
		if err = renderSimulateTable(out, report, s.cfg.Output.Precision); err != nil {
			return err
		}
		if params.chart {
			_, err = fmt.Fprintf(out, "\n%s\n", tui.RenderYearlyChart(totals.Yearly, s.sim.Config().BaselineYearlyEmissions))
		}
		return err
	}
}

func buildSimulateReport(
	sim *engine.Simulator,
	totals engine.TotalEmissions,
	thermo engine.Thermometer,
	breakdown bool,
) SimulateReport {
	report := SimulateReport{
		CurrentYear:   sim.CurrentYear(),
		EndYear:       sim.EndYear(),
		BaselineTotal: sim.BaselineTotal(),
		Total:         totals.Total,
		Change:        totals.Total - sim.BaselineTotal(),
		Degrees:       thermo.Degrees,
		Method:        thermo.Method,
		Yearly:        make([]YearRow, 0, len(totals.Yearly)),
	}
	if eq := greenops.DescribeAvoided(report.Change); !eq.IsEmpty {
		report.Equivalency = eq.DisplayText
	}
	if breakdown {
		report.Breakdown = totals.OptionTotals()
	}
	for _, y := range totals.Yearly {
		report.Yearly = append(report.Yearly, YearRow{Year: y.Year, Total: y.Total})
	}
	return report
}

func renderSimulateTable(w io.Writer, r SimulateReport, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	rows := [][2]string{
		{"Window", fmt.Sprintf("%d-%d (%d years)", r.CurrentYear, r.EndYear, len(r.Yearly))},
		{"Baseline total", formatGt(r.BaselineTotal, precision)},
		{"Projected total", formatGt(r.Total, precision)},
		{"Change", formatSignedGt(r.Change, precision)},
		{"Warming by " + fmt.Sprint(r.EndYear), fmt.Sprintf("%.2f °C (%s)", r.Degrees, r.Method)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if r.Equivalency != "" {
		if _, err := fmt.Fprintf(tw, "Equivalency\t%s\n", r.Equivalency); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	if len(r.Breakdown) > 0 {
		if _, err := fmt.Fprintf(tw, "\nTILE\tOPTION\tDELTA\n----\t------\t-----\n"); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		for _, ot := range r.Breakdown {
			if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n",
				ot.TileType, ot.OptionType, formatSignedGt(ot.Delta, precision)); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}
	}

	return tw.Flush()
}
