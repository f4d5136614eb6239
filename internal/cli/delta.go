package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonchallenge/internal/config"
	"github.com/rshade/carbonchallenge/internal/engine"
	"github.com/rshade/carbonchallenge/internal/greenops"
)

// deltaParams holds the flags of the delta command.
type deltaParams struct {
	current    float64
	target     float64
	targetYear int
	weight     float64
	sink       float64
}

// NewDeltaCmd creates the "delta" subcommand that projects a single option.
func NewDeltaCmd() *cobra.Command {
	var params deltaParams

	cmd := &cobra.Command{
		Use:   "delta",
		Short: "Compute one option's emissions delta over the window",
		Long: `Compute the gigatonne delta of a single option that moves linearly from zero
towards --target by --target-year and holds it until the end of the window.

Pass --weight for an emission source (percent of baseline yearly emissions)
or --sink for a carbon sink (gigatonnes removed per year at full share).`,
		Example: `  # Residential heat pumps: 80% by 2045 on a 10.9% weight
  carbonchallenge delta --target 80 --target-year 2045 --weight 10.9

  # Direct air capture at half capacity by 2060
  carbonchallenge delta --target 50 --target-year 2060 --sink 3 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeDelta(cmd, params)
		},
	}

	cmd.Flags().Float64Var(&params.current, "current", 0, "Share (0-100) achieved today; validated but not projected")
	cmd.Flags().Float64Var(&params.target, "target", 0, "Target share (0-100)")
	cmd.Flags().IntVar(&params.targetYear, "target-year", 0, "Year the target is reached")
	cmd.Flags().Float64Var(&params.weight, "weight", 0, "Option weight as percent of baseline yearly emissions")
	cmd.Flags().Float64Var(&params.sink, "sink", 0, "Maximum CO2 sequestered per year in gigatonnes")
	addOutputFlag(cmd)

	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("target-year")
	cmd.MarkFlagsMutuallyExclusive("weight", "sink")
	cmd.MarkFlagsOneRequired("weight", "sink")

	return cmd
}

func executeDelta(cmd *cobra.Command, params deltaParams) error {
	ctx := cmd.Context()
	cfg := configFromContext(ctx)

	format, err := resolveOutputFormat(cmd, cfg)
	if err != nil {
		return err
	}
	sim, err := engine.New(cfg.EngineConfig())
	if err != nil {
		return fmt.Errorf("creating simulator: %w", err)
	}

	var res engine.DeltaResult
	if cmd.Flags().Changed("sink") {
		res, err = sim.ComputeSinkDelta(engine.SinkInput{
			Current:           params.current,
			Target:            params.target,
			TargetYear:        params.targetYear,
			MaxCO2Sequestered: params.sink,
		})
	} else {
		res, err = sim.ComputeDelta(engine.PolicyInput{
			Current:     params.current,
			Target:      params.target,
			TargetYear:  params.targetYear,
			WeightPrcnt: params.weight,
		})
	}
	if err != nil {
		return unavailable(ctx, "delta", err)
	}

	out := cmd.OutOrStdout()
	switch format {
	case config.FormatJSON:
		return writeJSON(out, res)
	case config.FormatNDJSON:
		return writeNDJSON(out, res.Series)
	default:
		return renderDeltaTable(out, res, cfg.Output.Precision)
	}
}

// renderDeltaTable prints the total and one row per decade plus the first and
// last simulated year.
func renderDeltaTable(w io.Writer, res engine.DeltaResult, precision int) error {
	if _, err := fmt.Fprintf(w, "Total delta: %s\n", formatSignedGt(res.Total, precision)); err != nil {
		return fmt.Errorf("writing total: %w", err)
	}
	if eq := greenops.DescribeAvoided(res.Total); !eq.IsEmpty {
		if _, err := fmt.Fprintln(w, eq.DisplayText); err != nil {
			return fmt.Errorf("writing equivalency: %w", err)
		}
	}
	if len(res.Series) == 0 {
		return nil
	}

	const decade = 10
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "\nYEAR\tDELTA\n----\t-----\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	last := len(res.Series) - 1
	for i, yd := range res.Series {
		if i != 0 && i != last && yd.Year%decade != 0 {
			continue
		}
		if _, err := fmt.Fprintf(tw, "%d\t%s\n", yd.Year, formatSignedGt(yd.Delta, precision)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return tw.Flush()
}
