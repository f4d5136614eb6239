package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonchallenge/internal/board"
	"github.com/rshade/carbonchallenge/internal/catalog"
	"github.com/rshade/carbonchallenge/internal/config"
	"github.com/rshade/carbonchallenge/internal/engine"
	"github.com/rshade/carbonchallenge/internal/logging"
)

// PreviewReport is the JSON document written by preview.
type PreviewReport struct {
	TileID   int                    `json:"tile_id"`
	TileType catalog.TileType       `json:"tile_type"`
	Previews []engine.PolicyPreview `json:"previews"`
	Active   []catalog.PolicyKey    `json:"active"`
}

// NewPreviewCmd creates the "preview" subcommand that ranks every policy of
// one tile by the delta it would produce on its own.
func NewPreviewCmd() *cobra.Command {
	var (
		tileID   int
		scenario string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Rank the policies of one tile by their emissions delta",
		Long: `Compute what each catalog policy of a tile would change on its own, starting
from a blank option, and rank them from largest reduction to smallest.

The tile's live option state is ignored except to mark the policies that are
currently applied.`,
		Example: `  # Rank the factory tile's policies
  carbonchallenge preview --tile 13

  # Mark the policies a scenario applies
  carbonchallenge preview --tile 5 --scenario plan.yaml --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := newSession(ctx, scenario)
			if err != nil {
				return err
			}
			format, err := resolveOutputFormat(cmd, s.cfg)
			if err != nil {
				return err
			}
			tile, err := s.board.Tile(tileID)
			if err != nil {
				return err
			}

			previews, err := s.sim.PreviewAllPolicies(ctx, tile)
			if err != nil {
				return unavailable(ctx, "preview", err)
			}
			report := buildPreviewReport(tile, engine.RankPolicies(previews))

			logging.FromContext(ctx).Debug().Ctx(ctx).
				Str("operation", "preview").
				Int("tile_id", tile.ID).
				Int("policies", len(report.Previews)).
				Msg("previews computed")

			out := cmd.OutOrStdout()
			switch format {
			case config.FormatJSON:
				return writeJSON(out, report)
			case config.FormatNDJSON:
				return writeNDJSON(out, report.Previews)
			default:
				return renderPreviewTable(out, report)
			}
		},
	}

	cmd.Flags().IntVar(&tileID, "tile", 0, "Tile id (0-15, row-major)")
	cmd.Flags().StringVar(&scenario, "scenario", "", "Scenario YAML file of option edits")
	addOutputFlag(cmd)
	_ = cmd.MarkFlagRequired("tile")

	return cmd
}

func buildPreviewReport(tile *board.Tile, ranked []engine.PolicyPreview) PreviewReport {
	report := PreviewReport{
		TileID:   tile.ID,
		TileType: tile.Type,
		Previews: ranked,
		Active:   []catalog.PolicyKey{},
	}
	seen := map[catalog.PolicyKey]bool{}
	for _, opt := range tile.SortedOptions() {
		if !seen[opt.CurrPolicyKey] {
			seen[opt.CurrPolicyKey] = true
			report.Active = append(report.Active, opt.CurrPolicyKey)
		}
	}
	return report
}

func renderPreviewTable(w io.Writer, r PreviewReport) error {
	active := make(map[catalog.PolicyKey]bool, len(r.Active))
	for _, k := range r.Active {
		active[k] = true
	}

	if _, err := fmt.Fprintf(w, "Tile %d (%s)\n\n", r.TileID, r.TileType); err != nil {
		return fmt.Errorf("writing title: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "POLICY\tDELTA\tACTIVE\n------\t-----\t------\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, p := range r.Previews {
		mark := ""
		if active[p.Key] {
			mark = "*"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Key, formatSignedGt(p.Delta, 0), mark); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return tw.Flush()
}
