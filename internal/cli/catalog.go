package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonchallenge/internal/catalog"
	"github.com/rshade/carbonchallenge/internal/config"
)

// CatalogReport is the JSON document written by catalog.
type CatalogReport struct {
	Version      string                   `json:"version"`
	HorizonYear  int                      `json:"horizon_year"`
	TotalOptions int                      `json:"total_options"`
	Options      []catalog.OptionTemplate `json:"options"`
}

// NewCatalogCmd creates the "catalog" subcommand that lists every tile type,
// its options, their weights and the policies a player can apply.
func NewCatalogCmd() *cobra.Command {
	var tileType string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List tile types, options, weights and policies",
		Example: `  # Full catalog as a table
  carbonchallenge catalog

  # Only the home tile, as JSON
  carbonchallenge catalog --tile-type home --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFromContext(cmd.Context())
			format, err := resolveOutputFormat(cmd, cfg)
			if err != nil {
				return err
			}

			reg, err := catalog.Default()
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}
			report, err := buildCatalogReport(reg, catalog.TileType(tileType))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case config.FormatJSON:
				return writeJSON(out, report)
			case config.FormatNDJSON:
				return writeNDJSON(out, report.Options)
			default:
				return renderCatalogTable(out, report)
			}
		},
	}

	cmd.Flags().StringVar(&tileType, "tile-type", "", "Only list options of this tile type")
	addOutputFlag(cmd)

	return cmd
}

func buildCatalogReport(reg *catalog.Registry, only catalog.TileType) (CatalogReport, error) {
	report := CatalogReport{
		Version:      reg.Version(),
		HorizonYear:  reg.HorizonYear(),
		TotalOptions: reg.OptionCount(),
		Options:      []catalog.OptionTemplate{},
	}

	types := reg.TileTypes()
	if only != "" {
		if !only.IsKnown() {
			return CatalogReport{}, fmt.Errorf("unknown tile type %q", only)
		}
		types = []catalog.TileType{only}
	}
	for _, t := range types {
		report.Options = append(report.Options, reg.Options(t)...)
	}
	return report, nil
}

func renderCatalogTable(w io.Writer, r CatalogReport) error {
	if _, err := fmt.Fprintf(w, "Catalog %s (horizon %d, showing %d of %d options)\n\n",
		r.Version, r.HorizonYear, len(r.Options), r.TotalOptions); err != nil {
		return fmt.Errorf("writing title: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "TILE\tOPTION\tWEIGHT\tPOLICIES\n----\t------\t------\t--------\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, opt := range r.Options {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			opt.TileType, opt.OptionType, formatWeight(opt), formatPolicies(opt.Policies)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return tw.Flush()
}

func formatWeight(opt catalog.OptionTemplate) string {
	switch {
	case opt.WeightPrcnt != nil:
		return fmt.Sprintf("%.2f%%", *opt.WeightPrcnt)
	case opt.MaxCO2Sequestered != nil:
		return fmt.Sprintf("sink %.1f Gt/yr", *opt.MaxCO2Sequestered)
	default:
		return "-"
	}
}

// formatPolicies lists catalog policies, leaving out the none and custom
// sentinels every option carries.
func formatPolicies(policies []catalog.Policy) string {
	names := make([]string, 0, len(policies))
	for _, p := range policies {
		if p.Key.IsSentinel() {
			continue
		}
		names = append(names, p.String())
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
