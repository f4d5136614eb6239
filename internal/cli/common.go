package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonchallenge/internal/board"
	"github.com/rshade/carbonchallenge/internal/catalog"
	"github.com/rshade/carbonchallenge/internal/config"
	"github.com/rshade/carbonchallenge/internal/engine"
	"github.com/rshade/carbonchallenge/internal/greenops"
	"github.com/rshade/carbonchallenge/internal/logging"
)

// tabPadding is the minimum padding between tabwriter columns.
const tabPadding = 2

// ErrFeatureUnavailable marks a projection that could not be computed. The
// command prints no partial figures when it is returned.
var ErrFeatureUnavailable = errors.New("feature unavailable")

type configKey struct{}

func contextWithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFromContext returns the configuration stored by the root command, or
// the built-in defaults when a subcommand runs without it.
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
		return cfg
	}
	return config.New(time.Now())
}

// session is everything a command needs to project one board.
type session struct {
	cfg      *config.Config
	registry *catalog.Registry
	board    *board.Board
	sim      *engine.Simulator
}

// newSession seeds a board from the catalog and, when scenarioPath is set,
// replays the scenario onto it.
func newSession(ctx context.Context, scenarioPath string) (*session, error) {
	cfg := configFromContext(ctx)

	reg, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	sim, err := engine.New(cfg.EngineConfig())
	if err != nil {
		return nil, fmt.Errorf("creating simulator: %w", err)
	}
	b, err := board.New(reg, catalog.DefaultBoardLayout(), cfg.Window(), cfg.BoardSettings())
	if err != nil {
		return nil, fmt.Errorf("creating board: %w", err)
	}

	if scenarioPath != "" {
		scenario, loadErr := board.LoadScenarioFile(scenarioPath)
		if loadErr != nil {
			return nil, loadErr
		}
		if applyErr := b.ApplyScenario(ctx, scenario); applyErr != nil {
			return nil, fmt.Errorf("applying scenario %s: %w", scenarioPath, applyErr)
		}
	}

	return &session{cfg: cfg, registry: reg, board: b, sim: sim}, nil
}

// unavailable logs a failed projection and wraps it in ErrFeatureUnavailable.
func unavailable(ctx context.Context, operation string, err error) error {
	logging.FromContext(ctx).Error().
		Ctx(ctx).
		Str("operation", operation).
		Err(err).
		Msg("projection failed")
	return fmt.Errorf("%w: %w", ErrFeatureUnavailable, err)
}

// resolveOutputFormat returns the --output value, falling back to the
// configured default.
func resolveOutputFormat(cmd *cobra.Command, cfg *config.Config) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	switch format {
	case config.FormatTable, config.FormatJSON, config.FormatNDJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().String("output", "", "Output format: table, json, or ndjson (default from configuration)")
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// writeNDJSON writes each row as a separate JSON line with no wrapper.
func writeNDJSON[T any](w io.Writer, rows []T) error {
	for _, row := range rows {
		data, marshalErr := json.Marshal(row)
		if marshalErr != nil {
			return fmt.Errorf("marshaling row: %w", marshalErr)
		}
		if _, writeErr := fmt.Fprintf(w, "%s\n", data); writeErr != nil {
			return fmt.Errorf("writing NDJSON line: %w", writeErr)
		}
	}
	return nil
}

// formatGt formats gigatonnes with thousands separators.
func formatGt(v float64, precision int) string {
	return greenops.FormatGigatonnes(v, precision)
}

// formatSignedGt formats a gigatonne change with an explicit plus sign for
// increases.
func formatSignedGt(v float64, precision int) string {
	s := formatGt(v, precision)
	if v > 0 && s[0] != '0' {
		return "+" + s
	}
	return s
}
