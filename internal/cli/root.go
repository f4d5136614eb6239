// Package cli implements the carbonchallenge command line: running
// projections for a board, previewing policies, listing the catalog and the
// interactive board editor.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/carbonchallenge/internal/config"
	"github.com/rshade/carbonchallenge/internal/logging"
)

// annotationSkipConfigLoad marks commands that must run even when the config
// file is invalid. They receive the built-in defaults instead.
const annotationSkipConfigLoad = "carbonchallenge/skip-config-load"

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the carbonchallenge CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithClock(ver, time.Now)
}

// NewRootCmdWithClock creates the root command with an explicit clock. The
// clock only supplies the default current year when neither the config file,
// CARBON_CURRENT_YEAR nor --year sets one.
func NewRootCmdWithClock(ver string, now func() time.Time) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "carbonchallenge",
		Short:         "Carbon Challenge emissions projection engine",
		Long:          "carbonchallenge: Project global CO2 emissions and warming under climate policies",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, now())
			if err != nil {
				return err
			}

			result := setupLogging(cmd, cfg)
			logResult = &result
			cmd.SetContext(contextWithConfig(cmd.Context(), cfg))
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $CARBON_HOME/config.yaml or ~/.carbonchallenge/config.yaml)")
	cmd.PersistentFlags().Int("year", 0, "simulation current year (overrides config and CARBON_CURRENT_YEAR)")
	cmd.PersistentFlags().Bool("magic", false, "enable magic mode (instantaneous policies and editing current)")

	cmd.AddCommand(
		NewSimulateCmd(), NewPreviewCmd(), NewDeltaCmd(),
		NewCatalogCmd(), NewBoardCmd(), NewPlayCmd(), newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Project the untouched board
  carbonchallenge simulate

  # Replay a scenario and show the per-option breakdown
  carbonchallenge simulate --scenario plan.yaml --breakdown

  # Rank every policy for the factory tile
  carbonchallenge preview --tile 13

  # Compute a single option's delta
  carbonchallenge delta --target 80 --target-year 2045 --weight 10.9

  # Edit the board interactively
  carbonchallenge play --magic`

// loadConfig builds the effective configuration and applies the persistent
// flags on top of it.
func loadConfig(cmd *cobra.Command, now time.Time) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	if cmd.Annotations[annotationSkipConfigLoad] != "" {
		cfg = config.New(now)
		if path == "" {
			defaultPath, err := config.DefaultConfigPath()
			if err != nil {
				return nil, err
			}
			path = defaultPath
		}
		cfg.SetConfigPath(path)
	} else {
		loaded, err := config.Load(path, now)
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("year") {
		cfg.Simulation.CurrentYear, _ = cmd.Flags().GetInt("year")
	}
	if cmd.Flags().Changed("magic") {
		cfg.Settings.MagicMode, _ = cmd.Flags().GetBool("magic")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd(), NewConfigShowCmd())
	return cmd
}
