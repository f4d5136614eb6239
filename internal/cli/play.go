package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/carbonchallenge/internal/tui"
)

// ErrNotInteractive is returned when play runs without a terminal on stdin.
var ErrNotInteractive = errors.New("play requires an interactive terminal")

// NewPlayCmd creates the "play" subcommand that opens the interactive board
// editor.
func NewPlayCmd() *cobra.Command {
	var scenario string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Edit the board interactively",
		Long: `Open the interactive board editor. Move over the grid with the arrow keys,
open a tile with Enter, cycle its policies with left and right, and type
custom targets with t and y. The thermometer and emissions summary update on
every change.

Magic policies are only offered with --magic.`,
		Example: `  # Start from the default board
  carbonchallenge play

  # Continue from a scenario with magic mode on
  carbonchallenge play --scenario plan.yaml --magic`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) {
				return ErrNotInteractive
			}

			ctx := cmd.Context()
			s, err := newSession(ctx, scenario)
			if err != nil {
				return err
			}

			model := tui.NewPlayModel(ctx, s.board, s.sim, s.cfg.Output.Precision)
			p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
			if _, err = p.Run(); err != nil {
				return fmt.Errorf("running board editor: %w", err)
			}

			th := model.Thermometer()
			cmd.Printf("Final projection: %s, %.2f °C by %d\n",
				formatGt(th.TotalGigatonnes, s.cfg.Output.Precision), th.Degrees, s.sim.EndYear())
			return nil
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", "", "Scenario YAML file to start from")

	return cmd
}
