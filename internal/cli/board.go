package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonchallenge/internal/config"
	"github.com/rshade/carbonchallenge/internal/tui"
)

// NewBoardCmd creates the "board" subcommand that renders the 4x4 layout.
func NewBoardCmd() *cobra.Command {
	var (
		scenario    string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Render the board layout and tile state",
		Long: `Render the fixed 4x4 board. Tiles whose option targets average above 50%
render in their green variant. Structured output lists every tile with its
option state; --interactive drops the scenery tiles from it.`,
		Example: `  # Show the default board
  carbonchallenge board

  # Tile state after a scenario, as JSON
  carbonchallenge board --scenario plan.yaml --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd.Context(), scenario)
			if err != nil {
				return err
			}
			format, err := resolveOutputFormat(cmd, s.cfg)
			if err != nil {
				return err
			}

			tiles := s.board.Tiles
			if interactive {
				tiles = s.board.InteractiveTiles()
			}

			out := cmd.OutOrStdout()
			switch format {
			case config.FormatJSON:
				return writeJSON(out, tiles)
			case config.FormatNDJSON:
				return writeNDJSON(out, tiles)
			default:
				_, err = fmt.Fprintln(out, tui.RenderBoard(s.board.Tiles, -1))
				return err
			}
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", "", "Scenario YAML file of option edits")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Only list tiles that carry options in structured output")
	addOutputFlag(cmd)

	return cmd
}
