package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/carbonchallenge/internal/board"
	"github.com/rshade/carbonchallenge/internal/catalog"
)

const (
	tileCellWidth   = 9
	optionNameWidth = 30
)

// RenderBoard renders tiles as a GridWidth×GridWidth grid. The tile at
// selected is outlined; pass -1 for no selection. Tiles whose options are
// mostly green render in the green variant.
func RenderBoard(tiles []*board.Tile, selected int) string {
	if len(tiles) == 0 {
		return mutedStyle().Italic(true).Render("Empty board")
	}

	rows := make([]string, 0, (len(tiles)+catalog.GridWidth-1)/catalog.GridWidth)
	for start := 0; start < len(tiles); start += catalog.GridWidth {
		end := min(start+catalog.GridWidth, len(tiles))
		cells := make([]string, 0, catalog.GridWidth)
		for i := start; i < end; i++ {
			cells = append(cells, renderTileCell(tiles[i], i == selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderTileCell(tile *board.Tile, selected bool) string {
	color := ColorGreyTile
	switch {
	case tile == nil || tile.IsScenery():
		color = ColorSceneryTile
	case tile.IsGreenVariant():
		color = ColorGreenTile
	}

	label := ""
	if tile != nil {
		label = string(tile.Type)
	}

	style := lipgloss.NewStyle().
		Width(tileCellWidth).
		Align(lipgloss.Center).
		Foreground(color).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder)
	if selected {
		style = style.Border(lipgloss.ThickBorder()).BorderForeground(ColorHighlight).Bold(true)
	}
	return style.Render(label)
}

// RenderTileOptions lists a tile's options with their current trajectory.
// The option at focused is marked; pass -1 for none.
func RenderTileOptions(tile *board.Tile, focused int) string {
	if tile == nil || len(tile.Options) == 0 {
		return mutedStyle().Italic(true).Render("Nothing to edit on this tile")
	}

	var sb strings.Builder
	sb.WriteString(headerStyle().Render(string(tile.Type)))
	sb.WriteString("\n")

	for i, opt := range tile.SortedOptions() {
		if i == focused {
			sb.WriteString(IconArrowRight + " ")
		} else {
			sb.WriteString("  ")
		}
		sb.WriteString(labelStyle().Render(padRight(string(opt.OptionType), optionNameWidth)))
		sb.WriteString(valueStyle().Render(optionSummary(opt)))
		sb.WriteString(mutedStyle().Render("  " + string(opt.CurrPolicyKey)))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func optionSummary(opt *board.Option) string {
	return fmt.Sprintf("%5.1f%% by %d", opt.Target, opt.TargetYear)
}

func padRight(s string, width int) string {
	s = truncate(s, width)
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
