// Package tui renders the carbonchallenge terminal views: the board grid,
// thermometer, emissions summary, policy previews and the interactive play
// model built on Bubble Tea.
package tui

import "github.com/charmbracelet/lipgloss"

// ANSI 256 palette used by every view.
const (
	ColorHeader    = lipgloss.Color("39")
	ColorBorder    = lipgloss.Color("240")
	ColorLabel     = lipgloss.Color("246")
	ColorValue     = lipgloss.Color("252")
	ColorMuted     = lipgloss.Color("242")
	ColorHighlight = lipgloss.Color("213")
	ColorSpinner   = lipgloss.Color("205")

	// Status colors: OK is on track, Warning is drifting, Critical is past 2 °C.
	ColorOK       = lipgloss.Color("42")
	ColorWarning  = lipgloss.Color("214")
	ColorCritical = lipgloss.Color("196")

	// Tile colors.
	ColorGreenTile   = lipgloss.Color("34")
	ColorGreyTile    = lipgloss.Color("245")
	ColorSceneryTile = lipgloss.Color("238")
)

// Icons.
const (
	IconArrowUp    = "↑"
	IconArrowDown  = "↓"
	IconArrowRight = "→"
	IconCheck      = "✓"
	IconCursor     = "▌"
	IconBarFull    = "█"
	IconBarEmpty   = "░"
)

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorLabel)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
}

func mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}
