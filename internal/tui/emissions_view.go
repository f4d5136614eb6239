package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/carbonchallenge/internal/catalog"
	"github.com/rshade/carbonchallenge/internal/engine"
	"github.com/rshade/carbonchallenge/internal/greenops"
)

// Layout constants.
const (
	labelWidth        = 12
	policyKeyWidth    = 40
	separatorWidth    = 56
	chartBarWidth     = 30
	chartDecadeStep   = 10
	thermoSegments    = 20
	thermoScaleDegree = 5.0

	// Warming thresholds for thermometer colors.
	warmingTarget = 1.5
	warmingLimit  = 2.0
)

// RenderDelta renders a gigatonne delta with sign and directional arrow.
//
// Returns a styled string with:
//   - "+" prefix and ↑ arrow for increases (warning color)
//   - ↓ arrow for reductions (OK color)
//   - → arrow for no change (muted color)
func RenderDelta(deltaGt float64, precision int) string {
	scale := math.Pow(10, float64(precision))
	rounded := math.Round(deltaGt*scale) / scale

	var icon, sign string
	var color lipgloss.Color

	switch {
	case rounded > 0:
		icon = IconArrowUp
		sign = "+"
		color = ColorWarning
	case rounded < 0:
		icon = IconArrowDown
		sign = "-"
		color = ColorOK
	default:
		icon = IconArrowRight
		color = ColorMuted
	}

	formatted := greenops.FormatGigatonnes(math.Abs(rounded), precision)
	style := lipgloss.NewStyle().Foreground(color).Bold(true)
	return style.Render(fmt.Sprintf("%s%s %s", sign, formatted, icon))
}

// warmingColor picks the thermometer color for degrees.
func warmingColor(degrees float64) lipgloss.Color {
	switch {
	case degrees < warmingTarget:
		return ColorOK
	case degrees < warmingLimit:
		return ColorWarning
	default:
		return ColorCritical
	}
}

// RenderThermometer renders the warming estimate as a horizontal gauge from
// 0 to 5 °C.
func RenderThermometer(th engine.Thermometer) string {
	filled := int(math.Round(th.Degrees / thermoScaleDegree * thermoSegments))
	filled = max(0, min(thermoSegments, filled))

	color := warmingColor(th.Degrees)
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(IconBarFull, filled)) +
		mutedStyle().Render(strings.Repeat(IconBarEmpty, thermoSegments-filled))

	var sb strings.Builder
	sb.WriteString(labelStyle().Render("Warming by 2100: "))
	sb.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("%+.2f °C", th.Degrees)))
	sb.WriteString("\n")
	sb.WriteString(bar)
	sb.WriteString(mutedStyle().Render(fmt.Sprintf(" (%s)", th.Method)))
	return sb.String()
}

// RenderEmissionsSummary renders baseline versus projected totals, the
// change between them and an equivalency for any avoided emissions.
func RenderEmissionsSummary(res engine.TotalEmissions, baselineTotal float64, precision int) string {
	var sb strings.Builder

	sb.WriteString(headerStyle().Render("Emissions"))
	sb.WriteString("\n")

	writeRow := func(label, value string) {
		sb.WriteString(labelStyle().Render(fmt.Sprintf("%-*s", labelWidth, label)))
		sb.WriteString(value)
		sb.WriteString("\n")
	}
	writeRow("Baseline:", valueStyle().Render(greenops.FormatGigatonnes(baselineTotal, precision)))
	writeRow("Projected:", valueStyle().Render(greenops.FormatGigatonnes(res.Total, precision)))

	change := res.Total - baselineTotal
	writeRow("Change:", RenderDelta(change, precision))

	if eq := greenops.DescribeAvoided(change); !eq.IsEmpty {
		sb.WriteString(mutedStyle().Italic(true).Render(eq.DisplayText))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderPolicyPreviews renders ranked previews. Policies in active are
// marked as currently applied.
func RenderPolicyPreviews(previews []engine.PolicyPreview, active map[catalog.PolicyKey]bool) string {
	if len(previews) == 0 {
		return mutedStyle().Italic(true).Render("No policies to preview")
	}

	var sb strings.Builder
	sb.WriteString(headerStyle().Render("Policy previews"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", separatorWidth))
	sb.WriteString("\n")

	for _, p := range previews {
		marker := "  "
		keyStyle := labelStyle()
		if active[p.Key] {
			marker = IconCheck + " "
			keyStyle = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
		}
		sb.WriteString(marker)
		sb.WriteString(keyStyle.Render(fmt.Sprintf("%-*s", policyKeyWidth, truncate(string(p.Key), policyKeyWidth))))
		sb.WriteString(RenderDelta(p.Delta, 0))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderYearlyChart renders one bar per decade, scaled against baseline
// yearly emissions. Years with net removal render an empty bar.
func RenderYearlyChart(yearly []engine.YearEmissions, baselineYearly float64) string {
	if len(yearly) == 0 || baselineYearly <= 0 {
		return mutedStyle().Italic(true).Render("No yearly data")
	}

	var sb strings.Builder
	sb.WriteString(headerStyle().Render("Yearly emissions"))
	sb.WriteString("\n")

	last := len(yearly) - 1
	for i, y := range yearly {
		if i != 0 && i != last && y.Year%chartDecadeStep != 0 {
			continue
		}
		ratio := max(0, y.Total) / baselineYearly
		filled := min(chartBarWidth, int(math.Round(ratio*chartBarWidth)))

		sb.WriteString(labelStyle().Render(fmt.Sprintf("%d ", y.Year)))
		sb.WriteString(lipgloss.NewStyle().Foreground(warmingBarColor(ratio)).Render(strings.Repeat(IconBarFull, filled)))
		sb.WriteString(strings.Repeat(" ", chartBarWidth-filled))
		sb.WriteString(valueStyle().Render(" "+greenops.FormatGigatonnes(y.Total, 1)))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// warmingBarColor colors a yearly bar by its share of the baseline.
func warmingBarColor(ratio float64) lipgloss.Color {
	const (
		okRatio      = 0.25
		warningRatio = 0.75
	)
	switch {
	case ratio <= okRatio:
		return ColorOK
	case ratio <= warningRatio:
		return ColorWarning
	default:
		return ColorCritical
	}
}

// truncate truncates a string to the specified length with ellipsis.
// Uses rune-aware counting to properly handle multi-byte UTF-8 characters.
func truncate(s string, maxLen int) string {
	const minTruncateLen = 3
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= minTruncateLen {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-minTruncateLen]) + "..."
}
