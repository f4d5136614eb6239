package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/rshade/carbonchallenge/internal/catalog"
	"github.com/rshade/carbonchallenge/internal/cli"
	"github.com/rshade/carbonchallenge/internal/config"
	"github.com/rshade/carbonchallenge/internal/engine"
)

func testClock() time.Time {
	return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
}

// setupCLITest isolates the config directory and silences logging.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	return home
}

// executeRoot runs the root command and returns stdout and stderr.
func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmdWithClock("test", testClock)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const freightScenario = `tiles:
  - id: 13
    options:
      freightRoadTransport:
        policy: factoryElectricFreightRequirement2050
`

func TestRootCmd(t *testing.T) {
	setupCLITest(t)
	root := cli.NewRootCmd("1.2.3")
	assert.Equal(t, "carbonchallenge", root.Use)
	assert.Equal(t, "1.2.3", root.Version)

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"simulate", "preview", "delta", "catalog", "board", "play", "config"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvEndYear, "2000")

	_, _, err := executeRoot(t, "simulate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading configuration")
}

func TestSimulate_DefaultBoard(t *testing.T) {
	setupCLITest(t)

	out, _, err := executeRoot(t, "simulate")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-2100 (77 years)")
	assert.Contains(t, out, "3,803.8 Gt")
	assert.Contains(t, out, "7.61 °C (linear_estimate)")
	assert.NotContains(t, out, "Equivalency")
}

func TestSimulate_ScenarioJSON(t *testing.T) {
	setupCLITest(t)
	path := writeScenario(t, freightScenario)

	out, _, err := executeRoot(t, "simulate", "--scenario", path, "--breakdown", "--output", "json")
	require.NoError(t, err)

	var report cli.SimulateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2024, report.CurrentYear)
	assert.Len(t, report.Yearly, 77)
	assert.Less(t, report.Total, report.BaselineTotal)
	assert.InDelta(t, report.Total-report.BaselineTotal, report.Change, 1e-9)
	assert.NotEmpty(t, report.Equivalency)

	require.NotEmpty(t, report.Breakdown)
	assert.Equal(t, catalog.OptionFreightRoadTransport, report.Breakdown[0].OptionType)
	assert.InDelta(t, report.Change, report.Breakdown[0].Delta, 1e-6)
}

func TestSimulate_NDJSON(t *testing.T) {
	setupCLITest(t)

	out, _, err := executeRoot(t, "simulate", "--output", "ndjson")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 77)
	var first cli.YearRow
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, 2024, first.Year)
	assert.InDelta(t, engine.OrigYearlyEmissionsGigaTonnes, first.Total, 1e-9)
}

func TestSimulate_BreakdownAndChart(t *testing.T) {
	setupCLITest(t)
	path := writeScenario(t, freightScenario)

	out, _, err := executeRoot(t, "simulate", "--scenario", path, "--breakdown", "--chart")
	require.NoError(t, err)
	assert.Contains(t, out, "freightRoadTransport")
	assert.Regexp(t, `Equivalency\s+Equivalent to taking ~[0-9.]+ (million|billion) cars off the road`, out)
	assert.NotContains(t, out, "~~")
	assert.Contains(t, out, "Yearly emissions")
}

func TestSimulate_YearFlag(t *testing.T) {
	setupCLITest(t)

	out, _, err := executeRoot(t, "simulate", "--year", "2050", "--output", "json")
	require.NoError(t, err)

	var report cli.SimulateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2050, report.CurrentYear)
	assert.Len(t, report.Yearly, 51)
}

func TestSimulate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		scenario string
		errorMsg string
	}{
		{"missing scenario file", []string{"--scenario", "/nonexistent/plan.yaml"}, "", "opening scenario"},
		{"unknown policy", nil, "tiles:\n  - id: 13\n    options:\n      shipping:\n        policy: sails\n", "unknown policy"},
		{"magic without magic mode", nil,
			"tiles:\n  - id: 5\n    options:\n      energyResidential:\n        policy: instantHomeRetrofit\n",
			"magic mode is disabled"},
		{"unknown output", []string{"--output", "xml"}, "", "unsupported output format"},
		{"malformed scenario", nil, "tiles:\n  - id: -3\n", "invalid scenario document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			args := append([]string{"simulate"}, tt.args...)
			if tt.scenario != "" {
				args = append(args, "--scenario", writeScenario(t, tt.scenario))
			}
			stdout, _, err := executeRoot(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
			assert.Empty(t, stdout)
		})
	}
}

func TestSimulate_MagicFlag(t *testing.T) {
	setupCLITest(t)
	path := writeScenario(t, "tiles:\n  - id: 5\n    options:\n      energyResidential:\n        policy: instantHomeRetrofit\n")

	_, _, err := executeRoot(t, "simulate", "--magic", "--scenario", path)
	require.NoError(t, err)
}

func TestPreview(t *testing.T) {
	setupCLITest(t)

	t.Run("table", func(t *testing.T) {
		out, _, err := executeRoot(t, "preview", "--tile", "13")
		require.NoError(t, err)
		assert.Contains(t, out, "Tile 13 (factory)")
		assert.Contains(t, out, "factoryElectricFreightRequirement2050")
		assert.Contains(t, out, "-149 Gt")
	})

	t.Run("json marks active policies", func(t *testing.T) {
		path := writeScenario(t, freightScenario)
		out, _, err := executeRoot(t, "preview", "--tile", "13", "--scenario", path, "--output", "json")
		require.NoError(t, err)

		var report cli.PreviewReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, catalog.TileFactory, report.TileType)
		assert.Contains(t, report.Active, catalog.PolicyKey("factoryElectricFreightRequirement2050"))
		for i := 1; i < len(report.Previews); i++ {
			assert.LessOrEqual(t, report.Previews[i-1].Delta, report.Previews[i].Delta)
		}
		last := report.Previews[len(report.Previews)-1]
		assert.Equal(t, catalog.PolicyNone, last.Key)
	})

	t.Run("scenery tile only has none", func(t *testing.T) {
		out, _, err := executeRoot(t, "preview", "--tile", "2", "--output", "ndjson")
		require.NoError(t, err)
		assert.Equal(t, `{"key":"none","delta":0}`, strings.TrimSpace(out))
	})

	t.Run("unknown tile", func(t *testing.T) {
		_, _, err := executeRoot(t, "preview", "--tile", "16")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown tile")
	})

	t.Run("tile is required", func(t *testing.T) {
		_, _, err := executeRoot(t, "preview")
		require.Error(t, err)
	})
}

func TestDelta(t *testing.T) {
	setupCLITest(t)

	t.Run("end to end", func(t *testing.T) {
		out, _, err := executeRoot(t, "delta", "--target", "100", "--target-year", "2024", "--weight", "50")
		require.NoError(t, err)
		assert.Contains(t, out, "Total delta: -1,901.9 Gt")
		assert.Contains(t, out, "cars off the road")
		assert.Contains(t, out, "2100")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := executeRoot(t, "delta", "--target", "80", "--target-year", "2045",
			"--weight", "10.9", "--output", "json")
		require.NoError(t, err)

		var res engine.DeltaResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Len(t, res.Series, 77)
		assert.Zero(t, res.Series[0].Delta)
		assert.Less(t, res.Total, 0.0)
	})

	t.Run("sink", func(t *testing.T) {
		out, _, err := executeRoot(t, "delta", "--target", "100", "--target-year", "2024",
			"--sink", "2", "--output", "ndjson")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 77)
		assert.Equal(t, `{"year":2024,"delta":-2}`, lines[0])
	})

	t.Run("range violation is unavailable", func(t *testing.T) {
		stdout, _, err := executeRoot(t, "delta", "--target", "101", "--target-year", "2050", "--weight", "5")
		require.ErrorIs(t, err, cli.ErrFeatureUnavailable)
		var rv *engine.RangeViolation
		require.ErrorAs(t, err, &rv)
		assert.Equal(t, "target", rv.Field)
		assert.Empty(t, stdout)
	})

	t.Run("needs weight or sink", func(t *testing.T) {
		_, _, err := executeRoot(t, "delta", "--target", "50", "--target-year", "2050")
		require.Error(t, err)
	})

	t.Run("rejects weight and sink together", func(t *testing.T) {
		_, _, err := executeRoot(t, "delta", "--target", "50", "--target-year", "2050", "--weight", "1", "--sink", "1")
		require.Error(t, err)
	})
}

func TestCatalog(t *testing.T) {
	setupCLITest(t)
	reg, err := catalog.Default()
	require.NoError(t, err)

	t.Run("table", func(t *testing.T) {
		out, _, errC := executeRoot(t, "catalog")
		require.NoError(t, errC)
		assert.Contains(t, out, "Catalog 1.0.0 (horizon 2100, showing 19 of 19 options)")
		assert.Contains(t, out, "4.76%")
		assert.Contains(t, out, "Gt/yr")
		assert.Contains(t, out, "heatPumpRebate2045 (80% by 2045)")
		assert.NotContains(t, out, "custom")
	})

	t.Run("json", func(t *testing.T) {
		out, _, errC := executeRoot(t, "catalog", "--output", "json")
		require.NoError(t, errC)
		var report cli.CatalogReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Len(t, report.Options, reg.OptionCount())
		assert.Equal(t, reg.OptionCount(), report.TotalOptions)
	})

	t.Run("filtered by tile type", func(t *testing.T) {
		out, _, errC := executeRoot(t, "catalog", "--tile-type", "office", "--output", "ndjson")
		require.NoError(t, errC)
		assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(reg.Options(catalog.TileOffice)))
	})

	t.Run("filtered table counts", func(t *testing.T) {
		out, _, errC := executeRoot(t, "catalog", "--tile-type", "office")
		require.NoError(t, errC)
		assert.Contains(t, out, "showing 1 of 19 options")
	})

	t.Run("unknown tile type", func(t *testing.T) {
		_, _, errC := executeRoot(t, "catalog", "--tile-type", "castle")
		require.Error(t, errC)
	})
}

func TestBoard(t *testing.T) {
	setupCLITest(t)

	out, _, err := executeRoot(t, "board")
	require.NoError(t, err)
	assert.Contains(t, out, "factory")
	assert.Contains(t, out, "lake")

	out, _, err = executeRoot(t, "board", "--output", "json")
	require.NoError(t, err)
	var tiles []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tiles))
	assert.Len(t, tiles, catalog.GridWidth*catalog.GridWidth)

	out, _, err = executeRoot(t, "board", "--interactive", "--output", "ndjson")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 10)
	assert.NotContains(t, out, `"lake"`)
}

func TestPlay_RequiresTerminal(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("stdin is a terminal")
	}
	setupCLITest(t)

	_, _, err := executeRoot(t, "play")
	require.ErrorIs(t, err, cli.ErrNotInteractive)
}
