package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonchallenge/internal/board"
	"github.com/rshade/carbonchallenge/internal/catalog"
	"github.com/rshade/carbonchallenge/internal/engine"
)

const (
	testCurrentYear = 2024
	homeTile        = 5
	emptyTile       = 2
)

func newTestPlayModel(t *testing.T, settings board.Settings) *PlayModel {
	t.Helper()
	reg, err := catalog.Default()
	require.NoError(t, err)

	cfg := engine.DefaultConfig(testCurrentYear)
	sim, err := engine.New(cfg)
	require.NoError(t, err)

	b, err := board.New(reg, catalog.DefaultBoardLayout(),
		board.Window{CurrentYear: cfg.CurrentYear, EndYear: cfg.EndYear}, settings)
	require.NoError(t, err)

	return NewPlayModel(context.Background(), b, sim, 1)
}

func press(m *PlayModel, msgs ...tea.KeyMsg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewPlayModel(t *testing.T) {
	m := newTestPlayModel(t, board.Settings{CustomPoliciesEnabled: true})

	assert.Equal(t, PlayStateBoard, m.state)
	assert.Equal(t, 0, m.cursor)
	assert.InDelta(t, m.sim.BaselineTotal(), m.totals.Total, 1e-9)
	assert.Equal(t, engine.BudgetMethodLinearEstimate, m.Thermometer().Method)
	assert.Nil(t, m.Init())
}

func TestPlayModel_GridNavigation(t *testing.T) {
	m := newTestPlayModel(t, board.Settings{})

	t.Run("stops at edges", func(t *testing.T) {
		press(m, key(tea.KeyUp), key(tea.KeyLeft))
		assert.Equal(t, 0, m.cursor)
	})

	t.Run("moves across rows and columns", func(t *testing.T) {
		press(m, key(tea.KeyRight), key(tea.KeyDown))
		assert.Equal(t, homeTile, m.cursor)
	})

	t.Run("stops at the bottom right", func(t *testing.T) {
		for i := 0; i < catalog.GridWidth; i++ {
			press(m, key(tea.KeyDown), key(tea.KeyRight))
		}
		assert.Equal(t, catalog.GridWidth*catalog.GridWidth-1, m.cursor)
	})
}

func TestPlayModel_SceneryTileStaysOnBoard(t *testing.T) {
	m := newTestPlayModel(t, board.Settings{})
	press(m, key(tea.KeyRight), key(tea.KeyRight))
	require.Equal(t, emptyTile, m.cursor)

	press(m, key(tea.KeyEnter))
	assert.Equal(t, PlayStateBoard, m.state)
	assert.Contains(t, m.status, "nothing to change")
}

func TestPlayModel_CyclePolicy(t *testing.T) {
	m := newTestPlayModel(t, board.Settings{})
	press(m, key(tea.KeyRight), key(tea.KeyDown), key(tea.KeyEnter))
	require.Equal(t, PlayStateOptions, m.state)

	// Focus energyResidential: none, heatPumpRebate2045, instantHomeRetrofit, custom.
	press(m, key(tea.KeyDown))
	opt := m.board.Tiles[homeTile].SortedOptions()[m.focused]
	require.Equal(t, catalog.OptionEnergyResidential, opt.OptionType)

	before := m.totals.Total
	press(m, key(tea.KeyRight))
	assert.Equal(t, catalog.PolicyKey("heatPumpRebate2045"), opt.CurrPolicyKey)
	assert.Less(t, m.totals.Total, before)

	// Magic and custom are both disabled, so the cycle wraps to none.
	press(m, key(tea.KeyRight))
	assert.Equal(t, catalog.PolicyNone, opt.CurrPolicyKey)
	assert.InDelta(t, before, m.totals.Total, 1e-9)

	press(m, key(tea.KeyLeft))
	assert.Equal(t, catalog.PolicyKey("heatPumpRebate2045"), opt.CurrPolicyKey)

	press(m, key(tea.KeyEsc))
	assert.Equal(t, PlayStateBoard, m.state)
}

func TestPlayModel_CyclePolicyMagicMode(t *testing.T) {
	m := newTestPlayModel(t, board.Settings{MagicModeEnabled: true})
	press(m, key(tea.KeyRight), key(tea.KeyDown), key(tea.KeyEnter), key(tea.KeyDown))
	opt := m.board.Tiles[homeTile].SortedOptions()[m.focused]

	press(m, key(tea.KeyRight), key(tea.KeyRight))
	assert.Equal(t, catalog.PolicyKey("instantHomeRetrofit"), opt.CurrPolicyKey)
	assert.Equal(t, testCurrentYear, opt.TargetYear)
}

func TestPlayModel_EditTarget(t *testing.T) {
	m := newTestPlayModel(t, board.Settings{CustomPoliciesEnabled: true})
	press(m, key(tea.KeyRight), key(tea.KeyDown), key(tea.KeyEnter))

	press(m, runes("t"))
	require.Equal(t, PlayStateEditing, m.state)

	m.input.SetValue("75")
	press(m, key(tea.KeyEnter))

	opt := m.board.Tiles[homeTile].SortedOptions()[m.focused]
	assert.Equal(t, PlayStateOptions, m.state)
	assert.InDelta(t, 75.0, opt.Target, 1e-9)
	assert.Equal(t, catalog.PolicyCustom, opt.CurrPolicyKey)
	assert.Equal(t, "Target updated", m.status)
}

func TestPlayModel_EditRejected(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		status string
	}{
		{"target not a number", "t", "lots", `"lots" is not a number`},
		{"target out of range", "t", "150", "value out of range"},
		{"target NaN", "t", "NaN", "value out of range"},
		{"year not a number", "y", "soon", `"soon" is not a year`},
		{"year current without magic", "y", "2024", "magic mode is disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestPlayModel(t, board.Settings{CustomPoliciesEnabled: true})
			press(m, key(tea.KeyRight), key(tea.KeyDown), key(tea.KeyEnter), runes(tt.key))
			before := *m.board.Tiles[homeTile].SortedOptions()[0]

			m.input.SetValue(tt.value)
			press(m, key(tea.KeyEnter))

			assert.Contains(t, m.status, tt.status)
			assert.NotEqual(t, PlayStateError, m.state)
			after := *m.board.Tiles[homeTile].SortedOptions()[0]
			assert.Equal(t, before.Target, after.Target)
			assert.Equal(t, before.TargetYear, after.TargetYear)
		})
	}
}

func TestPlayModel_EditRequiresCustomPolicies(t *testing.T) {
	m := newTestPlayModel(t, board.Settings{})
	press(m, key(tea.KeyRight), key(tea.KeyDown), key(tea.KeyEnter), runes("y"))

	assert.Equal(t, PlayStateOptions, m.state)
	assert.Equal(t, board.ErrCustomPoliciesDisabled.Error(), m.status)
}

func TestPlayModel_EditCancel(t *testing.T) {
	m := newTestPlayModel(t, board.Settings{CustomPoliciesEnabled: true})
	press(m, key(tea.KeyRight), key(tea.KeyDown), key(tea.KeyEnter), runes("t"))
	m.input.SetValue("90")

	press(m, key(tea.KeyEsc))
	assert.Equal(t, PlayStateOptions, m.state)
	assert.Zero(t, m.board.Tiles[homeTile].SortedOptions()[0].Target)
}

func TestPlayModel_Reset(t *testing.T) {
	m := newTestPlayModel(t, board.Settings{CustomPoliciesEnabled: true})
	press(m, key(tea.KeyRight), key(tea.KeyDown), key(tea.KeyEnter), key(tea.KeyRight), key(tea.KeyEsc))
	require.Less(t, m.totals.Total, m.sim.BaselineTotal())

	press(m, runes("r"))
	assert.Equal(t, "Board reset", m.status)
	assert.InDelta(t, m.sim.BaselineTotal(), m.totals.Total, 1e-9)
}

func TestPlayModel_Quit(t *testing.T) {
	m := newTestPlayModel(t, board.Settings{})

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, PlayStateQuitting, m.state)
	assert.Empty(t, m.View())
}

func TestPlayModel_WindowSize(t *testing.T) {
	m := newTestPlayModel(t, board.Settings{})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}

func TestPlayModel_View(t *testing.T) {
	m := newTestPlayModel(t, board.Settings{CustomPoliciesEnabled: true})

	view := m.View()
	assert.Contains(t, view, "Warming by 2100")
	assert.Contains(t, view, "Yearly emissions")
	assert.Contains(t, view, "Enter: Open tile")

	press(m, key(tea.KeyRight), key(tea.KeyDown), key(tea.KeyEnter))
	view = m.View()
	assert.Contains(t, view, "Policy previews")
	assert.Contains(t, view, "heatPumpRebate2045")
	assert.Contains(t, view, "t: Target")
}

func TestRenderPlayError(t *testing.T) {
	err := &engine.RangeViolation{Field: "target", Value: 120, Min: 0, Max: 100}
	out := renderPlayError(err)
	assert.Contains(t, out, "target is out of range")
	assert.Contains(t, out, "Press q to quit")
}
