package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/carbonchallenge/internal/board"
	"github.com/rshade/carbonchallenge/internal/catalog"
	"github.com/rshade/carbonchallenge/internal/engine"
	"github.com/rshade/carbonchallenge/internal/logging"
)

// PlayState represents the current state of the play TUI.
type PlayState int

const (
	// PlayStateBoard indicates the cursor is moving over the board grid.
	PlayStateBoard PlayState = iota
	// PlayStateOptions indicates the user is browsing a tile's options.
	PlayStateOptions
	// PlayStateEditing indicates a target or target year is being typed.
	PlayStateEditing
	// PlayStateQuitting indicates the application is exiting.
	PlayStateQuitting
	// PlayStateError indicates the projection could not be computed.
	PlayStateError
)

// editField names the option field being typed in PlayStateEditing.
type editField int

const (
	editTarget editField = iota
	editTargetYear
)

const (
	playDefaultWidth  = 80
	playDefaultHeight = 24
	inputCharLimit    = 6
)

// PlayModel is the Bubble Tea model for the interactive board editor. Every
// accepted edit recomputes the thermometer, the emissions summary and the
// selected tile's policy previews.
type PlayModel struct {
	ctx   context.Context
	board *board.Board
	sim   *engine.Simulator

	state   PlayState
	cursor  int
	focused int
	field   editField
	input   textinput.Model

	totals   engine.TotalEmissions
	thermo   engine.Thermometer
	previews []engine.PolicyPreview

	precision int
	status    string
	err       error

	width  int
	height int
}

// NewPlayModel creates a PlayModel over b and computes the initial
// projection.
func NewPlayModel(ctx context.Context, b *board.Board, sim *engine.Simulator, precision int) *PlayModel {
	ti := textinput.New()
	ti.CharLimit = inputCharLimit

	m := &PlayModel{
		ctx:       ctx,
		board:     b,
		sim:       sim,
		state:     PlayStateBoard,
		input:     ti,
		precision: precision,
		width:     playDefaultWidth,
		height:    playDefaultHeight,
	}
	m.recompute()
	return m
}

// Init initializes the model.
func (m *PlayModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.state = PlayStateQuitting
			return m, tea.Quit
		}
		switch m.state {
		case PlayStateBoard:
			return m.handleBoardKey(msg)
		case PlayStateOptions:
			return m.handleOptionsKey(msg)
		case PlayStateEditing:
			return m.handleEditKey(msg)
		case PlayStateError:
			if msg.String() == "q" {
				m.state = PlayStateQuitting
				return m, tea.Quit
			}
		case PlayStateQuitting:
		}
	}

	return m, nil
}

// handleBoardKey moves the grid cursor.
//
//nolint:exhaustive // Only handling relevant key types for grid navigation.
func (m *PlayModel) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tiles := len(m.board.Tiles)
	switch msg.Type {
	case tea.KeyUp:
		if m.cursor-catalog.GridWidth >= 0 {
			m.cursor -= catalog.GridWidth
		}
	case tea.KeyDown:
		if m.cursor+catalog.GridWidth < tiles {
			m.cursor += catalog.GridWidth
		}
	case tea.KeyLeft:
		if m.cursor%catalog.GridWidth > 0 {
			m.cursor--
		}
	case tea.KeyRight:
		if m.cursor%catalog.GridWidth < catalog.GridWidth-1 && m.cursor+1 < tiles {
			m.cursor++
		}
	case tea.KeyEnter:
		tile := m.board.Tiles[m.cursor]
		if tile.IsScenery() {
			m.status = fmt.Sprintf("The %s tile has nothing to change", tile.Type)
			return m, nil
		}
		m.state = PlayStateOptions
		m.focused = 0
		m.status = ""
	case tea.KeyRunes:
		switch msg.String() {
		case "q":
			m.state = PlayStateQuitting
			return m, tea.Quit
		case "r":
			m.board.Reset()
			m.status = "Board reset"
		}
	}
	m.recompute()
	return m, nil
}

// handleOptionsKey browses options and applies policies.
//
//nolint:exhaustive // Only handling relevant key types for option editing.
func (m *PlayModel) handleOptionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := m.board.Tiles[m.cursor].SortedOptions()
	switch msg.Type {
	case tea.KeyUp:
		if m.focused > 0 {
			m.focused--
		}
	case tea.KeyDown:
		if m.focused < len(options)-1 {
			m.focused++
		}
	case tea.KeyEsc:
		m.state = PlayStateBoard
		m.status = ""
	case tea.KeyRight:
		m.cyclePolicy(options[m.focused], 1)
	case tea.KeyLeft:
		m.cyclePolicy(options[m.focused], -1)
	case tea.KeyRunes:
		switch msg.String() {
		case "q":
			m.state = PlayStateQuitting
			return m, tea.Quit
		case "t":
			return m, m.startEdit(editTarget, options[m.focused])
		case "y":
			return m, m.startEdit(editTargetYear, options[m.focused])
		}
	}
	return m, nil
}

// handleEditKey feeds the text input and commits on Enter.
//
//nolint:exhaustive // Only handling relevant key types for text editing.
func (m *PlayModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.state = PlayStateOptions
		return m, nil
	case tea.KeyEnter:
		m.input.Blur()
		m.state = PlayStateOptions
		m.commitEdit(m.board.Tiles[m.cursor].SortedOptions()[m.focused])
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cyclePolicy applies the next policy in dir the current settings allow.
func (m *PlayModel) cyclePolicy(opt *board.Option, dir int) {
	n := len(opt.Policies)
	if n == 0 {
		return
	}
	start := 0
	for i, p := range opt.Policies {
		if p.Key == opt.CurrPolicyKey {
			start = i
			break
		}
	}

	settings := m.board.Settings()
	for step := 1; step <= n; step++ {
		p := opt.Policies[((start+dir*step)%n+n)%n]
		if p.IsMagic && !settings.MagicModeEnabled {
			continue
		}
		if p.Key == catalog.PolicyCustom && !settings.CustomPoliciesEnabled {
			continue
		}
		m.apply(m.board.ApplyPolicy(m.ctx, m.cursor, opt.OptionType, p.Key), "Applied "+string(p.Key))
		return
	}
}

func (m *PlayModel) startEdit(field editField, opt *board.Option) tea.Cmd {
	if !m.board.Settings().CustomPoliciesEnabled {
		m.status = board.ErrCustomPoliciesDisabled.Error()
		return nil
	}
	m.field = field
	m.state = PlayStateEditing
	if field == editTarget {
		m.input.Placeholder = "target %"
		m.input.SetValue(strconv.FormatFloat(opt.Target, 'f', -1, 64))
	} else {
		m.input.Placeholder = "target year"
		m.input.SetValue(strconv.Itoa(opt.TargetYear))
	}
	m.input.CursorEnd()
	m.input.Focus()
	return textinput.Blink
}

func (m *PlayModel) commitEdit(opt *board.Option) {
	raw := strings.TrimSpace(m.input.Value())
	switch m.field {
	case editTarget:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			m.status = fmt.Sprintf("%q is not a number", raw)
			return
		}
		m.apply(m.board.SetTarget(m.cursor, opt.OptionType, v), "Target updated")
	case editTargetYear:
		v, err := strconv.Atoi(raw)
		if err != nil {
			m.status = fmt.Sprintf("%q is not a year", raw)
			return
		}
		m.apply(m.board.SetTargetYear(m.cursor, opt.OptionType, v), "Target year updated")
	}
}

// apply reports a board edit result and recomputes on success. Rejected
// edits leave the board untouched, so they only update the status line.
func (m *PlayModel) apply(err error, okStatus string) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = okStatus
	m.recompute()
}

// recompute refreshes every derived view from a board snapshot.
func (m *PlayModel) recompute() {
	tiles := m.board.Snapshot()

	totals, err := m.sim.ComputeTotalEmissions(m.ctx, tiles)
	if err != nil {
		m.fail(err)
		return
	}
	m.totals = totals
	m.thermo = m.sim.ThermometerFor(totals.Total)

	previews, err := m.sim.PreviewAllPolicies(m.ctx, tiles[m.cursor])
	if err != nil {
		m.fail(err)
		return
	}
	m.previews = engine.RankPolicies(previews)
}

func (m *PlayModel) fail(err error) {
	logging.FromContext(m.ctx).Error().
		Ctx(m.ctx).
		Str("component", "tui").
		Err(err).
		Msg("projection failed")
	m.err = err
	m.state = PlayStateError
}

// View renders the current view.
func (m *PlayModel) View() string {
	switch m.state {
	case PlayStateQuitting:
		return ""
	case PlayStateError:
		return renderPlayError(m.err)
	case PlayStateBoard, PlayStateOptions, PlayStateEditing:
	}

	var sb strings.Builder
	sb.WriteString(RenderBoard(m.board.Tiles, m.cursor))
	sb.WriteString("\n\n")
	sb.WriteString(RenderThermometer(m.thermo))
	sb.WriteString("\n\n")
	sb.WriteString(RenderEmissionsSummary(m.totals, m.sim.BaselineTotal(), m.precision))
	sb.WriteString("\n\n")

	tile := m.board.Tiles[m.cursor]
	if m.state == PlayStateBoard {
		sb.WriteString(RenderYearlyChart(m.totals.Yearly, m.sim.Config().BaselineYearlyEmissions))
	} else {
		sb.WriteString(RenderTileOptions(tile, m.focused))
		sb.WriteString("\n\n")
		sb.WriteString(RenderPolicyPreviews(m.previews, activePolicies(tile)))
		if m.state == PlayStateEditing {
			sb.WriteString("\n\n")
			sb.WriteString(m.input.View())
		}
	}

	if m.status != "" {
		sb.WriteString("\n\n")
		sb.WriteString(mutedStyle().Render(m.status))
	}
	sb.WriteString("\n\n")
	sb.WriteString(renderPlayHelp(m.state))
	return sb.String()
}

func activePolicies(tile *board.Tile) map[catalog.PolicyKey]bool {
	active := make(map[catalog.PolicyKey]bool, len(tile.Options))
	for _, opt := range tile.Options {
		active[opt.CurrPolicyKey] = true
	}
	return active
}

func renderPlayError(err error) string {
	msg := "projection failed"
	var rv *engine.RangeViolation
	if errors.As(err, &rv) {
		msg = fmt.Sprintf("%s is out of range", rv.Field)
	}
	return fmt.Sprintf("Feature unavailable: %s\n%v\n\nPress q to quit.", msg, err)
}

func renderPlayHelp(state PlayState) string {
	var shortcuts []string
	switch state {
	case PlayStateBoard:
		shortcuts = []string{"arrows: Move", "Enter: Open tile", "r: Reset", "q: Quit"}
	case PlayStateOptions:
		shortcuts = []string{"↑/↓: Option", "←/→: Policy", "t: Target", "y: Target year", "Esc: Back"}
	case PlayStateEditing:
		shortcuts = []string{"Enter: Apply", "Esc: Cancel"}
	case PlayStateQuitting, PlayStateError:
	}
	return mutedStyle().Render(strings.Join(shortcuts, " | "))
}

// Board returns the edited board.
func (m *PlayModel) Board() *board.Board {
	return m.board
}

// Thermometer returns the latest thermometer reading.
func (m *PlayModel) Thermometer() engine.Thermometer {
	return m.thermo
}
