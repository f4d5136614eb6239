package board

import (
	"context"
	"fmt"
	"math"

	"github.com/rshade/carbonchallenge/internal/catalog"
	"github.com/rshade/carbonchallenge/internal/logging"
)

// defaultTargetYear seeds a fresh option's target year.
const defaultTargetYear = 2050

// Percent bounds for current and target.
const (
	minPercent = 0.0
	maxPercent = 100.0
)

// inPercentRange reports whether v is a percentage. NaN is never in range.
func inPercentRange(v float64) bool {
	return !math.IsNaN(v) && v >= minPercent && v <= maxPercent
}

// Settings are the player-facing feature flags that gate editing.
type Settings struct {
	// MagicModeEnabled allows editing current and selecting magic policies.
	MagicModeEnabled bool `yaml:"magic_mode"       json:"magic_mode"`
	// CustomPoliciesEnabled allows entering target and target year by hand.
	CustomPoliciesEnabled bool `yaml:"custom_policies" json:"custom_policies"`
}

// Window is the inclusive simulation year range.
type Window struct {
	CurrentYear int
	EndYear     int
}

// Contains reports whether year lies inside the window.
func (w Window) Contains(year int) bool {
	return year >= w.CurrentYear && year <= w.EndYear
}

// clamp returns year forced into the window.
func (w Window) clamp(year int) int {
	return min(max(year, w.CurrentYear), w.EndYear)
}

// Board is the set of tiles in one game session.
type Board struct {
	Tiles []*Tile

	registry *catalog.Registry
	layout   []catalog.TileType
	window   Window
	settings Settings
}

// New seeds a board from the catalog. The layout must describe a full
// GridWidth x GridWidth grid.
func New(reg *catalog.Registry, layout []catalog.TileType, window Window, settings Settings) (*Board, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: nil catalog registry", ErrInvalidLayout)
	}
	if want := catalog.GridWidth * catalog.GridWidth; len(layout) != want {
		return nil, fmt.Errorf("%w: got %d tiles, want %d", ErrInvalidLayout, len(layout), want)
	}
	for i, tt := range layout {
		if !tt.IsKnown() {
			return nil, fmt.Errorf("%w: tile %d has unknown type %q", ErrInvalidLayout, i, tt)
		}
	}
	if window.EndYear < window.CurrentYear {
		return nil, fmt.Errorf("%w: end year %d before current year %d",
			ErrInvalidLayout, window.EndYear, window.CurrentYear)
	}

	b := &Board{
		registry: reg,
		layout:   append([]catalog.TileType(nil), layout...),
		window:   window,
		settings: settings,
	}
	b.Reset()
	return b, nil
}

// Reset re-seeds every tile from the catalog.
func (b *Board) Reset() {
	b.Tiles = make([]*Tile, len(b.layout))
	for i, tt := range b.layout {
		b.Tiles[i] = b.newTile(i, tt)
	}
}

func (b *Board) newTile(id int, tileType catalog.TileType) *Tile {
	tile := &Tile{ID: id, Type: tileType, Options: map[catalog.OptionType]*Option{}}
	for _, tmpl := range b.registry.Options(tileType) {
		tile.Options[tmpl.OptionType] = &Option{
			OptionType:        tmpl.OptionType,
			TileType:          tileType,
			Current:           0,
			Target:            0,
			TargetYear:        b.window.clamp(defaultTargetYear),
			WeightPrcnt:       tmpl.WeightPrcnt,
			MaxCO2Sequestered: tmpl.MaxCO2Sequestered,
			CurrPolicyKey:     catalog.PolicyNone,
			Policies:          tmpl.Policies,
		}
	}
	return tile
}

// Window returns the simulation window the board was seeded with.
func (b *Board) Window() Window {
	return b.window
}

// Settings returns the active editing settings.
func (b *Board) Settings() Settings {
	return b.settings
}

// Tile returns the tile with the given id.
func (b *Board) Tile(id int) (*Tile, error) {
	if id < 0 || id >= len(b.Tiles) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTile, id)
	}
	return b.Tiles[id], nil
}

// Snapshot deep-copies every tile so a projection can run against state that
// the editor will not mutate underneath it.
func (b *Board) Snapshot() []*Tile {
	out := make([]*Tile, len(b.Tiles))
	for i, t := range b.Tiles {
		out[i] = t.Clone()
	}
	return out
}

// InteractiveTiles returns the tiles that carry options.
func (b *Board) InteractiveTiles() []*Tile {
	var out []*Tile
	for _, t := range b.Tiles {
		if !t.IsScenery() && len(t.Options) > 0 {
			out = append(out, t)
		}
	}
	return out
}

func (b *Board) lookup(tileID int, optionType catalog.OptionType) (*Option, error) {
	tile, err := b.Tile(tileID)
	if err != nil {
		return nil, err
	}
	if tile.IsScenery() {
		return nil, fmt.Errorf("%w: tile %d is %s", ErrSceneryTile, tileID, tile.Type)
	}
	opt, ok := tile.Options[optionType]
	if !ok {
		return nil, fmt.Errorf("%w: %q on tile %d (%s)", ErrUnknownOption, optionType, tileID, tile.Type)
	}
	return opt, nil
}

// ApplyPolicy selects a catalog policy for an option and copies its target
// and target year into the option state. Selecting custom keeps the current
// manual values.
func (b *Board) ApplyPolicy(ctx context.Context, tileID int, optionType catalog.OptionType, key catalog.PolicyKey) error {
	opt, err := b.lookup(tileID, optionType)
	if err != nil {
		return err
	}
	policy, ok := opt.Policy(key)
	if !ok {
		return fmt.Errorf("%w: %q for option %q", ErrUnknownPolicy, key, optionType)
	}

	switch {
	case key == catalog.PolicyCustom:
		if !b.settings.CustomPoliciesEnabled {
			return ErrCustomPoliciesDisabled
		}
	case key == catalog.PolicyNone:
		opt.Target = 0
		opt.TargetYear = b.window.EndYear
	default:
		if policy.IsMagic && !b.settings.MagicModeEnabled {
			return fmt.Errorf("%w: policy %q is instantaneous", ErrMagicModeDisabled, key)
		}
		year, hasYear := policy.ResolvedTargetYear(b.window.CurrentYear)
		if policy.Target == nil || !hasYear {
			return fmt.Errorf("%w: policy %q has no target", ErrUnknownPolicy, key)
		}
		opt.Target = *policy.Target
		opt.TargetYear = year
	}
	opt.CurrPolicyKey = key

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "board").
		Int("tile_id", tileID).
		Str("option", string(optionType)).
		Str("policy", string(key)).
		Float64("target", opt.Target).
		Int("target_year", opt.TargetYear).
		Msg("policy applied")

	return nil
}

// SetTarget sets an option's target by hand, switching it to the custom policy.
func (b *Board) SetTarget(tileID int, optionType catalog.OptionType, target float64) error {
	if !b.settings.CustomPoliciesEnabled {
		return ErrCustomPoliciesDisabled
	}
	opt, err := b.lookup(tileID, optionType)
	if err != nil {
		return err
	}
	if !inPercentRange(target) {
		return fmt.Errorf("%w: target %v outside [0, 100]", ErrOutOfRange, target)
	}
	opt.Target = target
	opt.CurrPolicyKey = catalog.PolicyCustom
	return nil
}

// SetTargetYear sets an option's target year by hand, switching it to the
// custom policy. Only magic mode may pick the current year itself.
func (b *Board) SetTargetYear(tileID int, optionType catalog.OptionType, year int) error {
	if !b.settings.CustomPoliciesEnabled {
		return ErrCustomPoliciesDisabled
	}
	opt, err := b.lookup(tileID, optionType)
	if err != nil {
		return err
	}
	if !b.window.Contains(year) {
		return fmt.Errorf("%w: target year %d outside [%d, %d]",
			ErrOutOfRange, year, b.window.CurrentYear, b.window.EndYear)
	}
	if year == b.window.CurrentYear && !b.settings.MagicModeEnabled {
		return fmt.Errorf("%w: target year %d is the current year", ErrMagicModeDisabled, year)
	}
	opt.TargetYear = year
	opt.CurrPolicyKey = catalog.PolicyCustom
	return nil
}

// SetCurrent edits an option's present-day share. Magic mode only.
func (b *Board) SetCurrent(tileID int, optionType catalog.OptionType, current float64) error {
	if !b.settings.MagicModeEnabled {
		return ErrMagicModeDisabled
	}
	opt, err := b.lookup(tileID, optionType)
	if err != nil {
		return err
	}
	if !inPercentRange(current) {
		return fmt.Errorf("%w: current %v outside [0, 100]", ErrOutOfRange, current)
	}
	opt.Current = current
	return nil
}
