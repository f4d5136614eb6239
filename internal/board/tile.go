// Package board holds the mutable game state: the tiles on the board and the
// option state (current, target, target year, selected policy) each tile owns.
//
// The board also applies the editing rules the game UI enforces before
// mutating option state, such as hiding magic policies unless magic mode is
// enabled. The projection engine does not re-check these rules.
package board

import (
	"sort"

	"github.com/rshade/carbonchallenge/internal/catalog"
)

// greenVariantThreshold is the green score above which a tile renders green.
const greenVariantThreshold = 0.5

// Option is the live state of one emission source on one tile.
type Option struct {
	OptionType catalog.OptionType `json:"option_type"`
	TileType   catalog.TileType   `json:"tile_type"`

	// Current is the share (0-100) already achieved today. Editable only in
	// magic mode.
	Current float64 `json:"current"`

	// Target is the share (0-100) reached by TargetYear and kept afterwards.
	Target float64 `json:"target"`

	TargetYear int `json:"target_year"`

	WeightPrcnt       *float64 `json:"weight_prcnt,omitempty"`
	MaxCO2Sequestered *float64 `json:"max_co2_sequestered,omitempty"`

	CurrPolicyKey catalog.PolicyKey `json:"curr_policy_key"`
	Policies      []catalog.Policy  `json:"-"`
}

// IsSink reports whether this option removes CO2 instead of reducing an
// emission source.
func (o *Option) IsSink() bool {
	return o.MaxCO2Sequestered != nil
}

// Policy returns the option's policy with the given key.
func (o *Option) Policy(key catalog.PolicyKey) (catalog.Policy, bool) {
	for _, p := range o.Policies {
		if p.Key == key {
			return p, true
		}
	}
	return catalog.Policy{}, false
}

func (o *Option) clone() *Option {
	out := *o
	if o.WeightPrcnt != nil {
		w := *o.WeightPrcnt
		out.WeightPrcnt = &w
	}
	if o.MaxCO2Sequestered != nil {
		m := *o.MaxCO2Sequestered
		out.MaxCO2Sequestered = &m
	}
	out.Policies = catalog.ClonePolicies(o.Policies)
	return &out
}

// Tile is one board cell.
type Tile struct {
	ID      int                            `json:"id"`
	Type    catalog.TileType               `json:"type"`
	Options map[catalog.OptionType]*Option `json:"options"`
}

// IsScenery reports whether the tile is decorative only.
func (t *Tile) IsScenery() bool {
	return t.Type.IsScenery()
}

// SortedOptions returns the tile's options ordered by option type.
func (t *Tile) SortedOptions() []*Option {
	out := make([]*Option, 0, len(t.Options))
	for _, opt := range t.Options {
		out = append(out, opt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OptionType < out[j].OptionType })
	return out
}

// GreenScore is the mean option target as a fraction in [0, 1]. Tiles
// without options score 0.
func (t *Tile) GreenScore() float64 {
	if len(t.Options) == 0 {
		return 0
	}
	total := 0.0
	for _, opt := range t.Options {
		total += opt.Target
	}
	const percent = 100.0
	return total / float64(len(t.Options)) / percent
}

// IsGreenVariant reports whether the tile should render its renewable variant.
// It ignores target years entirely.
func (t *Tile) IsGreenVariant() bool {
	return t.GreenScore() > greenVariantThreshold
}

// Clone deep-copies the tile.
func (t *Tile) Clone() *Tile {
	out := &Tile{
		ID:      t.ID,
		Type:    t.Type,
		Options: make(map[catalog.OptionType]*Option, len(t.Options)),
	}
	for k, opt := range t.Options {
		out.Options[k] = opt.clone()
	}
	return out
}
