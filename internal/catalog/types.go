// Package catalog holds the read-only sector catalog of the Carbon Challenge
// simulator: which emission options each tile type exposes, how much of the
// baseline global emissions each option represents, and the candidate
// policies a player can apply to it.
//
// The catalog is loaded once at startup into an immutable Registry. Lookups
// hand out copies so callers can never mutate the shared data.
package catalog

import "fmt"

// TileType is the category of a board tile.
type TileType string

// Scenery tile types carry no options.
const (
	TileEmpty TileType = "empty"
	TileLake  TileType = "lake"
)

// Interactive tile types carry a catalog-seeded option set.
const (
	TileFactory TileType = "factory"
	TileFarm    TileType = "farm"
	TileHome    TileType = "home"
	TileOffice  TileType = "office"
	TilePower   TileType = "power"
	TileForest  TileType = "forest"
)

// AllTileTypes lists every known tile type in display order.
func AllTileTypes() []TileType {
	return []TileType{
		TileFactory, TileFarm, TileHome, TileOffice, TilePower, TileForest,
		TileEmpty, TileLake,
	}
}

// IsScenery reports whether tiles of this type are purely decorative.
func (t TileType) IsScenery() bool {
	return t == TileEmpty || t == TileLake
}

// IsKnown reports whether t is one of the declared tile types.
func (t TileType) IsKnown() bool {
	for _, known := range AllTileTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// OptionType identifies one emission source within a tile.
type OptionType string

// Emission options, grouped by the tile type that owns them.
const (
	// Factory
	OptionFreightRoadTransport      OptionType = "freightRoadTransport"
	OptionShipping                  OptionType = "shipping"
	OptionEnergyIndustry            OptionType = "energyIndustry"
	OptionDirectIndustrialProcesses OptionType = "directIndustrialProcesses"

	// Farm
	OptionLivestockAndManure OptionType = "livestockAndManure"
	OptionDeforestation      OptionType = "deforestation"
	OptionEnergyAgriculture  OptionType = "energyAgriculture"
	OptionCropland           OptionType = "cropland"
	OptionCropBurning        OptionType = "cropBurning"
	OptionAgriculturalSoils  OptionType = "agriculturalSoils"

	// Home
	OptionPassengerRoadTransport OptionType = "passengerRoadTransport"
	OptionEnergyResidential      OptionType = "energyResidential"
	OptionAviation               OptionType = "aviation"
	OptionWaste                  OptionType = "waste"

	// Office
	OptionEnergyCommercialBuildings OptionType = "energyCommercialBuildings"

	// Power
	OptionFugitiveEmissions         OptionType = "fugitiveEmissions"
	OptionUnallocatedFuelCombustion OptionType = "unallocatedFuelCombustion"

	// Forest (carbon sinks)
	OptionReforestation    OptionType = "reforestation"
	OptionDirectAirCapture OptionType = "directAirCapture"
)

// PolicyKey identifies a policy within an option's policy list.
type PolicyKey string

// Sentinel policy keys present on every option.
const (
	// PolicyNone is the inaction baseline.
	PolicyNone PolicyKey = "none"
	// PolicyCustom defers to the option's manually entered values.
	PolicyCustom PolicyKey = "custom"
)

// IsSentinel reports whether k is the none or custom policy.
func (k PolicyKey) IsSentinel() bool {
	return k == PolicyNone || k == PolicyCustom
}

// Policy is a named (target, targetYear) pair a player can apply to an option.
// Target and TargetYear are nil only for the custom sentinel.
type Policy struct {
	Key        PolicyKey `yaml:"key"                   json:"key"`
	Target     *float64  `yaml:"target,omitempty"      json:"target,omitempty"`
	TargetYear *int      `yaml:"target_year,omitempty" json:"target_year,omitempty"`

	// IsMagic marks an instantaneous policy: its target year is always the
	// simulation's current year. Only selectable in magic mode.
	IsMagic bool `yaml:"is_magic,omitempty" json:"is_magic,omitempty"`
}

// ResolvedTargetYear returns the year this policy reaches its target, given
// the simulation's current year. ok is false when the policy carries no
// target year.
func (p Policy) ResolvedTargetYear(currentYear int) (int, bool) {
	if p.IsMagic {
		return currentYear, true
	}
	if p.TargetYear == nil {
		return 0, false
	}
	return *p.TargetYear, true
}

// HasParameters reports whether both target and a target year are available.
func (p Policy) HasParameters() bool {
	return p.Target != nil && (p.IsMagic || p.TargetYear != nil)
}

// String returns a compact description of the policy.
func (p Policy) String() string {
	switch {
	case p.Target == nil:
		return string(p.Key)
	case p.IsMagic:
		return fmt.Sprintf("%s (%.0f%% now)", p.Key, *p.Target)
	case p.TargetYear == nil:
		return fmt.Sprintf("%s (%.0f%%)", p.Key, *p.Target)
	default:
		return fmt.Sprintf("%s (%.0f%% by %d)", p.Key, *p.Target, *p.TargetYear)
	}
}

// OptionTemplate is the catalog definition of one option on one tile type.
// Exactly one of WeightPrcnt and MaxCO2Sequestered is set.
type OptionTemplate struct {
	TileType   TileType   `json:"tile_type"`
	OptionType OptionType `json:"option_type"`

	// WeightPrcnt is this option's share of baseline global yearly emissions.
	WeightPrcnt *float64 `json:"weight_prcnt,omitempty"`

	// MaxCO2Sequestered is the yearly gigatonne cap of a carbon-sink option.
	MaxCO2Sequestered *float64 `json:"max_co2_sequestered,omitempty"`

	// Policies is ordered: none first, catalog policies, custom last.
	Policies []Policy `json:"policies"`
}

// IsSink reports whether the option removes CO2 rather than emitting it.
func (o OptionTemplate) IsSink() bool {
	return o.MaxCO2Sequestered != nil
}

// Policy returns the policy with the given key.
func (o OptionTemplate) Policy(key PolicyKey) (Policy, bool) {
	for _, p := range o.Policies {
		if p.Key == key {
			return p, true
		}
	}
	return Policy{}, false
}

// clone returns a deep copy so registry data cannot be aliased.
func (o OptionTemplate) clone() OptionTemplate {
	out := o
	out.WeightPrcnt = clonePtr(o.WeightPrcnt)
	out.MaxCO2Sequestered = clonePtr(o.MaxCO2Sequestered)
	out.Policies = ClonePolicies(o.Policies)
	return out
}

// ClonePolicies deep-copies a policy list.
func ClonePolicies(in []Policy) []Policy {
	if in == nil {
		return nil
	}
	out := make([]Policy, len(in))
	for i, p := range in {
		out[i] = Policy{
			Key:        p.Key,
			Target:     clonePtr(p.Target),
			TargetYear: clonePtr(p.TargetYear),
			IsMagic:    p.IsMagic,
		}
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
