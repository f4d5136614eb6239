package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/rshade/carbonchallenge/internal/board"
	"github.com/rshade/carbonchallenge/internal/catalog"
	"github.com/rshade/carbonchallenge/internal/logging"
)

// YearEmissions is the board's emissions for one simulated year.
type YearEmissions struct {
	Year int `json:"year"`

	// Total is the baseline plus every option delta of this year.
	Total float64 `json:"total"`

	// Emissions holds each option's delta for this year, keyed by tile type
	// then option type. Tiles of the same type sum into one entry.
	Emissions map[catalog.TileType]map[catalog.OptionType]float64 `json:"emissions"`
}

// TotalEmissions is the projected board total over the window.
type TotalEmissions struct {
	// Total is the gigatonnes emitted over the window: the baseline for every
	// year plus the sum of all option deltas.
	Total float64 `json:"total"`

	// Yearly holds one entry per window year, in year order.
	Yearly []YearEmissions `json:"yearly"`
}

// OptionTotal is one option's delta summed over the window.
type OptionTotal struct {
	TileType   catalog.TileType   `json:"tile_type"`
	OptionType catalog.OptionType `json:"option_type"`
	Delta      float64            `json:"delta"`
}

// OptionTotals sums the yearly deltas per tile type and option, largest
// reduction first. Ties are ordered by tile type then option type.
func (t TotalEmissions) OptionTotals() []OptionTotal {
	type key struct {
		tile   catalog.TileType
		option catalog.OptionType
	}
	sums := make(map[key]float64)
	for _, y := range t.Yearly {
		for tileType, byOption := range y.Emissions {
			for optionType, delta := range byOption {
				sums[key{tileType, optionType}] += delta
			}
		}
	}

	out := make([]OptionTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, OptionTotal{TileType: k.tile, OptionType: k.option, Delta: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Delta != out[j].Delta {
			return out[i].Delta < out[j].Delta
		}
		if out[i].TileType != out[j].TileType {
			return out[i].TileType < out[j].TileType
		}
		return out[i].OptionType < out[j].OptionType
	})
	return out
}

// ComputeTotalEmissions aggregates every option of every tile. Scenery tiles
// and nil tiles contribute nothing. Any option error aborts the aggregation
// and is returned wrapped with the tile and option that caused it.
func (s *Simulator) ComputeTotalEmissions(ctx context.Context, tiles []*board.Tile) (TotalEmissions, error) {
	log := logging.FromContext(ctx)

	out := TotalEmissions{
		Total:  s.BaselineTotal(),
		Yearly: make([]YearEmissions, s.TotalSimYears()),
	}
	for i := range out.Yearly {
		out.Yearly[i] = YearEmissions{
			Year:      s.cfg.CurrentYear + i,
			Total:     s.cfg.BaselineYearlyEmissions,
			Emissions: make(map[catalog.TileType]map[catalog.OptionType]float64),
		}
	}

	options := 0
	for _, tile := range tiles {
		if tile == nil || tile.IsScenery() {
			continue
		}
		for _, opt := range tile.SortedOptions() {
			res, err := s.ComputeOptionDelta(opt)
			if err != nil {
				log.Debug().
					Ctx(ctx).
					Str("component", "engine").
					Str("operation", "compute_total_emissions").
					Int("tile_id", tile.ID).
					Str("option_type", string(opt.OptionType)).
					Err(err).
					Msg("option projection failed")
				return TotalEmissions{}, fmt.Errorf("tile %d option %s: %w", tile.ID, opt.OptionType, err)
			}

			out.Total += res.Total
			for i, yd := range res.Series {
				year := &out.Yearly[i]
				byOption, ok := year.Emissions[tile.Type]
				if !ok {
					byOption = make(map[catalog.OptionType]float64)
					year.Emissions[tile.Type] = byOption
				}
				byOption[opt.OptionType] += yd.Delta
				year.Total += yd.Delta
			}
			options++
		}
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "compute_total_emissions").
		Int("tiles", len(tiles)).
		Int("options", options).
		Float64("total_gt", out.Total).
		Msg("emissions aggregated")

	return out, nil
}

// TotalEmissionsOnly returns just the window total of ComputeTotalEmissions.
func (s *Simulator) TotalEmissionsOnly(ctx context.Context, tiles []*board.Tile) (float64, error) {
	res, err := s.ComputeTotalEmissions(ctx, tiles)
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

// Thermometer is the end-of-century reading shown to the player.
type Thermometer struct {
	TotalGigatonnes float64      `json:"total_gigatonnes"`
	Degrees         float64      `json:"degrees"`
	Method          BudgetMethod `json:"method"`
}

// Thermometer aggregates the board and converts the total into warming.
func (s *Simulator) Thermometer(ctx context.Context, tiles []*board.Tile) (Thermometer, error) {
	total, err := s.TotalEmissionsOnly(ctx, tiles)
	if err != nil {
		return Thermometer{}, err
	}
	return s.ThermometerFor(total), nil
}

// ThermometerFor converts an already aggregated window total into warming.
func (s *Simulator) ThermometerFor(totalGt float64) Thermometer {
	return Thermometer{
		TotalGigatonnes: totalGt,
		Degrees:         s.EstimateWarmingDegrees(totalGt),
		Method:          ClassifyBudget(totalGt),
	}
}
