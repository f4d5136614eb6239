package engine

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rshade/carbonchallenge/internal/board"
	"github.com/rshade/carbonchallenge/internal/catalog"
	"github.com/rshade/carbonchallenge/internal/logging"
)

// PreviewAllPolicies computes, for every catalog policy of every option on
// tile, the rounded gigatonne delta the option would contribute if that policy
// were applied starting from zero progress. The live option state is ignored.
//
// The none policy is always present with a delta of 0. Custom policies have
// no parameters of their own and are skipped. A catalog policy without target
// or target year fails with *MissingPolicyParameters.
func (s *Simulator) PreviewAllPolicies(ctx context.Context, tile *board.Tile) (map[catalog.PolicyKey]float64, error) {
	log := logging.FromContext(ctx)

	previews := map[catalog.PolicyKey]float64{catalog.PolicyNone: 0}
	if tile == nil {
		return previews, nil
	}

	for _, opt := range tile.SortedOptions() {
		for _, p := range opt.Policies {
			if p.Key.IsSentinel() {
				continue
			}
			delta, err := s.previewPolicy(opt, p)
			if err != nil {
				log.Debug().
					Ctx(ctx).
					Str("component", "engine").
					Str("operation", "preview_policies").
					Int("tile_id", tile.ID).
					Str("option_type", string(opt.OptionType)).
					Str("policy", string(p.Key)).
					Err(err).
					Msg("policy preview failed")
				return nil, err
			}
			previews[p.Key] = delta
		}
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "preview_policies").
		Int("tile_id", tile.ID).
		Int("policies", len(previews)).
		Msg("policy previews computed")

	return previews, nil
}

func (s *Simulator) previewPolicy(opt *board.Option, p catalog.Policy) (float64, error) {
	if !p.HasParameters() {
		return 0, &MissingPolicyParameters{OptionType: opt.OptionType, PolicyKey: p.Key}
	}
	targetYear, _ := p.ResolvedTargetYear(s.cfg.CurrentYear)

	hypothetical := &board.Option{
		OptionType:        opt.OptionType,
		TileType:          opt.TileType,
		Target:            *p.Target,
		TargetYear:        targetYear,
		WeightPrcnt:       opt.WeightPrcnt,
		MaxCO2Sequestered: opt.MaxCO2Sequestered,
	}
	res, err := s.ComputeOptionDelta(hypothetical)
	if err != nil {
		return 0, fmt.Errorf("policy %s: %w", p.Key, err)
	}
	return math.Round(res.Total), nil
}

// PolicyPreview is one ranked preview entry.
type PolicyPreview struct {
	Key   catalog.PolicyKey `json:"key"`
	Delta float64           `json:"delta"`
}

// RankPolicies orders previews by delta ascending, so the largest reduction
// comes first. Equal deltas are ordered by key.
func RankPolicies(previews map[catalog.PolicyKey]float64) []PolicyPreview {
	out := make([]PolicyPreview, 0, len(previews))
	for k, v := range previews {
		out = append(out, PolicyPreview{Key: k, Delta: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Delta != out[j].Delta {
			return out[i].Delta < out[j].Delta
		}
		return out[i].Key < out[j].Key
	})
	return out
}
