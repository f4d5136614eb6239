package engine

import (
	"fmt"

	"github.com/rshade/carbonchallenge/internal/board"
)

// PolicyInput is the trajectory of one weighted emission source.
type PolicyInput struct {
	// Current is the share already achieved today, 0-100. It is range checked
	// but the projection always starts from zero at the current year.
	Current float64

	// Target is the share reached by TargetYear and held afterwards, 0-100.
	Target float64

	// TargetYear must lie inside the simulation window.
	TargetYear int

	// WeightPrcnt is the source's share of global emissions, 0-100.
	WeightPrcnt float64
}

// SinkInput is the trajectory of one carbon sink. MaxCO2Sequestered is the
// gigatonnes removed per year once the sink reaches 100%.
type SinkInput struct {
	Current           float64
	Target            float64
	TargetYear        int
	MaxCO2Sequestered float64
}

// YearDelta is the change in gigatonnes for one simulated year. Negative
// means emissions avoided.
type YearDelta struct {
	Year  int     `json:"year"`
	Delta float64 `json:"delta"`
}

// DeltaResult is a projection over the whole window.
type DeltaResult struct {
	// Total is the sum of Series, in gigatonnes.
	Total float64 `json:"total"`

	// Series holds one entry per window year, in year order.
	Series []YearDelta `json:"series"`
}

// ComputeDelta projects a weighted source from zero at the current year
// linearly to Target at TargetYear and converts each year's progress into a
// gigatonne change against the baseline.
//
// Inputs are validated before anything is computed; the first violation is
// returned as a *RangeViolation and no partial result is produced.
func (s *Simulator) ComputeDelta(in PolicyInput) (DeltaResult, error) {
	if err := s.validatePolicyInput(in); err != nil {
		return DeltaResult{}, err
	}
	weight := in.WeightPrcnt / maxPercent
	return s.project(in.Target, in.TargetYear, func(share float64) float64 {
		return -share * weight * s.cfg.BaselineYearlyEmissions
	}), nil
}

// ComputeSinkDelta projects a carbon sink the same way ComputeDelta projects
// an emission source. With a full target the sink removes MaxCO2Sequestered
// every year from TargetYear on.
func (s *Simulator) ComputeSinkDelta(in SinkInput) (DeltaResult, error) {
	if err := s.validateSinkInput(in); err != nil {
		return DeltaResult{}, err
	}
	return s.project(in.Target, in.TargetYear, func(share float64) float64 {
		return -share * in.MaxCO2Sequestered
	}), nil
}

// ComputeOptionDelta projects a board option, choosing the sink or weighted
// calculation from the option's capacity fields.
func (s *Simulator) ComputeOptionDelta(opt *board.Option) (DeltaResult, error) {
	switch {
	case opt == nil:
		return DeltaResult{}, fmt.Errorf("%w: nil option", ErrInvalidOption)
	case opt.MaxCO2Sequestered != nil:
		return s.ComputeSinkDelta(SinkInput{
			Current:           opt.Current,
			Target:            opt.Target,
			TargetYear:        opt.TargetYear,
			MaxCO2Sequestered: *opt.MaxCO2Sequestered,
		})
	case opt.WeightPrcnt != nil:
		return s.ComputeDelta(PolicyInput{
			Current:     opt.Current,
			Target:      opt.Target,
			TargetYear:  opt.TargetYear,
			WeightPrcnt: *opt.WeightPrcnt,
		})
	default:
		return DeltaResult{}, fmt.Errorf("%w: %s", ErrInvalidOption, opt.OptionType)
	}
}

// project walks the window, feeding each year's interpolated share (0-1) to
// toDelta.
func (s *Simulator) project(target float64, targetYear int, toDelta func(share float64) float64) DeltaResult {
	res := DeltaResult{Series: make([]YearDelta, 0, s.TotalSimYears())}
	for year := s.cfg.CurrentYear; year <= s.cfg.EndYear; year++ {
		d := toDelta(s.interpolate(year, target, targetYear) / maxPercent)
		res.Series = append(res.Series, YearDelta{Year: year, Delta: d})
		res.Total += d
	}
	return res
}

// interpolate is the projected share at year. Reaching the target year
// clamps to the target, which also covers a target year equal to the
// current year.
func (s *Simulator) interpolate(year int, target float64, targetYear int) float64 {
	if year >= targetYear {
		return target
	}
	elapsed := float64(year - s.cfg.CurrentYear)
	span := float64(targetYear - s.cfg.CurrentYear)
	return elapsed / span * target
}
