package engine

import "math"

// Percent bounds shared by current, target and weight.
const (
	minPercent = 0.0
	maxPercent = 100.0
)

// validateNumInRange returns a *RangeViolation when value lies outside
// [min, max]. NaN is never in range.
func validateNumInRange(field string, value, minValue, maxValue float64) error {
	if math.IsNaN(value) || value < minValue || value > maxValue {
		return &RangeViolation{Field: field, Value: value, Min: minValue, Max: maxValue}
	}
	return nil
}

// validatePolicyInput checks fields in the order current, target,
// targetYear, weightPrcnt and returns the first violation.
func (s *Simulator) validatePolicyInput(in PolicyInput) error {
	if err := validateNumInRange("current", in.Current, minPercent, maxPercent); err != nil {
		return err
	}
	if err := validateNumInRange("target", in.Target, minPercent, maxPercent); err != nil {
		return err
	}
	if err := s.validateTargetYear(in.TargetYear); err != nil {
		return err
	}
	return validateNumInRange("weightPrcnt", in.WeightPrcnt, minPercent, maxPercent)
}

// validateSinkInput mirrors validatePolicyInput, with the sequestration
// capacity standing in for the weight.
func (s *Simulator) validateSinkInput(in SinkInput) error {
	if err := validateNumInRange("current", in.Current, minPercent, maxPercent); err != nil {
		return err
	}
	if err := validateNumInRange("target", in.Target, minPercent, maxPercent); err != nil {
		return err
	}
	if err := s.validateTargetYear(in.TargetYear); err != nil {
		return err
	}
	return validateNumInRange("maxCO2Sequestered", in.MaxCO2Sequestered, 0, math.MaxFloat64)
}

func (s *Simulator) validateTargetYear(year int) error {
	return validateNumInRange("targetYear", float64(year), float64(s.cfg.CurrentYear), float64(s.cfg.EndYear))
}
