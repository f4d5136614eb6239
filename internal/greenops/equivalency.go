package greenops

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
)

// Calculate converts a CarbonInput to kilograms and computes EPA-based
// equivalencies: miles driven, passenger cars driven for a year, homes powered
// for a year and tree seedlings grown for ten years.
//
// If normalization fails, Calculate returns an empty output and the
// normalization error. Values below MinEquivalencyThresholdKg return an empty
// output with InputKg set and no error.
//
// Example:
//
//	output, err := Calculate(CarbonInput{Value: 1.5, Unit: "Gt"})
//	// output.DisplayText: "Equivalent to taking ~326.1 million cars off the road for a year ..."
func Calculate(input CarbonInput) (EquivalencyOutput, error) {
	kg, err := NormalizeToKg(input.Value, input.Unit)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}

	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	miles := kg / EPAMilesDrivenFactor
	cars := kg / EPACarYearFactor
	homes := kg / EPAHomeYearFactor
	trees := kg / EPATreeSeedlingFactor

	for _, v := range []float64{miles, cars, homes, trees} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
		}
	}

	results := []EquivalencyResult{
		newResult(EquivalencyCarYears, cars, "cars off the road for a year"),
		newResult(EquivalencyHomeYears, homes, "homes powered for a year"),
		newResult(EquivalencyMilesDriven, miles, "miles driven"),
		newResult(EquivalencyTreeSeedlings, trees, "tree seedlings grown for 10 years"),
	}

	carsFormatted := results[0].FormattedValue
	homesFormatted := results[1].FormattedValue

	displayText := fmt.Sprintf("Equivalent to taking ~%s cars off the road for a year or powering ~%s homes for a year",
		carsFormatted, homesFormatted)
	compactText := fmt.Sprintf("(≈ %s car-years, %s home-years)", carsFormatted, homesFormatted)

	return EquivalencyOutput{
		InputKg:     kg,
		Results:     results,
		DisplayText: displayText,
		CompactText: compactText,
		IsEmpty:     false,
	}, nil
}

// DescribeAvoided describes an engine delta in gigatonnes. Deltas are
// negative when emissions are avoided, so only negative deltas produce
// equivalencies; zero or positive deltas return an empty output.
func DescribeAvoided(deltaGt float64) EquivalencyOutput {
	if !(deltaGt < 0) {
		return EquivalencyOutput{IsEmpty: true}
	}

	output, err := Calculate(CarbonInput{Value: -deltaGt, Unit: "Gt"})
	if err != nil {
		log.Warn().Err(err).Float64("delta_gt", deltaGt).Msg("equivalency calculation failed for avoided emissions")
		return EquivalencyOutput{IsEmpty: true}
	}
	return output
}

func newResult(t EquivalencyType, v float64, label string) EquivalencyResult {
	return EquivalencyResult{
		Type:           t,
		Value:          v,
		FormattedValue: formatEquivalencyValue(v),
		Label:          label,
	}
}

// formatEquivalencyValue formats an equivalency value for display: compact
// scaling from a million up, otherwise a comma-separated integer. The
// approximation marker is left to the surrounding text.
func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return strings.TrimPrefix(FormatLarge(v), "~")
	}
	return FormatNumber(int64(math.Round(v)))
}
