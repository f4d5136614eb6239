package greenops

import (
	"math"
	"strings"
)

// getUnitFactor returns the conversion factor to kilograms for the provided
// unit and whether the unit is recognized. Matching is case-insensitive, so
// "Mt" and "mt" both mean megatonnes.
func getUnitFactor(unit string) (float64, bool) {
	switch strings.ToLower(unit) {
	case "g", "gco2e":
		return GramsToKg, true
	case "kg", "kgco2e":
		return KgToKg, true
	case "t", "tco2e":
		return TonsToKg, true
	case "mt", "mtco2e":
		return MegatonsToKg, true
	case "gt", "gtco2e":
		return GigatonsToKg, true
	case "lb", "lbco2e":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts a carbon quantity from the provided unit to kilograms.
//
// Recognized units: g, kg, t, Mt, Gt, lb and their CO2e variants.
//
// Returns ErrNegativeValue if value is negative, ErrInvalidUnit if the unit is
// not recognized, and ErrCalculationOverflow if the input is Inf or NaN or the
// conversion overflows.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}

	if value < 0 {
		return 0, ErrNegativeValue
	}

	factor, ok := getUnitFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}

	result := value * factor
	if math.IsInf(result, 0) {
		return 0, ErrCalculationOverflow
	}

	return result, nil
}
