package engine

import (
	"fmt"

	"github.com/rshade/carbonchallenge/internal/catalog"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors. Detailed errors below unwrap to these, so callers can use
// errors.Is for the category and errors.As for the details.
var (
	// ErrRangeViolation indicates an option field outside its valid domain.
	ErrRangeViolation = constError("value outside valid range")

	// ErrMissingPolicyParameters indicates a catalog policy without target or
	// target year reached the preview calculator.
	ErrMissingPolicyParameters = constError("policy missing target or target year")

	// ErrInvalidConfig indicates an unusable simulator configuration.
	ErrInvalidConfig = constError("invalid simulator configuration")

	// ErrInvalidOption indicates an option with neither an emissions weight
	// nor a sequestration capacity.
	ErrInvalidOption = constError("option has no weight")
)

// RangeViolation reports which field was out of range and by how much. It is
// raised before any computation happens.
type RangeViolation struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeViolation) Error() string {
	return fmt.Sprintf("%s is outside of range (%g - %g) with value %g", e.Field, e.Min, e.Max, e.Value)
}

// Unwrap lets errors.Is match ErrRangeViolation.
func (e *RangeViolation) Unwrap() error { return ErrRangeViolation }

// MissingPolicyParameters names the option and policy whose catalog entry
// lacks a target or target year.
type MissingPolicyParameters struct {
	OptionType catalog.OptionType
	PolicyKey  catalog.PolicyKey
}

func (e *MissingPolicyParameters) Error() string {
	return fmt.Sprintf("trying to calculate policy emissions for policy %q on option %q with missing target or targetYear",
		e.PolicyKey, e.OptionType)
}

// Unwrap lets errors.Is match ErrMissingPolicyParameters.
func (e *MissingPolicyParameters) Unwrap() error { return ErrMissingPolicyParameters }
