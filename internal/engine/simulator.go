// Package engine is the emissions projection engine of the Carbon Challenge.
//
// It projects every tile option from today toward its target, converts the
// projected progress into a gigatonne CO2 reduction against a fixed historical
// baseline, aggregates the board into yearly and total emissions, and turns
// the total into an estimated warming figure.
//
// The engine is pure: every call recomputes from the option state it is given
// and it holds no state besides its immutable Config, so a *Simulator may be
// shared freely. Callers that edit option state concurrently must pass a
// snapshot (see board.Board.Snapshot).
package engine

import (
	"fmt"
	"math"
)

// OrigYearlyEmissionsGigaTonnes is the global yearly emissions of the year the
// sector weights describe (2016), in gigatonnes CO2 equivalent.
const OrigYearlyEmissionsGigaTonnes = 49.4

// HighEstDegreesWarmingPerGigaTonne is a high estimate of the extra warming by
// 2100 per gigatonne CO2: the IPCC 66% budget of 1,100 Gt for 2 °C gives
// ~0.001818 °C/Gt, rounded up to account for cascading effects past 2 °C.
// Source: https://carbontracker.org/carbon-budgets-where-are-we-now/
const HighEstDegreesWarmingPerGigaTonne = 0.002

// DefaultSimEndYear is the final simulated year. 2100 rather than 2050 shows
// the fuller scope of warming even when net zero arrives late.
const DefaultSimEndYear = 2100

// Config holds the fixed parameters of a simulation.
type Config struct {
	// CurrentYear is the first simulated year. Passed in explicitly so the
	// engine never reads the wall clock.
	CurrentYear int

	// EndYear is the last simulated year, inclusive.
	EndYear int

	// BaselineYearlyEmissions is the no-policy yearly emissions in gigatonnes.
	BaselineYearlyEmissions float64

	// WarmingPerGigatonne converts total gigatonnes into degrees Celsius.
	WarmingPerGigatonne float64
}

// DefaultConfig returns the standard constants for a simulation starting in
// currentYear.
func DefaultConfig(currentYear int) Config {
	return Config{
		CurrentYear:             currentYear,
		EndYear:                 DefaultSimEndYear,
		BaselineYearlyEmissions: OrigYearlyEmissionsGigaTonnes,
		WarmingPerGigatonne:     HighEstDegreesWarmingPerGigaTonne,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.CurrentYear <= 0:
		return fmt.Errorf("%w: current year must be positive, got %d", ErrInvalidConfig, c.CurrentYear)
	case c.EndYear < c.CurrentYear:
		return fmt.Errorf("%w: end year %d is before current year %d", ErrInvalidConfig, c.EndYear, c.CurrentYear)
	case !(c.BaselineYearlyEmissions > 0) || math.IsInf(c.BaselineYearlyEmissions, 0):
		return fmt.Errorf("%w: baseline yearly emissions must be a positive number, got %v",
			ErrInvalidConfig, c.BaselineYearlyEmissions)
	case c.WarmingPerGigatonne < 0 || math.IsNaN(c.WarmingPerGigatonne) || math.IsInf(c.WarmingPerGigatonne, 0):
		return fmt.Errorf("%w: warming per gigatonne must be a non-negative number, got %v",
			ErrInvalidConfig, c.WarmingPerGigatonne)
	}
	return nil
}

// Simulator runs projections for one fixed configuration.
type Simulator struct {
	cfg Config
}

// New validates cfg and returns a Simulator.
func New(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{cfg: cfg}, nil
}

// Config returns the simulator's configuration.
func (s *Simulator) Config() Config {
	return s.cfg
}

// CurrentYear returns the first simulated year.
func (s *Simulator) CurrentYear() int {
	return s.cfg.CurrentYear
}

// EndYear returns the last simulated year.
func (s *Simulator) EndYear() int {
	return s.cfg.EndYear
}

// TotalSimYears is the number of simulated years, end year included. In 2025
// with the default end year this is 76.
func (s *Simulator) TotalSimYears() int {
	return s.cfg.EndYear - s.cfg.CurrentYear + 1
}

// BaselineTotal is the total emissions over the window with no policy anywhere.
func (s *Simulator) BaselineTotal() float64 {
	return s.cfg.BaselineYearlyEmissions * float64(s.TotalSimYears())
}
