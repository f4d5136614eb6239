package engine

// BudgetMethod identifies how a warming figure was derived.
type BudgetMethod string

// Budget method constants. Only the linear estimate is produced today; the
// budget bands are reserved for carbon-budget based estimates.
const (
	// BudgetMethodWithin15C marks a total inside the 1.5 °C carbon budget.
	BudgetMethodWithin15C BudgetMethod = "within_1_5c"

	// BudgetMethodWithin2C marks a total inside the 2 °C carbon budget.
	BudgetMethodWithin2C BudgetMethod = "within_2c"

	// BudgetMethodLinearEstimate marks a fixed degrees-per-gigatonne estimate.
	BudgetMethodLinearEstimate BudgetMethod = "linear_estimate"
)

// String returns the string representation of the budget method.
func (m BudgetMethod) String() string {
	return string(m)
}

// IsValid returns true if the budget method is a recognized value.
func (m BudgetMethod) IsValid() bool {
	switch m {
	case BudgetMethodWithin15C, BudgetMethodWithin2C, BudgetMethodLinearEstimate:
		return true
	default:
		return false
	}
}

// ClassifyBudget picks the method used for totalGt. Every total currently
// uses the linear estimate.
func ClassifyBudget(_ float64) BudgetMethod {
	return BudgetMethodLinearEstimate
}

// EstimateWarmingDegrees converts window-total gigatonnes into degrees of
// warming by 2100. Negative totals yield negative degrees.
func (s *Simulator) EstimateWarmingDegrees(totalGt float64) float64 {
	return totalGt * s.cfg.WarmingPerGigatonne
}
