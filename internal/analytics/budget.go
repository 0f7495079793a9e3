package analytics

import "trackmate/internal/core"

type BudgetTier string

const (
	BudgetHealthy  BudgetTier = "healthy"
	BudgetWarning  BudgetTier = "warning"  // above 70% of budget
	BudgetCritical BudgetTier = "critical" // above 90% of budget
)

// BudgetGauge is the current-month spend measured against the configured
// monthly budget.
type BudgetGauge struct {
	Percent float64    `json:"percent"`
	Tier    BudgetTier `json:"tier"`
}

// ComputeBudgetGauge grades the current month's expense against the monthly
// budget. The percentage is clamped to [0, 100] for display; a missing or
// non-positive budget yields a zero gauge.
func ComputeBudgetGauge(currentMonthExpense int64, budget core.Money) BudgetGauge {
	if budget.Cents <= 0 {
		return BudgetGauge{Tier: BudgetHealthy}
	}
	percent := float64(currentMonthExpense) / float64(budget.Cents) * 100
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}

	tier := BudgetHealthy
	switch {
	case percent > 90:
		tier = BudgetCritical
	case percent > 70:
		tier = BudgetWarning
	}
	return BudgetGauge{Percent: percent, Tier: tier}
}
