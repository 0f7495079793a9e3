package analytics

import (
	"testing"

	"trackmate/internal/core"
)

func TestComputeBudgetGauge(t *testing.T) {
	budget := core.Money{Cents: 20000_00}

	cases := []struct {
		name        string
		expense     int64
		budget      core.Money
		wantPercent float64
		wantTier    BudgetTier
	}{
		{"nothing spent", 0, budget, 0, BudgetHealthy},
		{"half spent", 10000_00, budget, 50, BudgetHealthy},
		{"exactly seventy", 14000_00, budget, 70, BudgetHealthy},
		{"just over seventy", 14200_00, budget, 71, BudgetWarning},
		{"exactly ninety", 18000_00, budget, 90, BudgetWarning},
		{"just over ninety", 18200_00, budget, 91, BudgetCritical},
		{"blown budget clamps to 100", 30000_00, budget, 100, BudgetCritical},
		{"zero budget", 5000_00, core.Money{}, 0, BudgetHealthy},
		{"negative budget", 5000_00, core.Money{Cents: -1}, 0, BudgetHealthy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeBudgetGauge(tc.expense, tc.budget)
			if got.Percent != tc.wantPercent {
				t.Errorf("Percent = %v, want %v", got.Percent, tc.wantPercent)
			}
			if got.Tier != tc.wantTier {
				t.Errorf("Tier = %q, want %q", got.Tier, tc.wantTier)
			}
		})
	}
}
