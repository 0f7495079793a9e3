package analytics

import (
	"testing"
	"time"

	"trackmate/internal/core"
)

func TestMonthlyHeatmap(t *testing.T) {
	t.Run("empty month is all neutral", func(t *testing.T) {
		days := MonthlyHeatmap(nil, 2025, time.April)
		if len(days) != 30 {
			t.Fatalf("April has %d days", len(days))
		}
		for _, d := range days {
			if d.Tier != TierNone || d.Spend != 0 {
				t.Fatalf("day %d = %+v, want neutral", d.Day, d)
			}
		}
	})

	t.Run("leap february", func(t *testing.T) {
		if n := len(MonthlyHeatmap(nil, 2024, time.February)); n != 29 {
			t.Fatalf("got %d days", n)
		}
	})

	t.Run("tiers scale against the busiest day", func(t *testing.T) {
		txs := []core.Transaction{
			tx("max", core.Expense, 10000_00, "Shopping", "2025-03-05", false),
			tx("low", core.Expense, 1000_00, "Food", "2025-03-06", false),
			tx("mid", core.Expense, 4000_00, "Food", "2025-03-07", false),
			tx("high", core.Expense, 7000_00, "Food", "2025-03-08", false),
			tx("income", core.Income, 50000_00, "Other", "2025-03-05", false),
			tx("other-month", core.Expense, 9999_00, "Food", "2025-02-05", false),
		}
		days := MonthlyHeatmap(txs, 2025, time.March)

		wantTiers := map[int]HeatTier{
			4: TierNone,
			5: TierPeak,
			6: TierLow,
			7: TierMedium,
			8: TierHigh,
		}
		for day, want := range wantTiers {
			got := days[day-1]
			if got.Day != day {
				t.Fatalf("index %d holds day %d", day-1, got.Day)
			}
			if got.Tier != want {
				t.Errorf("day %d tier = %q, want %q", day, got.Tier, want)
			}
		}
		if days[4].Spend != 10000_00 {
			t.Errorf("income leaked into spend: %d", days[4].Spend)
		}
	})

	t.Run("floor keeps tiny months from maxing out", func(t *testing.T) {
		// busiest day is 40.00, under the 100.00 floor, so 40/100 lands
		// in the medium band rather than peak
		txs := []core.Transaction{
			tx("tiny", core.Expense, 40_00, "Food", "2025-03-02", false),
		}
		days := MonthlyHeatmap(txs, 2025, time.March)
		if days[1].Tier != TierMedium {
			t.Fatalf("day 2 tier = %q, want %q", days[1].Tier, TierMedium)
		}
	})

	t.Run("same-day spend accumulates", func(t *testing.T) {
		txs := []core.Transaction{
			tx("a", core.Expense, 60_00, "Food", "2025-03-09", false),
			tx("b", core.Expense, 60_00, "Food", "2025-03-09", false),
		}
		days := MonthlyHeatmap(txs, 2025, time.March)
		if days[8].Spend != 120_00 {
			t.Fatalf("day 9 spend = %d", days[8].Spend)
		}
	})
}
