package extract

import (
	"testing"
	"time"

	"trackmate/internal/core"
)

func TestDraftResolve(t *testing.T) {
	now := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		name  string
		draft Draft
		want  Resolved
	}{
		{
			"fully specified",
			Draft{Description: "salary", Amount: "50000", Category: "Other", Date: "2025-03-01", Type: "income"},
			Resolved{Type: core.Income, Amount: core.Money{Cents: 50000_00}, Category: "Other", Description: "salary", Date: core.NewDate(2025, 3, 1)},
		},
		{
			"everything defaults",
			Draft{Description: "groceries"},
			Resolved{Type: core.Expense, Amount: core.Money{}, Category: "Other", Description: "groceries", Date: core.DateOf(now)},
		},
		{
			"unknown type falls back to expense",
			Draft{Description: "x", Amount: "10", Type: "transfer"},
			Resolved{Type: core.Expense, Amount: core.Money{Cents: 10_00}, Category: "Other", Description: "x", Date: core.DateOf(now)},
		},
		{
			"bad date falls back to today",
			Draft{Description: "x", Amount: "5.50", Date: "yesterday", Category: "Food"},
			Resolved{Type: core.Expense, Amount: core.Money{Cents: 5_50}, Category: "Food", Description: "x", Date: core.DateOf(now)},
		},
		{
			"garbage amount becomes zero",
			Draft{Description: "x", Amount: "about forty"},
			Resolved{Type: core.Expense, Amount: core.Money{}, Category: "Other", Description: "x", Date: core.DateOf(now)},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.draft.Resolve(now)
			if got != tc.want {
				t.Fatalf("Resolve = %+v, want %+v", got, tc.want)
			}
		})
	}
}
