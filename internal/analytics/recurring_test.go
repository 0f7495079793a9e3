package analytics

import (
	"testing"
	"time"

	"trackmate/internal/core"
)

func TestNextDue(t *testing.T) {
	cases := []struct {
		name     string
		recorded string
		now      time.Time
		want     string
	}{
		{
			"anniversary still ahead this month",
			"2024-11-20",
			time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
			"2025-03-20",
		},
		{
			"anniversary already passed rolls to next month",
			"2024-11-05",
			time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
			"2025-04-05",
		},
		{
			"due today stays today",
			"2024-11-10",
			time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC),
			"2025-03-10",
		},
		{
			"day 31 clamps in short months",
			"2025-01-31",
			time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			"2025-04-30",
		},
		{
			"day 31 clamps to leap february",
			"2024-01-31",
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			"2024-02-29",
		},
		{
			"december rolls into january",
			"2024-06-02",
			time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
			"2025-01-02",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorded, err := core.ParseDate(tc.recorded)
			if err != nil {
				t.Fatal(err)
			}
			got := NextDue(core.Transaction{Date: recorded, IsRecurring: true}, tc.now)
			if got.ISO() != tc.want {
				t.Errorf("NextDue = %s, want %s", got.ISO(), tc.want)
			}
		})
	}
}
