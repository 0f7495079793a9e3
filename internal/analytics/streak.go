package analytics

import (
	"time"

	"trackmate/internal/core"
)

// streakWindowDays is the rolling window the streak is counted over. It is a
// product decision that the streak looks at the trailing ~month regardless of
// account age or calendar month length.
const streakWindowDays = 30

// dailyBudgetDivisor prorates the monthly budget to a day. The constant 30
// is deliberate; switching to real month lengths would silently change the
// streak users see.
const dailyBudgetDivisor = 30

// Streak counts consecutive budget-compliant days ending yesterday. A day is
// compliant when its recorded spend does not exceed the prorated daily
// budget; a day with no recorded spend is compliant. The walk stops at the
// first day over budget, so the result is in [0, 29]. Today is never
// counted.
func Streak(dailySpend map[string]int64, budget core.Money, now time.Time) int {
	dailyBudget := float64(budget.Cents) / dailyBudgetDivisor
	today := core.DateOf(now)

	streak := 0
	for i := 1; i < streakWindowDays; i++ {
		day := core.Date{Time: today.AddDate(0, 0, -i)}
		if float64(dailySpend[day.ISO()]) > dailyBudget {
			break
		}
		streak++
	}
	return streak
}
