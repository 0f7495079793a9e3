package analytics

import (
	"time"

	"trackmate/internal/core"
)

// RecurringDue is a recurring transaction annotated with its next due date.
type RecurringDue struct {
	core.Transaction
	NextDue core.Date `json:"nextDue"`
}

// NextDue estimates when a recurring transaction will next recur: the next
// monthly anniversary of its recorded day-of-month, clamped to the length of
// shorter months (a charge on the 31st falls due on the 28th/29th/30th when
// necessary). A charge whose anniversary is today is considered due today.
func NextDue(t core.Transaction, now time.Time) core.Date {
	today := core.DateOf(now)
	day := t.Date.Day()

	candidate := clampedDate(today.Year(), today.Month(), day)
	if candidate.Before(today.Time) {
		next := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		candidate = clampedDate(next.Year(), next.Month(), day)
	}
	return candidate
}

func clampedDate(year int, month time.Month, day int) core.Date {
	if last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(); day > last {
		day = last
	}
	return core.NewDate(year, month, day)
}
