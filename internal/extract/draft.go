// Package extract turns free-form text and receipt photos into transaction
// drafts using an OpenAI chat model. The model's output is advisory; every
// field falls back to a safe default before it reaches the domain layer.
package extract

import (
	"time"

	"trackmate/internal/core"
)

// Draft mirrors the JSON object the model is asked to produce.
type Draft struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Type        string `json:"type"`
}

// Resolved is a draft normalized into domain types with defaults applied.
type Resolved struct {
	Type        core.TransactionType
	Amount      core.Money
	Category    string
	Description string
	Date        core.Date
}

// Resolve applies defaults: anything that is not income is an expense, a
// missing category becomes Other, an unparseable date becomes today, and an
// unparseable amount becomes zero so validation rejects it downstream.
func (d Draft) Resolve(now time.Time) Resolved {
	r := Resolved{
		Type:        core.Expense,
		Category:    "Other",
		Description: d.Description,
		Date:        core.DateOf(now),
		Amount:      core.Money{Cents: core.CentsOrZero(d.Amount)},
	}
	if core.TransactionType(d.Type) == core.Income {
		r.Type = core.Income
	}
	if d.Category != "" {
		r.Category = d.Category
	}
	if parsed, err := core.ParseDate(d.Date); err == nil {
		r.Date = parsed
	}
	return r
}
