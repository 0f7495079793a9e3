// Package analytics is the derivation engine: pure, synchronous functions
// that turn a transaction snapshot (plus budget and loan parameters) into the
// aggregated figures the application displays. Nothing here performs I/O,
// holds state, or returns errors; degenerate input produces zero-valued
// output.
package analytics

import (
	"math"
	"sort"
	"time"

	"trackmate/internal/core"
)

type (
	// CategoryValue is one slice of the expense-by-category breakdown.
	CategoryValue struct {
		Name  string `json:"name"`
		Value int64  `json:"value"`
	}

	// MonthPoint is one bar of the monthly income/expense series. Buckets
	// key on the fully qualified year-month so that same-named months in
	// different years never merge; Label carries the short display name.
	MonthPoint struct {
		Key     string    `json:"key"`
		Label   string    `json:"label"`
		Month   time.Time `json:"month"`
		Income  int64     `json:"income"`
		Expense int64     `json:"expense"`
	}

	// Stats is the full aggregation output, recomputed from scratch on
	// every snapshot change and never persisted.
	Stats struct {
		Income  int64 `json:"income"`
		Expense int64 `json:"expense"`
		Balance int64 `json:"balance"`

		CategoryData []CategoryValue `json:"categoryData"`
		BarData      []MonthPoint    `json:"barData"`

		CurrentMonthIncome  int64 `json:"currentMonthIncome"`
		CurrentMonthExpense int64 `json:"currentMonthExpense"`
		PrevMonthIncome     int64 `json:"prevMonthIncome"`
		PrevMonthExpense    int64 `json:"prevMonthExpense"`

		// DailySpend maps ISO dates of the current month to expense cents.
		DailySpend map[string]int64 `json:"dailySpend"`

		Recurring []RecurringDue `json:"recurring"`

		Streak       int `json:"streak"`
		IncomeTrend  int `json:"incomeTrend"`
		ExpenseTrend int `json:"expenseTrend"`
	}
)

// ComputeStats performs a single pass over the transaction snapshot. The
// evaluation time fixes what "current month" and "previous month" mean; the
// budget feeds the streak counter. The input slice is never mutated.
func ComputeStats(txs []core.Transaction, now time.Time, budget core.Money) Stats {
	currentKey := core.DateOf(now).MonthKey()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevKey := core.DateOf(firstOfMonth.AddDate(0, -1, 0)).MonthKey()

	s := Stats{
		CategoryData: []CategoryValue{},
		BarData:      []MonthPoint{},
		DailySpend:   map[string]int64{},
		Recurring:    []RecurringDue{},
	}

	catTotals := map[string]int64{}
	months := map[string]*MonthPoint{}

	for _, t := range txs {
		val := t.Amount.Cents
		key := t.Date.MonthKey()

		if t.IsRecurring {
			s.Recurring = append(s.Recurring, RecurringDue{Transaction: t, NextDue: NextDue(t, now)})
		}

		switch t.Type {
		case core.Income:
			s.Income += val
			if key == currentKey {
				s.CurrentMonthIncome += val
			}
			if key == prevKey {
				s.PrevMonthIncome += val
			}
		default:
			s.Expense += val
			catTotals[t.Category] += val
			if key == currentKey {
				s.CurrentMonthExpense += val
				s.DailySpend[t.Date.ISO()] += val
			}
			if key == prevKey {
				s.PrevMonthExpense += val
			}
		}

		mp, ok := months[key]
		if !ok {
			first := time.Date(t.Date.Year(), t.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
			mp = &MonthPoint{Key: key, Label: first.Format("Jan"), Month: first}
			months[key] = mp
		}
		if t.Type == core.Income {
			mp.Income += val
		} else {
			mp.Expense += val
		}
	}

	s.Balance = s.Income - s.Expense

	for name, value := range catTotals {
		s.CategoryData = append(s.CategoryData, CategoryValue{Name: name, Value: value})
	}
	sort.Slice(s.CategoryData, func(i, j int) bool {
		a, b := s.CategoryData[i], s.CategoryData[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.Name < b.Name
	})

	for _, mp := range months {
		s.BarData = append(s.BarData, *mp)
	}
	sort.Slice(s.BarData, func(i, j int) bool {
		return s.BarData[i].Key < s.BarData[j].Key
	})

	s.Streak = Streak(s.DailySpend, budget, now)
	s.IncomeTrend = Trend(s.CurrentMonthIncome, s.PrevMonthIncome)
	s.ExpenseTrend = Trend(s.CurrentMonthExpense, s.PrevMonthExpense)

	return s
}

// Trend is the month-over-month change as a signed whole percentage. A zero
// previous month reads as a full positive swing when anything was recorded,
// and as flat otherwise; this keeps the division defined.
func Trend(current, previous int64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(current-previous) / float64(previous) * 100))
}
