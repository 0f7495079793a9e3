package analytics

import (
	"time"

	"trackmate/internal/core"
)

type HeatTier string

const (
	TierNone   HeatTier = "none" // no spend recorded, distinct from the lightest tier
	TierLow    HeatTier = "low"
	TierMedium HeatTier = "medium"
	TierHigh   HeatTier = "high"
	TierPeak   HeatTier = "peak"
)

// HeatmapDay is one cell of the spending calendar.
type HeatmapDay struct {
	Day   int      `json:"day"`
	Spend int64    `json:"spend"`
	Tier  HeatTier `json:"tier"`
}

// heatmapFloorCents keeps single small purchases from rendering as the
// darkest tier in an otherwise quiet month: the scale's maximum never drops
// below 100 currency units.
const heatmapFloorCents = 100 * 100

// MonthlyHeatmap buckets the month's expenses by day and grades each day
// against the month's peak spending day. It always recomputes from the full
// snapshot for whichever month the caller navigated to; there is no
// incremental state to drift.
func MonthlyHeatmap(txs []core.Transaction, year int, month time.Month) []HeatmapDay {
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	spend := make(map[int]int64, daysInMonth)
	for _, t := range txs {
		if t.Type != core.Expense {
			continue
		}
		if t.Date.Year() != year || t.Date.Month() != month {
			continue
		}
		spend[t.Date.Day()] += t.Amount.Cents
	}

	maxSpend := int64(heatmapFloorCents)
	for _, v := range spend {
		if v > maxSpend {
			maxSpend = v
		}
	}

	days := make([]HeatmapDay, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		s := spend[day]
		days = append(days, HeatmapDay{Day: day, Spend: s, Tier: tierFor(s, maxSpend)})
	}
	return days
}

func tierFor(spend, maxSpend int64) HeatTier {
	if spend <= 0 {
		return TierNone
	}
	intensity := float64(spend) / float64(maxSpend)
	switch {
	case intensity < 0.2:
		return TierLow
	case intensity < 0.5:
		return TierMedium
	case intensity < 0.8:
		return TierHigh
	default:
		return TierPeak
	}
}
