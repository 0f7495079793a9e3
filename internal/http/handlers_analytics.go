package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"trackmate/internal/analytics"
	"trackmate/internal/core"
	"trackmate/internal/log"
)

// handleStats serves the full aggregation snapshot. Results are cached per
// evaluation date and invalidated on every mutation.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	key := "stats:" + core.DateOf(now).ISO()

	if stats, ok := s.statsCache.Get(key); ok {
		writeJSON(w, http.StatusOK, stats)
		return
	}

	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		log.FromContext(r.Context()).Error("List transactions failed", log.FieldError, err.Error())
		writeError(w, err)
		return
	}
	budget, err := s.store.MonthlyBudget(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	stats := analytics.ComputeStats(txs, now, budget)
	s.statsCache.Set(key, stats)
	writeJSON(w, http.StatusOK, stats)
}

// handleHeatmap serves the spending calendar for a given month, defaulting
// to the current one.
func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r, s.now())
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Year  int                    `json:"year"`
		Month int                    `json:"month"`
		Days  []analytics.HeatmapDay `json:"days"`
	}{Year: year, Month: int(month), Days: analytics.MonthlyHeatmap(txs, year, month)})
}

// handleEMI computes loan installment figures from query parameters. Pure
// calculation, nothing is stored.
func (s *Server) handleEMI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	principal, err := decimal.NewFromString(strings.TrimSpace(q.Get("principal")))
	if err != nil {
		writeBadRequest(w, "invalid principal parameter")
		return
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(q.Get("rate")))
	if err != nil {
		writeBadRequest(w, "invalid rate parameter")
		return
	}
	years, err := strconv.Atoi(strings.TrimSpace(q.Get("years")))
	if err != nil {
		writeBadRequest(w, "invalid years parameter")
		return
	}

	writeJSON(w, http.StatusOK, analytics.EMISchedule(principal, rate, years))
}
