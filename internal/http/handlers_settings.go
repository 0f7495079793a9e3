package http

import (
	"net/http"

	"trackmate/internal/analytics"
	"trackmate/internal/core"
	"trackmate/internal/log"
	"trackmate/internal/services"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	name := sanitizeInput(req.Name)
	if err := s.store.AddCategory(r.Context(), name); err != nil {
		writeError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.NotifyChange(services.EntityCategory, log.OpCreate, name)
	}
	writeJSON(w, http.StatusCreated, categoryRequest{Name: name})
}

type budgetResponse struct {
	MonthlyBudget core.Money            `json:"monthlyBudget"`
	Gauge         analytics.BudgetGauge `json:"gauge"`
}

type budgetRequest struct {
	MonthlyBudget string `json:"monthlyBudget"`
}

// handleGetBudget reports the configured monthly budget together with the
// gauge grading this month's spend against it.
func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := s.store.MonthlyBudget(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	stats := analytics.ComputeStats(txs, s.now(), budget)
	writeJSON(w, http.StatusOK, budgetResponse{
		MonthlyBudget: budget,
		Gauge:         analytics.ComputeBudgetGauge(stats.CurrentMonthExpense, budget),
	})
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.MonthlyBudget)
	if err != nil {
		writeError(w, core.ErrInvalidAmount)
		return
	}

	budget := core.Money{Cents: cents}
	if err := s.store.SetMonthlyBudget(r.Context(), budget); err != nil {
		writeError(w, err)
		return
	}

	// The streak and gauge derive from the budget, so cached stats are stale.
	s.invalidateStats()
	if s.hub != nil {
		s.hub.NotifyChange(services.EntityBudget, log.OpUpdate, "")
	}

	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	stats := analytics.ComputeStats(txs, s.now(), budget)
	writeJSON(w, http.StatusOK, budgetResponse{
		MonthlyBudget: budget,
		Gauge:         analytics.ComputeBudgetGauge(stats.CurrentMonthExpense, budget),
	})
}
