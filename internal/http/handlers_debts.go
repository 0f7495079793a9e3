package http

import (
	"net/http"

	"trackmate/internal/core"
)

type debtRequest struct {
	Person      string `json:"person"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.debts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if debts == nil {
		debts = []core.Debt{}
	}
	writeJSON(w, http.StatusOK, debts)
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, core.ErrInvalidAmount)
		return
	}

	date := core.DateOf(s.now())
	if req.Date != "" {
		date, err = core.ParseDate(req.Date)
		if err != nil {
			writeError(w, core.ErrInvalidDate)
			return
		}
	}

	d, err := s.debts.Create(r.Context(),
		sanitizeInput(req.Person),
		core.Money{Cents: cents},
		sanitizeInput(req.Description),
		date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// handleSettleDebt closes the debt and returns the income transaction that
// records the repayment.
func (s *Server) handleSettleDebt(w http.ResponseWriter, r *http.Request) {
	tx, err := s.debts.Settle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidateStats()
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	if err := s.debts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
