package http

import (
	"net/http"

	"trackmate/internal/core"
	"trackmate/internal/export"
	"trackmate/internal/log"
	"trackmate/internal/services"
)

type transactionRequest struct {
	Type        string   `json:"type"`
	Amount      string   `json:"amount"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	IsRecurring bool     `json:"isRecurring"`
	SplitWith   []string `json:"splitWith"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, core.ErrInvalidAmount)
		return
	}

	// A missing date means "today"; a present but malformed one is an error.
	date := core.DateOf(s.now())
	if req.Date != "" {
		date, err = core.ParseDate(req.Date)
		if err != nil {
			writeError(w, core.ErrInvalidDate)
			return
		}
	}

	var split []string
	for _, person := range req.SplitWith {
		if p := sanitizeInput(person); p != "" {
			split = append(split, p)
		}
	}

	tx, err := s.transactions.Record(r.Context(), services.NewTransaction{
		Type:        core.TransactionType(req.Type),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Date:        date,
		IsRecurring: req.IsRecurring,
		SplitWith:   split,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateStats()
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	s.invalidateStats()
	w.WriteHeader(http.StatusNoContent)
}

// handleExportCSV streams every transaction as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	if err := export.WriteCSV(w, txs); err != nil {
		// Headers are already sent, all we can do is log.
		log.FromContext(r.Context()).Error("CSV export failed",
			log.FieldError, err.Error(),
			log.FieldOperation, log.OpExport)
	}
}
