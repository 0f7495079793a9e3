package http

import (
	"net/http"

	"trackmate/internal/analytics"
	"trackmate/internal/core"
)

type goalRequest struct {
	Title  string `json:"title"`
	Target string `json:"target"`
}

type depositRequest struct {
	Amount string `json:"amount"`
}

// goalResponse pairs a goal with its derived progress so clients never
// recompute the clamping rules.
type goalResponse struct {
	core.Goal
	Progress analytics.GoalStatus `json:"progress"`
}

func toGoalResponse(g core.Goal) goalResponse {
	return goalResponse{Goal: g, Progress: analytics.GoalProgress(g)}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Target)
	if err != nil {
		writeError(w, core.ErrInvalidAmount)
		return
	}

	g, err := s.goals.Create(r.Context(), sanitizeInput(req.Title), core.Money{Cents: cents})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalResponse(g))
}

func (s *Server) handleGoalDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, core.ErrInvalidAmount)
		return
	}

	g, err := s.goals.Deposit(r.Context(), r.PathValue("id"), core.Money{Cents: cents})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(g))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.goals.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
