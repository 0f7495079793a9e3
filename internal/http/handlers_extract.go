package http

import (
	"io"
	"net/http"

	"trackmate/internal/core"
	"trackmate/internal/log"
)

// maxReceiptBytes caps receipt uploads; larger images should be downscaled
// client-side before upload.
const maxReceiptBytes = 10 << 20

type extractTextRequest struct {
	Text string `json:"text"`
}

// extractResponse is a pre-filled transaction draft. The client shows it for
// confirmation; nothing is stored until the user submits it as a regular
// transaction.
type extractResponse struct {
	Type        core.TransactionType `json:"type"`
	Amount      string               `json:"amount"`
	AmountCents int64                `json:"amountCents"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
	Date        string               `json:"date"`
}

func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "extraction not configured"})
		return
	}

	var req extractTextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if sanitizeInput(req.Text) == "" {
		writeBadRequest(w, "text is required")
		return
	}

	draft, err := s.extractor.FromText(r.Context(), req.Text)
	if err != nil {
		log.FromContext(r.Context()).Error("Text extraction failed",
			log.FieldError, err.Error(),
			log.FieldOperation, log.OpExtract)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "extraction failed"})
		return
	}

	resolved := draft.Resolve(s.now())
	writeJSON(w, http.StatusOK, extractResponse{
		Type:        resolved.Type,
		Amount:      resolved.Amount.DecimalString(),
		AmountCents: resolved.Amount.Cents,
		Category:    resolved.Category,
		Description: resolved.Description,
		Date:        resolved.Date.ISO(),
	})
}

func (s *Server) handleExtractReceipt(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "extraction not configured"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		writeBadRequest(w, "image file is required")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		writeBadRequest(w, "could not read image")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}

	draft, err := s.extractor.FromReceipt(r.Context(), image, mimeType)
	if err != nil {
		log.FromContext(r.Context()).Error("Receipt extraction failed",
			log.FieldError, err.Error(),
			log.FieldOperation, log.OpExtract)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "extraction failed"})
		return
	}

	resolved := draft.Resolve(s.now())
	writeJSON(w, http.StatusOK, extractResponse{
		Type:        resolved.Type,
		Amount:      resolved.Amount.DecimalString(),
		AmountCents: resolved.Amount.Cents,
		Category:    resolved.Category,
		Description: resolved.Description,
		Date:        resolved.Date.ISO(),
	})
}
