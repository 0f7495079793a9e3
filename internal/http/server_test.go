package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trackmate/internal/core"
	"trackmate/internal/log"
	"trackmate/internal/memstore"
	"trackmate/internal/services"
)

var testNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := log.New(log.Config{
		Component: log.ComponentHTTP,
		Handler:   slog.NewTextHandler(io.Discard, nil),
	})
	st := memstore.New(core.Money{Cents: 30000_00})

	srv := NewServer(":0", Deps{
		Store:        st,
		Transactions: services.NewTransactionService(st, nil, nil, logger),
		Goals:        services.NewGoalService(st, nil, logger),
		Debts:        services.NewDebtService(st, nil, nil, logger),
		Logger:       logger,
	})
	srv.now = func() time.Time { return testNow }
	t.Cleanup(func() {
		srv.cacheManager.Stop()
		srv.limiter.Stop()
	})
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d", rec.Code)
	}
}

func TestCreateAndListTransactions(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"type":        "expense",
		"amount":      "42.50",
		"category":    "Food",
		"description": "groceries",
		"date":        "2025-03-10",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[core.Transaction](t, rec)
	if created.ID == "" {
		t.Fatal("created transaction has no ID")
	}
	if created.Amount.Cents != 42_50 {
		t.Fatalf("amount = %d cents, want 4250", created.Amount.Cents)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/transactions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	txs := decodeBody[[]core.Transaction](t, rec)
	if len(txs) != 1 || txs[0].ID != created.ID {
		t.Fatalf("list = %+v, want the created transaction", txs)
	}
	if got := txs[0].Date.ISO(); got != "2025-03-10" {
		t.Fatalf("date round-trip = %q, want 2025-03-10", got)
	}
}

func TestCreateTransactionDefaultsDateToToday(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"type":        "income",
		"amount":      "100",
		"category":    "Other",
		"description": "salary",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[core.Transaction](t, rec)
	if got := created.Date.ISO(); got != "2025-03-15" {
		t.Fatalf("defaulted date = %q, want 2025-03-15", got)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			name: "bad amount",
			body: map[string]any{"type": "expense", "amount": "abc", "category": "Food", "description": "x"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "bad type",
			body: map[string]any{"type": "transfer", "amount": "10", "category": "Food", "description": "x"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "bad date",
			body: map[string]any{"type": "expense", "amount": "10", "category": "Food", "description": "x", "date": "tomorrow"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "empty description",
			body: map[string]any{"type": "expense", "amount": "10", "category": "Food", "description": "  "},
			want: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCreateTransactionMalformedJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"type": "expense", "amount": "5", "category": "Food", "description": "coffee",
	})
	created := decodeBody[core.Transaction](t, rec)

	rec = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestStatsReflectsMutations(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"type": "expense", "amount": "100", "category": "Food", "description": "a", "date": "2025-03-01",
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	stats := decodeBody[map[string]any](t, rec)
	if got := stats["expense"].(float64); got != 100_00 {
		t.Fatalf("expense = %v, want 10000", got)
	}

	// A mutation must invalidate the cached snapshot.
	doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"type": "expense", "amount": "50", "category": "Food", "description": "b", "date": "2025-03-02",
	})
	rec = doJSON(t, srv, http.MethodGet, "/api/stats", nil)
	stats = decodeBody[map[string]any](t, rec)
	if got := stats["expense"].(float64); got != 150_00 {
		t.Fatalf("expense after second create = %v, want 15000", got)
	}
}

func TestHeatmapEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/heatmap?year=2025&month=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("heatmap status = %d", rec.Code)
	}
	resp := decodeBody[struct {
		Year  int              `json:"year"`
		Month int              `json:"month"`
		Days  []map[string]any `json:"days"`
	}](t, rec)
	if resp.Year != 2025 || resp.Month != 2 || len(resp.Days) != 28 {
		t.Fatalf("heatmap = year %d month %d days %d", resp.Year, resp.Month, len(resp.Days))
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/heatmap?month=13", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid month status = %d, want 400", rec.Code)
	}
}

func TestEMIEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/emi?principal=500000&rate=9.5&years=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("emi status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[struct {
		Monthly decimal.Decimal `json:"monthly"`
	}](t, rec)
	monthly := resp.Monthly.InexactFloat64()
	if monthly < 10495 || monthly > 10510 {
		t.Fatalf("monthly = %v, want about 10501", monthly)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/emi?principal=abc&rate=9.5&years=5", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad principal status = %d, want 400", rec.Code)
	}
}

func TestGoalLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/goals", map[string]any{
		"title": "Vacation", "target": "1000",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal status = %d, body %s", rec.Code, rec.Body.String())
	}
	goal := decodeBody[goalResponse](t, rec)

	rec = doJSON(t, srv, http.MethodPost, "/api/goals/"+goal.ID+"/deposit", map[string]any{"amount": "250"})
	if rec.Code != http.StatusOK {
		t.Fatalf("deposit status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[goalResponse](t, rec)
	if updated.Current.Cents != 250_00 {
		t.Fatalf("current = %d, want 25000", updated.Current.Cents)
	}
	if updated.Progress.Percent != 25 {
		t.Fatalf("progress = %v, want 25", updated.Progress.Percent)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/goals/"+goal.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete goal status = %d", rec.Code)
	}
}

func TestDebtSettlement(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/debts", map[string]any{
		"person": "Alice", "amount": "30", "description": "lunch", "date": "2025-03-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create debt status = %d, body %s", rec.Code, rec.Body.String())
	}
	debt := decodeBody[core.Debt](t, rec)

	rec = doJSON(t, srv, http.MethodPost, "/api/debts/"+debt.ID+"/settle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("settle status = %d, body %s", rec.Code, rec.Body.String())
	}
	tx := decodeBody[core.Transaction](t, rec)
	if tx.Type != core.Income || tx.Amount.Cents != 30_00 {
		t.Fatalf("settlement tx = %+v", tx)
	}
	if tx.Description != "Settled by Alice" {
		t.Fatalf("description = %q", tx.Description)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/debts", nil)
	debts := decodeBody[[]core.Debt](t, rec)
	if len(debts) != 0 {
		t.Fatalf("debts after settle = %+v, want none", debts)
	}
}

func TestCategories(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	cats := decodeBody[[]string](t, rec)
	if len(cats) != len(core.DefaultCategories) {
		t.Fatalf("default categories = %d, want %d", len(cats), len(core.DefaultCategories))
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/categories", map[string]any{"name": "Travel"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add category status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	cats = decodeBody[[]string](t, rec)
	found := false
	for _, c := range cats {
		if c == "Travel" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Travel missing from %v", cats)
	}
}

func TestBudgetRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/budget", map[string]any{"monthlyBudget": "1500.00"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set budget status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Spend 80% of the new budget this month.
	doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"type": "expense", "amount": "1200", "category": "Housing", "description": "rent", "date": "2025-03-05",
	})

	rec = doJSON(t, srv, http.MethodGet, "/api/budget", nil)
	resp := decodeBody[struct {
		MonthlyBudget int64 `json:"monthlyBudget"`
		Gauge         struct {
			Percent float64 `json:"percent"`
			Tier    string  `json:"tier"`
		} `json:"gauge"`
	}](t, rec)
	if resp.MonthlyBudget != 1500_00 {
		t.Fatalf("budget = %d, want 150000", resp.MonthlyBudget)
	}
	if resp.Gauge.Tier != "warning" {
		t.Fatalf("gauge tier = %q, want warning at 80%%", resp.Gauge.Tier)
	}
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"type": "expense", "amount": "9.99", "category": "Food", "description": "snack", "date": "2025-03-08",
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/transactions/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "trackmate_export.csv") {
		t.Fatalf("content disposition = %q", cd)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "Date,Description,Category,Type,Amount,Recurring") {
		t.Fatalf("csv header missing: %q", body)
	}
	if !strings.Contains(body, "2025-03-08,snack,Food,expense,9.99,No") {
		t.Fatalf("csv row missing: %q", body)
	}
}

func TestExtractUnconfigured(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/extract/text", map[string]any{"text": "coffee 4.50"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("extract text status = %d, want 503", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodPost, "/api/extract/receipt", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("extract receipt status = %d, want 503", rec.Code)
	}
}

func TestSplitTransaction(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"type":        "expense",
		"amount":      "90",
		"category":    "Food",
		"description": "dinner",
		"date":        "2025-03-10",
		"splitWith":   []string{"Alice", "Bob"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[core.Transaction](t, rec)
	if created.Amount.Cents != 30_00 {
		t.Fatalf("user share = %d, want 3000", created.Amount.Cents)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/debts", nil)
	debts := decodeBody[[]core.Debt](t, rec)
	if len(debts) != 2 {
		t.Fatalf("debts = %d, want 2", len(debts))
	}
	for _, d := range debts {
		if d.Amount.Cents != 30_00 {
			t.Fatalf("debt share = %d, want 3000", d.Amount.Cents)
		}
	}
}

func TestWebsocketUnavailableWithoutHub(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/ws", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ws status = %d, want 503 without a hub", rec.Code)
	}
}
