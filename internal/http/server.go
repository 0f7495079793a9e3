// Package http exposes the JSON API and websocket endpoint.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"trackmate/internal/analytics"
	"trackmate/internal/cache"
	"trackmate/internal/extract"
	"trackmate/internal/log"
	"trackmate/internal/middleware/ratelimit"
	"trackmate/internal/middleware/security"
	"trackmate/internal/middleware/trace"
	"trackmate/internal/services"
	"trackmate/internal/store"
)

const (
	requestsPerMinute = 120
	statsCacheTTL     = time.Minute
)

// Deps carries everything the server needs. Extractor may be nil when the
// AI extraction settings are absent; the endpoints then answer 503.
type Deps struct {
	Store        store.Store
	Transactions *services.TransactionService
	Goals        *services.GoalService
	Debts        *services.DebtService
	Extractor    *extract.Client
	Hub          *Hub
	Logger       *log.Logger
}

type Server struct {
	http.Server

	store        store.Store
	transactions *services.TransactionService
	goals        *services.GoalService
	debts        *services.DebtService
	extractor    *extract.Client
	hub          *Hub
	logger       *log.Logger

	// statsCache holds computed aggregations keyed by evaluation date, so a
	// day rollover naturally misses. Any mutation clears it wholesale.
	statsCache   *cache.LRUCache[analytics.Stats]
	cacheManager *cache.Manager
	limiter      *ratelimit.Limiter

	now func() time.Time

	shutdownOnce sync.Once
}

// NewServer wires routes and the middleware chain, returning a server ready
// for ListenAndServe.
func NewServer(addr string, deps Deps) *Server {
	s := &Server{
		store:        deps.Store,
		transactions: deps.Transactions,
		goals:        deps.Goals,
		debts:        deps.Debts,
		extractor:    deps.Extractor,
		hub:          deps.Hub,
		logger:       deps.Logger.WithComponent(log.ComponentHTTP),
		statsCache:   cache.NewLRUCache[analytics.Stats](16, statsCacheTTL),
		cacheManager: cache.NewManager(),
		limiter:      ratelimit.NewLimiter(requestsPerMinute, time.Minute),
		now:          time.Now,
	}
	s.cacheManager.Register(s.statsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/heatmap", s.handleHeatmap)
	mux.HandleFunc("GET /api/emi", s.handleEMI)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/transactions/export", s.handleExportCSV)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("POST /api/goals/{id}/deposit", s.handleGoalDeposit)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)

	mux.HandleFunc("GET /api/debts", s.handleListDebts)
	mux.HandleFunc("POST /api/debts", s.handleCreateDebt)
	mux.HandleFunc("POST /api/debts/{id}/settle", s.handleSettleDebt)
	mux.HandleFunc("DELETE /api/debts/{id}", s.handleDeleteDebt)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleAddCategory)

	mux.HandleFunc("GET /api/budget", s.handleGetBudget)
	mux.HandleFunc("PUT /api/budget", s.handleSetBudget)

	mux.HandleFunc("POST /api/extract/text", s.handleExtractText)
	mux.HandleFunc("POST /api/extract/receipt", s.handleExtractReceipt)

	mux.HandleFunc("GET /ws", s.handleWebsocket)

	extractor := security.NewClientIPExtractor()
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewTracer(log.NewStructuredLogger(s.logger), extractor.ExtractClientIP)

	var handler http.Handler = mux
	handler = log.Middleware(s.logger)(handler)
	handler = s.limiter.Middleware(extractor.ExtractClientIP)(handler)
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// invalidateStats drops all cached aggregations. Called after every
// successful mutation; recomputation is cheap relative to serving stale
// totals.
func (s *Server) invalidateStats() {
	s.statsCache.Clear()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.MonthlyBudget(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "store not ready"})
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "websocket unavailable"})
		return
	}
	s.hub.HandleRequest(w, r)
}

// Shutdown stops background goroutines, disconnects websocket clients, then
// drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		if s.hub != nil {
			_ = s.hub.Close()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}
