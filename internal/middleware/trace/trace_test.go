package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trackmate/internal/log"
)

func newTestTracer(buf *bytes.Buffer) *Tracer {
	logger := log.New(log.Config{
		Component: log.ComponentHTTP,
		Handler:   slog.NewTextHandler(buf, nil),
	})
	return NewTracer(log.NewStructuredLogger(logger), func(r *http.Request) string {
		return "203.0.113.5"
	})
}

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	tracer := newTestTracer(&buf)

	var seenID string
	handler := tracer.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = FromRequest(r)
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", nil))

	if seenID == "" || !strings.HasPrefix(seenID, "req_") {
		t.Fatalf("request ID in context = %q, want req_ prefix", seenID)
	}
	if got := rec.Header().Get(RequestIDHeader); got != seenID {
		t.Errorf("response header ID = %q, want %q", got, seenID)
	}
	if !strings.Contains(buf.String(), "status_code=201") {
		t.Errorf("log output missing captured status: %s", buf.String())
	}
}

func TestMiddlewareDefaultsStatusTo200(t *testing.T) {
	var buf bytes.Buffer
	tracer := newTestTracer(&buf)

	handler := tracer.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if !strings.Contains(buf.String(), "status_code=200") {
		t.Errorf("log output missing default status: %s", buf.String())
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := FromRequest(r); got != "" {
		t.Errorf("FromRequest on untraced request = %q, want empty", got)
	}
}

func TestRequestIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generateRequestID()
		if seen[id] {
			t.Fatalf("duplicate request ID %q", id)
		}
		seen[id] = true
	}
}
