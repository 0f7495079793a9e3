package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewLimiter(3, time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("fourth request should be rejected")
	}
}

func TestAllowIndependentKeys(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	defer l.Stop()

	if !l.Allow("10.0.0.1") {
		t.Fatal("first client should be allowed")
	}
	if !l.Allow("10.0.0.2") {
		t.Fatal("second client should be allowed independently")
	}
	if l.ActiveClients() != 2 {
		t.Fatalf("ActiveClients = %d, want 2", l.ActiveClients())
	}
}

func TestAllowWindowReset(t *testing.T) {
	l := NewLimiter(1, 10*time.Millisecond)
	defer l.Stop()

	if !l.Allow("10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("second request in window should be rejected")
	}

	time.Sleep(15 * time.Millisecond)
	if !l.Allow("10.0.0.1") {
		t.Fatal("request after window reset should be allowed")
	}
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	defer l.Stop()

	handler := l.Middleware(func(r *http.Request) string { return "client" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on 429")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	l.Stop()
	l.Stop()
}
