// Package ratelimit provides per-client request rate limiting.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

type clientWindow struct {
	windowStart time.Time
	requests    int
}

// Limiter tracks request counts per client key over a fixed window.
type Limiter struct {
	mu       sync.Mutex
	clients  map[string]*clientWindow
	limit    int
	window   time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter allowing limit requests per window for
// each client key, and starts a background goroutine that evicts idle
// clients. Call Stop when the limiter is no longer needed.
func NewLimiter(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether the client identified by key may make another
// request in the current window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cw, ok := l.clients[key]
	if !ok || now.Sub(cw.windowStart) >= l.window {
		l.clients[key] = &clientWindow{windowStart: now, requests: 1}
		return true
	}

	if cw.requests >= l.limit {
		return false
	}
	cw.requests++
	return true
}

// ActiveClients returns the number of client keys currently tracked.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop terminates the cleanup goroutine. Safe to call multiple times.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stopCh:
			return
		}
	}
}

func (l *Limiter) evictIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-10 * l.window)
	for key, cw := range l.clients {
		if cw.windowStart.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

// Middleware rejects requests over the limit with 429. The client key
// is derived with extractKey, typically the client IP.
func (l *Limiter) Middleware(extractKey func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(extractKey(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
