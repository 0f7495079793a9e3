// Package trace assigns request IDs and logs request lifecycles.
package trace

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"net"
	"net/http"
	"time"

	"trackmate/internal/log"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDHeader is the response header carrying the request ID so
// clients can correlate their calls with server logs.
const RequestIDHeader = "X-Request-ID"

// Tracer wires request IDs and structured request logging together.
type Tracer struct {
	logger    *log.StructuredLogger
	extractIP func(*http.Request) string
}

func NewTracer(logger *log.StructuredLogger, extractIP func(*http.Request) string) *Tracer {
	return &Tracer{logger: logger, extractIP: extractIP}
}

// Middleware tags each request with a unique ID and logs start and
// completion with the observed status code and duration.
func (t *Tracer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)
		w.Header().Set(RequestIDHeader, requestID)

		clientIP := t.extractIP(r)
		start := time.Now()
		t.logger.LogHTTPStart(ctx, r, clientIP)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		t.logger.LogHTTPEnd(ctx, r, rw.status, time.Since(start).Milliseconds(), clientIP)
	})
}

// GetRequestID returns the request ID stored in ctx, or "" if absent.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// FromRequest reads the request ID from an incoming request's context.
func FromRequest(r *http.Request) string {
	return GetRequestID(r.Context())
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// Fallback keeps requests traceable even if entropy fails.
		return "req_" + hex.EncodeToString([]byte(time.Now().Format("150405.000000")))[:16]
	}
	return "req_" + hex.EncodeToString(buf)
}

// responseWriter records the status code written by the handler.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(status int) {
	if !rw.wroteHeader {
		rw.status = status
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

// Hijack delegates to the underlying writer so websocket upgrades
// keep working through the middleware chain.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hijacker.Hijack()
}
