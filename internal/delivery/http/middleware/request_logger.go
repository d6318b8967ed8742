package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/logger"

	"github.com/google/uuid"
)

// RequestLogger logs all HTTP requests with timing and status
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Reuse an upstream request ID when a proxy set one
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()[:8]
		}

		// Create logger with request ID
		reqLogger := logger.WithRequestID(requestID)

		// Add logger to context
		ctx := logger.NewContext(r.Context(), &reqLogger)
		ctx = logger.ContextWithRequestID(ctx, requestID)
		r = r.WithContext(ctx)

		// Add request ID to response header
		w.Header().Set("X-Request-ID", requestID)

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Process request. Inner middleware attaches the admin to this holder.
		holder := &actorHolder{}
		next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), actorKey{}, holder)))

		// Calculate duration
		duration := time.Since(start)

		// Log all requests
		logEvent := reqLogger.Info()
		if wrapped.statusCode >= 500 {
			logEvent = reqLogger.Error()
		} else if wrapped.statusCode >= 400 {
			logEvent = reqLogger.Warn()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Int("status", wrapped.statusCode).
			Dur("duration_ms", duration).
			Str("ip", getClientIP(r)).
			Str("origin", r.Header.Get("Origin")).
			Str("user_agent", r.UserAgent()).
			Str("admin_id", holder.id).
			Msg("HTTP")
	})
}

type actorKey struct{}

// actorHolder carries the admin id back out of the handler chain so the
// access log line can include it.
type actorHolder struct {
	id string
}

// recordActor is called by AuthMiddleware once the admin is known.
func recordActor(r *http.Request, admin *domain.Admin) {
	if h, ok := r.Context().Value(actorKey{}).(*actorHolder); ok {
		h.id = admin.ID
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// getClientIP extracts client IP from request
// getClientIP takes the first X-Forwarded-For hop, then X-Real-IP, then the
// peer address without its port.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
