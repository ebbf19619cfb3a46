package controller

import (
	"context"
	"emailcleaner/pkg/logger"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

// maxRequestIDLen bounds client supplied request IDs before they reach the logs.
const maxRequestIDLen = 64

// CtxKey is the type of the context keys set by this package.
type CtxKey string

// RequestIDKey is the context key of the current request ID.
const RequestIDKey CtxKey = "request_id"

// responseRecorder remembers the status code and body size written downstream.
type responseRecorder struct {
	http.ResponseWriter

	status int
	bytes  int64
}

func (rec *responseRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *responseRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += int64(n)

	return n, err
}

// Unwrap lets http.ResponseController reach the original writer.
func (rec *responseRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// ClientIP returns the originating client address: the first X-Forwarded-For
// entry, then X-Real-IP, then the host of the connection's remote address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}

// RequestID returns the request ID stored in ctx by WithLogger.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)

	return id
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}

	return strings.IndexFunc(id, func(r rune) bool {
		return r <= ' ' || r > '~'
	}) < 0
}

// WithLogger tags every request with an ID, taken from the X-Request-Id header
// when it is sane and generated otherwise, echoes it in the response and
// attaches it to the request logger. One access log line is written per
// request; server errors are logged at error level.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logger.WithFields(ctx, zap.String(string(RequestIDKey), requestID))

		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status_code", rec.status),
			zap.Int64("request_bytes", r.ContentLength),
			zap.Int64("response_bytes", rec.bytes),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", ClientIP(r)),
			zap.String("user_agent", r.UserAgent()),
		}
		if rec.status >= http.StatusInternalServerError {
			logger.Error(ctx, "request failed", fields...)

			return
		}
		logger.Info(ctx, "request served", fields...)
	})
}
