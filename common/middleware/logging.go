package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/CodeurPro04/driverWago/common/logger"
	"github.com/google/uuid"
)

type contextKey string

const (
	RequestIDKey     contextKey = "request_id"
	RequestLoggerKey contextKey = "request_logger"
)

// Logging adds a request id and a request-scoped logger to every request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()

		reqLogger := logger.RequestLogger(
			r.Context(),
			r.Method,
			r.URL.Path,
			r.RemoteAddr,
			r.UserAgent(),
			requestID,
		)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = context.WithValue(ctx, RequestLoggerKey, reqLogger)
		r = r.WithContext(ctx)

		wrw := &wrappedResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrw, r)

		duration := time.Since(start)
		reqLogger.Info("request completed",
			"status_code", wrw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"bytes_written", wrw.bytesWritten,
		)
	})
}

// wrappedResponseWriter captures response status and size
type wrappedResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (w *wrappedResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *wrappedResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

// GetRequestLogger retrieves logger from request context
func GetRequestLogger(ctx context.Context) *slog.Logger {
	if reqLogger, ok := ctx.Value(RequestLoggerKey).(*slog.Logger); ok {
		return reqLogger
	}
	return logger.WithContext(ctx)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		return reqID
	}
	return ""
}
