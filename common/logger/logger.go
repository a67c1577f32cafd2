package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// Log is the global slog logger instance
var Log *slog.Logger

// Init initializes the global logger. Development mode uses a pretty text
// handler, everything else emits JSON for log shippers.
func Init(service string, isDevelopment bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	var handler slog.Handler
	if isDevelopment {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	Log = slog.New(handler).With("service", service)
}

// InitDefault initializes with default development settings
func InitDefault(service string) {
	Init(service, true)
}

// WithContext returns logger with trace context if available
func WithContext(ctx context.Context) *slog.Logger {
	if Log == nil {
		return slog.Default()
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return Log
	}

	spanCtx := span.SpanContext()
	return Log.With(
		"trace_id", spanCtx.TraceID().String(),
		"span_id", spanCtx.SpanID().String(),
	)
}

// RequestLogger returns a logger pre-loaded with per-request attributes.
func RequestLogger(ctx context.Context, method, path, remoteAddr, userAgent, requestID string) *slog.Logger {
	return WithContext(ctx).With(
		"method", method,
		"path", path,
		"remote_addr", remoteAddr,
		"user_agent", userAgent,
		"request_id", requestID,
	)
}

// Info logs an info message
func Info(msg string, args ...any) {
	if Log != nil {
		Log.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	if Log != nil {
		Log.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...any) {
	if Log != nil {
		Log.Error(msg, args...)
	}
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	if Log != nil {
		Log.Debug(msg, args...)
	}
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...any) {
	if Log != nil {
		Log.Error(msg, args...)
	}
	os.Exit(1)
}

// Infof logs a formatted info message
func Infof(template string, args ...interface{}) {
	if Log != nil {
		Log.Info(fmt.Sprintf(template, args...))
	}
}

// Errorf logs a formatted error message
func Errorf(template string, args ...interface{}) {
	if Log != nil {
		Log.Error(fmt.Sprintf(template, args...))
	}
}
