// Package logger configures slog for the service and tags log lines with the
// request and schedule they were written for.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the handler and level of a logger.
type Options struct {
	Env    string    // "production" writes JSON, anything else text
	Level  string    // debug, info, warn or error; empty picks by Env
	Output io.Writer // defaults to os.Stdout
}

// New builds a logger writing JSON at info in production and text at debug otherwise.
func New(opts Options) *slog.Logger {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	level := slog.LevelDebug
	if opts.Env == "production" {
		level = slog.LevelInfo
	}
	if opts.Level != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(strings.TrimSpace(opts.Level))); err == nil {
			level = parsed
		}
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if opts.Env == "production" {
		return slog.New(slog.NewJSONHandler(opts.Output, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(opts.Output, handlerOpts))
}

// Context keys
type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	scheduleIDKey contextKey = "schedule_id"
)

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithScheduleID adds the schedule being worked on to context
func WithScheduleID(ctx context.Context, scheduleID string) context.Context {
	return context.WithValue(ctx, scheduleIDKey, scheduleID)
}

// FromContext returns the default logger with the IDs carried by ctx attached.
func FromContext(ctx context.Context) *slog.Logger {
	l := slog.Default()

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		l = l.With("request_id", requestID)
	}

	if scheduleID, ok := ctx.Value(scheduleIDKey).(string); ok && scheduleID != "" {
		l = l.With("schedule_id", scheduleID)
	}

	return l
}
