// Package logging carries a slog logger through contexts so the portal
// client and poll controller can log without plumbing a logger argument.
package logging

import (
	"context"
	"log/slog"
	"os"
)

var (
	defaultLogLevel slog.LevelVar
	defaultLogger   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: &defaultLogLevel,
	}))
)

func init() {
	defaultLogLevel.Set(slog.LevelWarn)
}

type contextKey struct{}

var loggerKey = contextKey{}

// Ctx returns the logger from the context. If no logger is found, it returns
// the default logger.
func Ctx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

// With returns a new context with the given logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// SetVerbosity maps a -v count onto the default log level: warnings by
// default, info with -v, debug with -v -v.
func SetVerbosity(count int) {
	switch {
	case count <= 0:
		defaultLogLevel.Set(slog.LevelWarn)
	case count == 1:
		defaultLogLevel.Set(slog.LevelInfo)
	default:
		defaultLogLevel.Set(slog.LevelDebug)
	}
}
