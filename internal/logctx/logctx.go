// Package logctx provides context-based logger injection and extraction.
//
// The benchmark driver enriches the context logger as it descends into a
// candidate and an iteration, so a load failure deep inside a loader is
// logged with the candidate name and iteration index attached:
//
//	ctx = logctx.WithCandidate(ctx, "ungrouped-planar")
//	ctx = logctx.WithIteration(ctx, i)
//	log := logctx.FromContext(ctx)
//	log.Warn().Err(err).Msg("load failed")
package logctx

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/eunmann/tifbench/pkg/logging"
)

// loggerKey is the private key type for storing loggers in context.
// Using a private type prevents collisions with other packages.
type loggerKey struct{}

// DefaultLogger returns the process-wide logger configured by logging.Init.
// It is used when no context logger is available.
func DefaultLogger() zerolog.Logger {
	return *logging.L()
}

// WithLogger returns a new context with the given logger attached.
// The logger can be retrieved using FromContext.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the logger from the context. If the context is nil
// or does not contain a logger, returns the default logger.
//
// This function never returns a zero-value logger or panics.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return DefaultLogger()
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return DefaultLogger()
}

// WithStr returns a new context with a logger that has the specified string field added.
func WithStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, logger)
}

// WithInt returns a new context with a logger that has the specified int field added.
func WithInt(ctx context.Context, key string, value int) context.Context {
	logger := FromContext(ctx).With().Int(key, value).Logger()
	return WithLogger(ctx, logger)
}

// WithCandidate tags the context logger with the candidate loader name.
func WithCandidate(ctx context.Context, candidate string) context.Context {
	return WithStr(ctx, "candidate", candidate)
}

// WithIteration tags the context logger with the timed iteration index.
func WithIteration(ctx context.Context, iteration int) context.Context {
	return WithInt(ctx, "iteration", iteration)
}
