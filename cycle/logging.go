package cycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/amp-labs/cyclekit/logger"
)

// Logger provides logging hooks for transitioner activity.
type Logger interface {
	StateEntered(ctx context.Context, cycle, state string, delay time.Duration)
	TransitionExecuted(ctx context.Context, cycle, from, to string, count uint64)
	CallbackDropped(ctx context.Context, cycle, state, reason string)
	Cancelled(ctx context.Context, cycle, state string)
}

// DefaultLogger implements Logger on top of slog.
type DefaultLogger struct {
	get func(ctx context.Context) *slog.Logger
}

// NewDefaultLogger logs through logger.Get, so subsystem and context values
// set with logger.With are included.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		get: func(ctx context.Context) *slog.Logger {
			return logger.Get(ctx)
		},
	}
}

// NewSlogLogger logs to l directly.
func NewSlogLogger(l *slog.Logger) *DefaultLogger {
	return &DefaultLogger{
		get: func(context.Context) *slog.Logger {
			return l
		},
	}
}

func (l *DefaultLogger) StateEntered(ctx context.Context, cycle, state string, delay time.Duration) {
	l.get(ctx).DebugContext(ctx, "State entered",
		"cycle", cycle,
		"state", state,
		"delay_ms", delay.Milliseconds(),
	)
}

func (l *DefaultLogger) TransitionExecuted(ctx context.Context, cycle, from, to string, count uint64) {
	traceID, spanID := extractTraceContext(ctx)

	fields := []any{
		"cycle", cycle,
		"from", from,
		"to", to,
		"transitions", count,
	}

	if traceID != "" {
		fields = append(fields, "trace_id", traceID, "span_id", spanID)
	}

	l.get(ctx).InfoContext(ctx, "Transition executed", fields...)
}

func (l *DefaultLogger) CallbackDropped(ctx context.Context, cycle, state, reason string) {
	l.get(ctx).DebugContext(ctx, "Deferred transition dropped",
		"cycle", cycle,
		"state", state,
		"reason", reason,
	)
}

func (l *DefaultLogger) Cancelled(ctx context.Context, cycle, state string) {
	l.get(ctx).InfoContext(ctx, "Transitioner cancelled",
		"cycle", cycle,
		"state", state,
	)
}

// callbackDropped records a discarded deferred callback.
func callbackDropped(ctx context.Context, log Logger, cycle, state, reason string) {
	staleCallbacksTotal.WithLabelValues(sanitizeCycle(cycle), reason).Inc()

	if log != nil {
		log.CallbackDropped(ctx, cycle, state, reason)
	}
}
