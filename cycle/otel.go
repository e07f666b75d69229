package cycle

import (
	"context"
	"log/slog"

	"github.com/amp-labs/cyclekit/envutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/amp-labs/cyclekit/cycle"

// startTransitionSpan creates the span for one transition.
// Uses the global tracer provider installed by the telemetry package.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller
func startTransitionSpan(ctx context.Context, t *Transitioner, from, to string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "cycle.transition")
	span.SetAttributes(
		attribute.String("cycle", t.name),
		attribute.String("handle", t.handle.String()),
		attribute.String("from_state", from),
		attribute.String("to_state", to),
	)

	if isDebugMode() {
		spanCtx := span.SpanContext()
		slog.InfoContext(ctx, "OTEL Span started",
			"span_name", "cycle.transition",
			"trace_id", spanCtx.TraceID().String(),
			"span_id", spanCtx.SpanID().String(),
		)
	}

	return ctx, span
}

// extractTraceContext returns the trace and span IDs in ctx, if any.
func extractTraceContext(ctx context.Context) (traceID, spanID string) {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return "", ""
	}

	return spanCtx.TraceID().String(), spanCtx.SpanID().String()
}

// isDebugMode reports whether CYCLEKIT_DEBUG_SPANS is enabled.
func isDebugMode() bool {
	return envutil.Bool("CYCLEKIT_DEBUG_SPANS", envutil.Default(false)).ValueOrElse(false)
}
