//go:build !gcloud

package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// gcpTraceAttrs has no Cloud Trace to link to locally; it only reports
// whether the span is sampled so unexported spans are easy to spot.
func gcpTraceAttrs(ctx context.Context, _ string) []slog.Attr {
	return []slog.Attr{
		slog.Bool("trace_sampled", trace.SpanContextFromContext(ctx).IsSampled()),
	}
}
