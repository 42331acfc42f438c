package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const syncTracerName = "github.com/KasumiMercury/campus-schedule-optimizer/internal/service/calsync"

func SyncTracer() trace.Tracer {
	return otel.Tracer(syncTracerName)
}

func StartSyncSpan(ctx context.Context, ownerID string, eventCount int) (context.Context, trace.Span) {
	return SyncTracer().Start(ctx, "calendar.sync",
		trace.WithAttributes(
			attribute.String("sync.owner_id", ownerID),
			attribute.Int("sync.event_count", eventCount),
		),
	)
}

func StartSyncBatchSpan(ctx context.Context, batchIndex, batchSize int) (context.Context, trace.Span) {
	return SyncTracer().Start(ctx, "calendar.sync.batch",
		trace.WithAttributes(
			attribute.Int("sync.batch_index", batchIndex),
			attribute.Int("sync.batch_size", batchSize),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return SyncTracer().Start(ctx, "calendar.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartRedisOperationSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return SyncTracer().Start(ctx, "calendar.redis."+operation,
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.String("db.key", key),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordSyncResult(span trace.Span, syncedCount, skippedCount, failedCount int, err error) {
	span.SetAttributes(
		attribute.Int("sync.synced_count", syncedCount),
		attribute.Int("sync.skipped_count", skippedCount),
		attribute.Int("sync.failed_count", failedCount),
	)
	recordStatus(span, err)
}

func RecordExternalAPIResult(span trace.Span, statusCode int, err error) {
	if statusCode > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	}
	recordStatus(span, err)
}

// InjectToHTTPRequest propagates the trace context of ctx on an outgoing
// request.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// ExtractFromHTTPRequest returns ctx carrying the remote span context found
// in the request headers, if any.
func ExtractFromHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(req.Header))
}
