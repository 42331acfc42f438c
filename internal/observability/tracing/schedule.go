package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const scheduleTracerName = "github.com/KasumiMercury/campus-schedule-optimizer/internal/service/optimize"

func ScheduleTracer() trace.Tracer {
	return otel.Tracer(scheduleTracerName)
}

func StartOptimizeSpan(ctx context.Context, courseCount, activityCount int) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.optimize",
		trace.WithAttributes(
			attribute.Int("schedule.course_count", courseCount),
			attribute.Int("schedule.activity_count", activityCount),
		),
	)
}

func StartAllocateSpan(ctx context.Context, fixedCount, flexibleCount int) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.allocate",
		trace.WithAttributes(
			attribute.Int("allocate.fixed_count", fixedCount),
			attribute.Int("allocate.flexible_count", flexibleCount),
		),
	)
}

func StartMaterializeSpan(ctx context.Context, entryCount, itemCount int) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "calendar.materialize",
		trace.WithAttributes(
			attribute.Int("materialize.entry_count", entryCount),
			attribute.Int("materialize.item_count", itemCount),
		),
	)
}

func RecordOptimizeResult(span trace.Span, entryCount, warningCount int, balance string, err error) {
	span.SetAttributes(
		attribute.Int("schedule.entry_count", entryCount),
		attribute.Int("schedule.warning_count", warningCount),
		attribute.String("schedule.workload_balance", balance),
	)
	recordStatus(span, err)
}

func RecordAllocateResult(span trace.Span, fixedPlaced, flexiblePlaced, unplaced int) {
	span.SetAttributes(
		attribute.Int("allocate.fixed_placed", fixedPlaced),
		attribute.Int("allocate.flexible_placed", flexiblePlaced),
		attribute.Int("allocate.unplaced", unplaced),
	)
	span.SetStatus(codes.Ok, "")
}

func RecordMaterializeResult(span trace.Span, eventCount, duplicateCount, excludedCount int) {
	span.SetAttributes(
		attribute.Int("materialize.event_count", eventCount),
		attribute.Int("materialize.duplicate_count", duplicateCount),
		attribute.Int("materialize.excluded_count", excludedCount),
	)
	span.SetStatus(codes.Ok, "")
}

func recordStatus(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
