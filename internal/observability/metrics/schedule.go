package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	scheduleMeterName = "schedule.service"
)

type ScheduleMetrics struct {
	optimizeRuns         metric.Int64Counter
	itemsPlaced          metric.Int64Counter
	placementWarnings    metric.Int64Counter
	optimizeDuration     metric.Float64Histogram
	eventsMaterialized   metric.Int64Counter
	syncEvents           metric.Int64Counter
	syncDuration         metric.Float64Histogram
	providerCallDuration metric.Float64Histogram
}

func NewScheduleMetrics() (*ScheduleMetrics, error) {
	meter := otel.Meter(scheduleMeterName)

	optimizeRuns, err := meter.Int64Counter(
		"schedule_optimize_runs_total",
		metric.WithDescription("Total number of optimization requests"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	itemsPlaced, err := meter.Int64Counter(
		"schedule_items_placed_total",
		metric.WithDescription("Total number of items placed on the weekly timetable"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	placementWarnings, err := meter.Int64Counter(
		"schedule_placement_warnings_total",
		metric.WithDescription("Total number of placement warnings returned to callers"),
		metric.WithUnit("{warning}"),
	)
	if err != nil {
		return nil, err
	}

	optimizeDuration, err := meter.Float64Histogram(
		"schedule_optimize_duration_seconds",
		metric.WithDescription("Time spent building one optimized week"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5,
		),
	)
	if err != nil {
		return nil, err
	}

	eventsMaterialized, err := meter.Int64Counter(
		"calendar_events_materialized_total",
		metric.WithDescription("Total number of calendar events materialized"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	syncEvents, err := meter.Int64Counter(
		"calendar_sync_events_total",
		metric.WithDescription("Calendar events handled by the sync adapter"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	syncDuration, err := meter.Float64Histogram(
		"calendar_sync_duration_seconds",
		metric.WithDescription("Time spent on one sync request"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	providerCallDuration, err := meter.Float64Histogram(
		"calendar_provider_call_duration_seconds",
		metric.WithDescription("Latency of a single calendar provider upsert"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	return &ScheduleMetrics{
		optimizeRuns:         optimizeRuns,
		itemsPlaced:          itemsPlaced,
		placementWarnings:    placementWarnings,
		optimizeDuration:     optimizeDuration,
		eventsMaterialized:   eventsMaterialized,
		syncEvents:           syncEvents,
		syncDuration:         syncDuration,
		providerCallDuration: providerCallDuration,
	}, nil
}

func (m *ScheduleMetrics) RecordOptimizeRun(ctx context.Context, outcome string, duration time.Duration) {
	attrs := appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("outcome", outcome),
	})
	m.optimizeRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.optimizeDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

func (m *ScheduleMetrics) RecordItemsPlaced(ctx context.Context, scheduling string, count int) {
	if count <= 0 {
		return
	}
	m.itemsPlaced.Add(ctx, int64(count), metric.WithAttributes(
		appendLoadtestLabels(ctx, []attribute.KeyValue{
			attribute.String("scheduling", scheduling),
		})...,
	))
}

func (m *ScheduleMetrics) RecordPlacementWarnings(ctx context.Context, count int) {
	if count <= 0 {
		return
	}
	m.placementWarnings.Add(ctx, int64(count), metric.WithAttributes(appendLoadtestLabels(ctx, nil)...))
}

func (m *ScheduleMetrics) RecordEventsMaterialized(ctx context.Context, count int) {
	m.eventsMaterialized.Add(ctx, int64(count), metric.WithAttributes(appendLoadtestLabels(ctx, nil)...))
}

func (m *ScheduleMetrics) RecordSyncEvents(ctx context.Context, outcome string, count int) {
	if count <= 0 {
		return
	}
	m.syncEvents.Add(ctx, int64(count), metric.WithAttributes(
		appendLoadtestLabels(ctx, []attribute.KeyValue{
			attribute.String("outcome", outcome),
		})...,
	))
}

func (m *ScheduleMetrics) RecordSyncDuration(ctx context.Context, duration time.Duration) {
	m.syncDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(appendLoadtestLabels(ctx, nil)...))
}

func (m *ScheduleMetrics) RecordProviderCall(ctx context.Context, provider, outcome string, duration time.Duration) {
	m.providerCallDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	))
}
