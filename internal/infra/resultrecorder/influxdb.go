//go:build !gcloud

package resultrecorder

import (
	"context"
	"log/slog"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ScheduleResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "schedule result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, schedule result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)

	slog.InfoContext(ctx, "schedule result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket),
	}, nil
}

func (r *influxDBRecorder) RecordOptimization(ctx context.Context, record domain.OptimizationResultRecord) error {
	if err := r.writeAPI.WritePoint(ctx, optimizationPoint(record)); err != nil {
		slog.WarnContext(ctx, "failed to write optimization result to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
		)
	}
	return nil
}

func (r *influxDBRecorder) RecordSync(ctx context.Context, record domain.SyncResultRecord) error {
	if err := r.writeAPI.WritePoint(ctx, syncPoint(record)); err != nil {
		slog.WarnContext(ctx, "failed to write sync result to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
		)
	}
	return nil
}

func optimizationPoint(record domain.OptimizationResultRecord) *write.Point {
	fields := map[string]any{
		"total_courses":        record.TotalCourses,
		"total_activities":     record.TotalActivities,
		"entry_count":          record.EntryCount,
		"warning_count":        record.WarningCount,
		"average_free_minutes": record.AverageFreeMinutes,
	}
	for _, day := range domain.AllWeekdays() {
		fields["committed_"+strings.ToLower(day.String())] = record.DailyCommittedMinutes[day]
	}

	return influxdb2.NewPoint(
		"schedule_optimization",
		map[string]string{
			"run_id":  runIDOrDefault(record.RunID),
			"balance": record.WorkLoadBalance,
		},
		fields,
		pointTime(record.RecordedAt),
	)
}

func syncPoint(record domain.SyncResultRecord) *write.Point {
	return influxdb2.NewPoint(
		"calendar_sync",
		map[string]string{
			"run_id": runIDOrDefault(record.RunID),
		},
		map[string]any{
			"submitted":     record.Submitted,
			"synced_count":  record.SyncedCount,
			"skipped_count": record.SkippedCount,
			"failed_count":  record.FailedCount,
		},
		pointTime(record.RecordedAt),
	)
}

func runIDOrDefault(runID string) string {
	if runID == "" {
		return "default"
	}
	return runID
}

func pointTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
