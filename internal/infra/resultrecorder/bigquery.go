//go:build gcloud

package resultrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

type bigQueryOptimizationRecord struct {
	RecordedAt         time.Time `bigquery:"recorded_at"`
	RunID              string    `bigquery:"run_id"`
	TotalCourses       int64     `bigquery:"total_courses"`
	TotalActivities    int64     `bigquery:"total_activities"`
	EntryCount         int64     `bigquery:"entry_count"`
	WarningCount       int64     `bigquery:"warning_count"`
	WorkLoadBalance    string    `bigquery:"workload_balance"`
	AverageFreeMinutes float64   `bigquery:"average_free_minutes"`
	DailyCommitted     []int64   `bigquery:"daily_committed_minutes"`
}

type bigQuerySyncRecord struct {
	RecordedAt   time.Time `bigquery:"recorded_at"`
	RunID        string    `bigquery:"run_id"`
	Submitted    int64     `bigquery:"submitted"`
	SyncedCount  int64     `bigquery:"synced_count"`
	SkippedCount int64     `bigquery:"skipped_count"`
	FailedCount  int64     `bigquery:"failed_count"`
}

type bigQueryRecorder struct {
	client           *bigquery.Client
	scheduleInserter *bigquery.Inserter
	syncInserter     *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ScheduleResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "schedule result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, schedule result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, schedule result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	dataset := client.Dataset(cfg.BigQueryDataset)

	slog.InfoContext(ctx, "schedule result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
	)

	return &bigQueryRecorder{
		client:           client,
		scheduleInserter: dataset.Table(cfg.BigQueryScheduleTable).Inserter(),
		syncInserter:     dataset.Table(cfg.BigQuerySyncTable).Inserter(),
	}, nil
}

func (r *bigQueryRecorder) RecordOptimization(ctx context.Context, record domain.OptimizationResultRecord) error {
	daily := make([]int64, 0, len(record.DailyCommittedMinutes))
	for _, m := range record.DailyCommittedMinutes {
		daily = append(daily, int64(m))
	}

	row := &bigQueryOptimizationRecord{
		RecordedAt:         record.RecordedAt,
		RunID:              record.RunID,
		TotalCourses:       int64(record.TotalCourses),
		TotalActivities:    int64(record.TotalActivities),
		EntryCount:         int64(record.EntryCount),
		WarningCount:       int64(record.WarningCount),
		WorkLoadBalance:    record.WorkLoadBalance,
		AverageFreeMinutes: record.AverageFreeMinutes,
		DailyCommitted:     daily,
	}

	if err := r.scheduleInserter.Put(ctx, row); err != nil {
		slog.WarnContext(ctx, "failed to insert optimization result to BigQuery",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
		)
	}
	return nil
}

func (r *bigQueryRecorder) RecordSync(ctx context.Context, record domain.SyncResultRecord) error {
	row := &bigQuerySyncRecord{
		RecordedAt:   record.RecordedAt,
		RunID:        record.RunID,
		Submitted:    int64(record.Submitted),
		SyncedCount:  int64(record.SyncedCount),
		SkippedCount: int64(record.SkippedCount),
		FailedCount:  int64(record.FailedCount),
	}

	if err := r.syncInserter.Put(ctx, row); err != nil {
		slog.WarnContext(ctx, "failed to insert sync result to BigQuery",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
		)
	}
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
