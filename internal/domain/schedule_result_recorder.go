package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=schedule_result_recorder.go -destination=schedule_result_recorder_mock.go -package=domain

type OptimizationResultRecord struct {
	RunID                 string
	RecordedAt            time.Time
	TotalCourses          int
	TotalActivities       int
	EntryCount            int
	WarningCount          int
	WorkLoadBalance       string
	AverageFreeMinutes    float64
	DailyCommittedMinutes [DaysPerWeek]int
}

type SyncResultRecord struct {
	RunID        string
	OwnerID      string
	RecordedAt   time.Time
	Submitted    int
	SyncedCount  int
	SkippedCount int
	FailedCount  int
}

type ScheduleResultRecorder interface {
	RecordOptimization(ctx context.Context, record OptimizationResultRecord) error
	RecordSync(ctx context.Context, record SyncResultRecord) error
	Close() error
}
