package resultrecorder

import (
	"context"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.ScheduleResultRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordOptimization(_ context.Context, _ domain.OptimizationResultRecord) error {
	return nil
}

func (n *noopRecorder) RecordSync(_ context.Context, _ domain.SyncResultRecord) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
