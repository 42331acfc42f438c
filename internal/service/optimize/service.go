package optimize

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/metrics"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/tracing"
)

type Service struct {
	optimizer       *Optimizer
	scheduleMetrics *metrics.ScheduleMetrics
	resultRecorder  domain.ScheduleResultRecorder
}

// NewService wires an optimizer with telemetry. scheduleMetrics and
// resultRecorder may be nil.
func NewService(
	optimizer *Optimizer,
	scheduleMetrics *metrics.ScheduleMetrics,
	resultRecorder domain.ScheduleResultRecorder,
) *Service {
	return &Service{
		optimizer:       optimizer,
		scheduleMetrics: scheduleMetrics,
		resultRecorder:  resultRecorder,
	}
}

func (s *Service) Optimize(ctx context.Context, req domain.OptimizeInput) (*domain.OptimizedSchedule, error) {
	start := time.Now()

	ctx, span := tracing.StartOptimizeSpan(ctx, len(req.Courses), len(req.Activities))
	defer span.End()

	outcome, err := s.optimizer.Run(ctx, req)
	if err != nil {
		tracing.RecordOptimizeResult(span, 0, 0, "", err)
		if s.scheduleMetrics != nil {
			s.scheduleMetrics.RecordOptimizeRun(ctx, outcomeLabel(err), time.Since(start))
		}
		slog.InfoContext(ctx, "optimization rejected",
			slog.String("outcome", outcomeLabel(err)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	result := outcome.Schedule
	entryCount := result.Schedule.EntryCount()
	tracing.RecordOptimizeResult(span, entryCount, len(result.Warnings), result.Analysis.WorkLoadBalance, nil)

	if s.scheduleMetrics != nil {
		s.scheduleMetrics.RecordOptimizeRun(ctx, "success", time.Since(start))
		s.scheduleMetrics.RecordItemsPlaced(ctx, string(domain.SchedulingFixed), outcome.Allocation.FixedPlaced)
		s.scheduleMetrics.RecordItemsPlaced(ctx, string(domain.SchedulingFlexible), outcome.Allocation.FlexiblePlaced)
		s.scheduleMetrics.RecordPlacementWarnings(ctx, len(result.Warnings))
	}

	runID := uuid.NewString()

	slog.InfoContext(ctx, "schedule optimized",
		slog.String("run_id", runID),
		slog.Int("course_count", result.Analysis.TotalCourses),
		slog.Int("activity_count", result.Analysis.TotalActivities),
		slog.Int("entry_count", entryCount),
		slog.Int("warning_count", len(result.Warnings)),
		slog.String("workload_balance", result.Analysis.WorkLoadBalance),
		slog.Duration("duration", time.Since(start)),
	)

	if s.resultRecorder != nil {
		record := domain.OptimizationResultRecord{
			RunID:                 runID,
			RecordedAt:            time.Now(),
			TotalCourses:          result.Analysis.TotalCourses,
			TotalActivities:       result.Analysis.TotalActivities,
			EntryCount:            entryCount,
			WarningCount:          len(result.Warnings),
			WorkLoadBalance:       result.Analysis.WorkLoadBalance,
			AverageFreeMinutes:    result.Analysis.AverageFreeHoursPerDay * 60,
			DailyCommittedMinutes: result.Analysis.DailyCommittedMinutes,
		}
		if err := s.resultRecorder.RecordOptimization(ctx, record); err != nil {
			slog.WarnContext(ctx, "failed to record optimization result",
				slog.String("run_id", runID),
				slog.String("error", err.Error()),
			)
		}
	}

	return result, nil
}

func outcomeLabel(err error) string {
	var verr *domain.ValidationError
	var cerr *domain.ConfigurationError
	switch {
	case errors.As(err, &verr):
		return "validation_error"
	case errors.As(err, &cerr):
		return "configuration_error"
	default:
		return "error"
	}
}
