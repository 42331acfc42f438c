package optimize

import (
	"context"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/tracing"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/allocator"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/normalize"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/workload"
)

// Optimizer turns a raw request into an optimized week. It holds no state
// between calls and is safe for concurrent use.
type Optimizer struct {
	normalizer *normalize.Normalizer
	allocator  *allocator.Allocator
}

func NewOptimizer(defaults domain.Preferences) *Optimizer {
	return &Optimizer{
		normalizer: normalize.NewNormalizer(defaults),
		allocator:  allocator.NewAllocator(),
	}
}

// Outcome keeps the intermediate results of a run next to the response.
type Outcome struct {
	Schedule   *domain.OptimizedSchedule
	Input      *normalize.Input
	Allocation *allocator.Result
}

// Optimize validates the request, places every item and analyzes the week.
// Validation and configuration problems are returned before any placement.
func (o *Optimizer) Optimize(ctx context.Context, req domain.OptimizeInput) (*domain.OptimizedSchedule, error) {
	outcome, err := o.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return outcome.Schedule, nil
}

func (o *Optimizer) Run(ctx context.Context, req domain.OptimizeInput) (*Outcome, error) {
	in, err := o.normalizer.Normalize(req)
	if err != nil {
		return nil, err
	}

	allocCtx, span := tracing.StartAllocateSpan(ctx, len(in.FixedItems()), len(in.FlexibleActivities()))
	result := o.allocator.Allocate(allocCtx, in)
	tracing.RecordAllocateResult(span, result.FixedPlaced, result.FlexiblePlaced, len(result.Unplaced))
	span.End()

	schedule := result.Schedule()
	analysis := workload.Analyze(schedule, in)

	return &Outcome{
		Schedule: &domain.OptimizedSchedule{
			Schedule:        schedule,
			Analysis:        analysis,
			Recommendations: buildRecommendations(result, analysis),
			Tips:            buildTips(in),
			Warnings:        result.Warnings,
		},
		Input:      in,
		Allocation: result,
	}, nil
}
