package calsync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/infra/calprovider"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/metrics"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/tracing"
)

const (
	defaultBatchSize      = 20
	defaultMaxConcurrency = 4
	defaultCallTimeout    = 10 * time.Second
)

type Config struct {
	BatchSize      int
	MaxConcurrency int
	CallTimeout    time.Duration
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	provider        calprovider.Provider
	ledger          domain.SyncLedger
	scheduleMetrics *metrics.ScheduleMetrics
	resultRecorder  domain.ScheduleResultRecorder

	batchSize      int
	maxConcurrency int
	callTimeout    time.Duration
	now            func() time.Time
}

// NewService builds a sync service. ledger, scheduleMetrics and
// resultRecorder may be nil; without a ledger every event is pushed.
func NewService(
	provider calprovider.Provider,
	ledger domain.SyncLedger,
	cfg Config,
	scheduleMetrics *metrics.ScheduleMetrics,
	resultRecorder domain.ScheduleResultRecorder,
	opts ...Option,
) *Service {
	s := &Service{
		provider:        provider,
		ledger:          ledger,
		scheduleMetrics: scheduleMetrics,
		resultRecorder:  resultRecorder,
		batchSize:       cfg.BatchSize,
		maxConcurrency:  cfg.MaxConcurrency,
		callTimeout:     cfg.CallTimeout,
		now:             time.Now,
	}
	if s.batchSize <= 0 {
		s.batchSize = defaultBatchSize
	}
	if s.maxConcurrency <= 0 {
		s.maxConcurrency = defaultMaxConcurrency
	}
	if s.callTimeout <= 0 {
		s.callTimeout = defaultCallTimeout
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync pushes events to the provider. Per-event failures are collected into
// the report rather than aborting the run; errors are listed in input order.
func (s *Service) Sync(ctx context.Context, ownerID string, inputs []domain.SyncEventInput) *Report {
	start := time.Now()

	ctx, span := tracing.StartSyncSpan(ctx, ownerID, len(inputs))
	defer span.End()

	outcomes := make([]outcome, len(inputs))
	events := make([]domain.CalendarEvent, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	candidates := make([]int, 0, len(inputs))

	for i, in := range inputs {
		event, err := ParseEvent(in)
		if err != nil {
			slog.WarnContext(ctx, "skipping invalid sync event",
				slog.String("event_id", in.ID),
				slog.String("error", err.Error()),
			)
			outcomes[i] = outcome{status: statusFailed, err: newSyncError(in.ID, err.Error(), err)}
			continue
		}
		if _, dup := seen[event.ID]; dup {
			slog.DebugContext(ctx, "duplicate event in sync request",
				slog.String("event_id", event.ID),
			)
			outcomes[i] = outcome{status: statusSkipped}
			continue
		}
		seen[event.ID] = struct{}{}
		events[i] = event
		candidates = append(candidates, i)
	}

	pending := s.filterUnchanged(ctx, ownerID, candidates, events, outcomes)

	for b := 0; b*s.batchSize < len(pending); b++ {
		lo := b * s.batchSize
		hi := min(lo+s.batchSize, len(pending))
		s.syncBatch(ctx, ownerID, b, pending[lo:hi], events, outcomes)
	}

	report := buildReport(inputs, outcomes)
	tracing.RecordSyncResult(span, report.SyncedCount, report.SkippedCount, report.FailedCount(), nil)
	s.observe(ctx, ownerID, len(inputs), report, time.Since(start))

	return report
}

// filterUnchanged marks events whose fingerprint matches the ledger as
// skipped. A ledger failure only costs a redundant upsert.
func (s *Service) filterUnchanged(ctx context.Context, ownerID string, candidates []int, events []domain.CalendarEvent, outcomes []outcome) []int {
	if s.ledger == nil || len(candidates) == 0 {
		return candidates
	}

	ids := make([]string, 0, len(candidates))
	for _, i := range candidates {
		ids = append(ids, events[i].ID)
	}

	known, err := s.ledger.GetFingerprints(ctx, ownerID, ids)
	if err != nil {
		slog.WarnContext(ctx, "failed to read sync ledger, syncing all events",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()),
		)
		return candidates
	}

	pending := make([]int, 0, len(candidates))
	for _, i := range candidates {
		if fp, ok := known[events[i].ID]; ok && fp == events[i].Fingerprint() {
			outcomes[i] = outcome{status: statusSkipped}
			continue
		}
		pending = append(pending, i)
	}
	return pending
}

func (s *Service) syncBatch(ctx context.Context, ownerID string, batchIndex int, indices []int, events []domain.CalendarEvent, outcomes []outcome) {
	ctx, span := tracing.StartSyncBatchSpan(ctx, batchIndex, len(indices))
	defer span.End()

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)

	for _, i := range indices {
		if ctx.Err() != nil {
			outcomes[i] = outcome{status: statusFailed, err: newSyncError(events[i].ID, reasonFor(ctx.Err()), ctx.Err())}
			continue
		}

		g.Go(func() error {
			outcomes[i] = s.upsert(ctx, ownerID, events[i])
			return nil
		})
	}
	_ = g.Wait()

	records := make([]domain.SyncRecord, 0, len(indices))
	synced := s.now()
	failed := 0
	for _, i := range indices {
		if outcomes[i].status != statusSynced {
			failed++
			continue
		}
		records = append(records, domain.SyncRecord{
			OwnerID:     ownerID,
			EventID:     events[i].ID,
			Fingerprint: events[i].Fingerprint(),
			SyncedAt:    synced,
		})
	}
	tracing.RecordSyncResult(span, len(records), 0, failed, nil)

	if s.ledger == nil || len(records) == 0 {
		return
	}
	if err := s.ledger.SaveSyncRecords(ctx, records); err != nil {
		slog.WarnContext(ctx, "failed to update sync ledger",
			slog.String("owner_id", ownerID),
			slog.Int("record_count", len(records)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) upsert(ctx context.Context, ownerID string, event domain.CalendarEvent) outcome {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	start := time.Now()
	err := s.provider.UpsertEvent(callCtx, ownerID, event)
	if err == nil && callCtx.Err() != nil {
		err = callCtx.Err()
	}

	label := "success"
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		label = "timeout"
	default:
		label = "error"
	}
	if s.scheduleMetrics != nil {
		s.scheduleMetrics.RecordProviderCall(ctx, s.provider.Name(), label, time.Since(start))
	}

	if err != nil {
		slog.WarnContext(ctx, "failed to sync event",
			slog.String("event_id", event.ID),
			slog.String("provider", s.provider.Name()),
			slog.String("error", err.Error()),
		)
		return outcome{status: statusFailed, err: newSyncError(event.ID, reasonFor(err), err)}
	}
	return outcome{status: statusSynced}
}

func buildReport(inputs []domain.SyncEventInput, outcomes []outcome) *Report {
	report := &Report{Errors: make([]EventError, 0)}
	for i, o := range outcomes {
		switch o.status {
		case statusSynced:
			report.SyncedCount++
		case statusSkipped:
			report.SkippedCount++
		case statusFailed:
			report.Errors = append(report.Errors, EventError{ID: o.err.EventID, Reason: o.err.Reason})
		default:
			report.Errors = append(report.Errors, EventError{ID: inputs[i].ID, Reason: "not attempted"})
		}
	}
	return report
}

func (s *Service) observe(ctx context.Context, ownerID string, submitted int, report *Report, duration time.Duration) {
	if s.scheduleMetrics != nil {
		s.scheduleMetrics.RecordSyncEvents(ctx, "synced", report.SyncedCount)
		s.scheduleMetrics.RecordSyncEvents(ctx, "skipped", report.SkippedCount)
		s.scheduleMetrics.RecordSyncEvents(ctx, "failed", report.FailedCount())
		s.scheduleMetrics.RecordSyncDuration(ctx, duration)
	}

	runID := uuid.NewString()

	slog.InfoContext(ctx, "calendar sync completed",
		slog.String("run_id", runID),
		slog.String("owner_id", ownerID),
		slog.String("provider", s.provider.Name()),
		slog.Int("submitted", submitted),
		slog.Int("synced_count", report.SyncedCount),
		slog.Int("skipped_count", report.SkippedCount),
		slog.Int("failed_count", report.FailedCount()),
		slog.Duration("duration", duration),
	)

	if s.resultRecorder == nil {
		return
	}
	record := domain.SyncResultRecord{
		RunID:        runID,
		OwnerID:      ownerID,
		RecordedAt:   s.now(),
		Submitted:    submitted,
		SyncedCount:  report.SyncedCount,
		SkippedCount: report.SkippedCount,
		FailedCount:  report.FailedCount(),
	}
	if err := s.resultRecorder.RecordSync(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to record sync result",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
	}
}
