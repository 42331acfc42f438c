package calsync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/infra/calprovider"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func input(id, start, end string) domain.SyncEventInput {
	return domain.SyncEventInput{
		ID:    id,
		Title: "Kegiatan " + id,
		Start: start,
		End:   end,
		Type:  "kuliah",
	}
}

func validInputs(ids ...string) []domain.SyncEventInput {
	inputs := make([]domain.SyncEventInput, 0, len(ids))
	for _, id := range ids {
		inputs = append(inputs, input(id, "2026-10-19T08:00:00+07:00", "2026-10-19T10:00:00+07:00"))
	}
	return inputs
}

func fingerprint(t *testing.T, in domain.SyncEventInput) string {
	t.Helper()
	event, err := ParseEvent(in)
	if err != nil {
		t.Fatalf("ParseEvent() error = %v", err)
	}
	return event.Fingerprint()
}

func newTestService(provider calprovider.Provider, ledger domain.SyncLedger, recorder domain.ScheduleResultRecorder, cfg Config) *Service {
	return NewService(provider, ledger, cfg, nil, recorder, WithClock(func() time.Time { return fixedNow }))
}

func TestSync_AllEventsSynced(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := calprovider.NewMockProvider(ctrl)
	ledger := domain.NewMockSyncLedger(ctrl)

	inputs := validInputs("evt-1", "evt-2")

	provider.EXPECT().Name().Return("mock").AnyTimes()
	ledger.EXPECT().GetFingerprints(gomock.Any(), "student-1", []string{"evt-1", "evt-2"}).Return(map[string]string{}, nil)
	provider.EXPECT().UpsertEvent(gomock.Any(), "student-1", gomock.Any()).Return(nil).Times(2)

	var saved []domain.SyncRecord
	ledger.EXPECT().SaveSyncRecords(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, records []domain.SyncRecord) error {
			saved = records
			return nil
		})

	report := newTestService(provider, ledger, nil, Config{}).Sync(context.Background(), "student-1", inputs)

	if report.SyncedCount != 2 || report.SkippedCount != 0 || len(report.Errors) != 0 {
		t.Fatalf("report: got %+v", report)
	}
	if len(saved) != 2 {
		t.Fatalf("saved records: got %d, want 2", len(saved))
	}
	for i, rec := range saved {
		if rec.OwnerID != "student-1" || rec.EventID != inputs[i].ID {
			t.Errorf("record %d: got %+v", i, rec)
		}
		if rec.Fingerprint != fingerprint(t, inputs[i]) {
			t.Errorf("record %d: fingerprint mismatch", i)
		}
		if !rec.SyncedAt.Equal(fixedNow) {
			t.Errorf("record %d: synced at %v", i, rec.SyncedAt)
		}
	}
}

func TestSync_UnchangedEventsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := calprovider.NewMockProvider(ctrl)
	ledger := domain.NewMockSyncLedger(ctrl)

	inputs := validInputs("evt-1", "evt-2", "evt-3")

	provider.EXPECT().Name().Return("mock").AnyTimes()
	ledger.EXPECT().GetFingerprints(gomock.Any(), "student-1", gomock.Any()).Return(map[string]string{
		"evt-1": fingerprint(t, inputs[0]),
		"evt-2": "stale",
	}, nil)
	provider.EXPECT().UpsertEvent(gomock.Any(), "student-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, event domain.CalendarEvent) error {
			if event.ID == "evt-1" {
				t.Errorf("unchanged event %s was pushed", event.ID)
			}
			return nil
		}).Times(2)
	ledger.EXPECT().SaveSyncRecords(gomock.Any(), gomock.Len(2)).Return(nil)

	report := newTestService(provider, ledger, nil, Config{}).Sync(context.Background(), "student-1", inputs)

	if report.SyncedCount != 2 || report.SkippedCount != 1 {
		t.Errorf("report: got %+v, want 2 synced 1 skipped", report)
	}
}

func TestSync_InvalidEventsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := calprovider.NewMockProvider(ctrl)
	ledger := domain.NewMockSyncLedger(ctrl)

	inputs := []domain.SyncEventInput{
		input("bad-start", "Senin 08:00", "2026-10-19T10:00:00+07:00"),
		input("ok", "2026-10-19T08:00:00+07:00", "2026-10-19T10:00:00+07:00"),
		input("reversed", "2026-10-19T10:00:00+07:00", "2026-10-19T08:00:00+07:00"),
		input("", "2026-10-19T08:00:00+07:00", "2026-10-19T10:00:00+07:00"),
		input("equal", "2026-10-19T08:00:00+07:00", "2026-10-19T08:00:00+07:00"),
	}

	provider.EXPECT().Name().Return("mock").AnyTimes()
	ledger.EXPECT().GetFingerprints(gomock.Any(), "student-1", []string{"ok"}).Return(nil, nil)
	provider.EXPECT().UpsertEvent(gomock.Any(), "student-1", gomock.Any()).Return(nil).Times(1)
	ledger.EXPECT().SaveSyncRecords(gomock.Any(), gomock.Len(1)).Return(nil)

	report := newTestService(provider, ledger, nil, Config{}).Sync(context.Background(), "student-1", inputs)

	if report.SyncedCount != 1 {
		t.Errorf("synced: got %d, want 1", report.SyncedCount)
	}
	wantIDs := []string{"bad-start", "reversed", "", "equal"}
	if len(report.Errors) != len(wantIDs) {
		t.Fatalf("errors: got %+v", report.Errors)
	}
	for i, id := range wantIDs {
		if report.Errors[i].ID != id {
			t.Errorf("error %d: got id %q, want %q", i, report.Errors[i].ID, id)
		}
		if report.Errors[i].Reason == "" {
			t.Errorf("error %d: empty reason", i)
		}
	}
}

func TestSync_ProviderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := calprovider.NewMockProvider(ctrl)
	ledger := domain.NewMockSyncLedger(ctrl)

	inputs := validInputs("evt-1", "evt-2")

	provider.EXPECT().Name().Return("mock").AnyTimes()
	ledger.EXPECT().GetFingerprints(gomock.Any(), gomock.Any(), gomock.Any()).Return(map[string]string{}, nil)
	provider.EXPECT().UpsertEvent(gomock.Any(), "student-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, event domain.CalendarEvent) error {
			if event.ID == "evt-2" {
				return &calprovider.StatusError{StatusCode: 403}
			}
			return nil
		}).Times(2)

	var saved []domain.SyncRecord
	ledger.EXPECT().SaveSyncRecords(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, records []domain.SyncRecord) error {
			saved = records
			return nil
		})

	report := newTestService(provider, ledger, nil, Config{}).Sync(context.Background(), "student-1", inputs)

	if report.SyncedCount != 1 {
		t.Errorf("synced: got %d, want 1", report.SyncedCount)
	}
	if len(report.Errors) != 1 || report.Errors[0].ID != "evt-2" {
		t.Fatalf("errors: got %+v", report.Errors)
	}
	if report.Errors[0].Reason != "unexpected status code: 403" {
		t.Errorf("reason: got %q", report.Errors[0].Reason)
	}
	if len(saved) != 1 || saved[0].EventID != "evt-1" {
		t.Errorf("only the synced event should be recorded, got %+v", saved)
	}
}

func TestSync_PerCallTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := calprovider.NewMockProvider(ctrl)

	provider.EXPECT().Name().Return("mock").AnyTimes()
	provider.EXPECT().UpsertEvent(gomock.Any(), "student-1", gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ domain.CalendarEvent) error {
			<-ctx.Done()
			return ctx.Err()
		})

	svc := newTestService(provider, nil, nil, Config{CallTimeout: 20 * time.Millisecond})
	report := svc.Sync(context.Background(), "student-1", validInputs("evt-1"))

	if len(report.Errors) != 1 {
		t.Fatalf("errors: got %+v", report.Errors)
	}
	if report.Errors[0].Reason != "provider call timed out" {
		t.Errorf("reason: got %q", report.Errors[0].Reason)
	}
}

func TestSync_LedgerFailureSyncsEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := calprovider.NewMockProvider(ctrl)
	ledger := domain.NewMockSyncLedger(ctrl)

	provider.EXPECT().Name().Return("mock").AnyTimes()
	ledger.EXPECT().GetFingerprints(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
	provider.EXPECT().UpsertEvent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)
	ledger.EXPECT().SaveSyncRecords(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	report := newTestService(provider, ledger, nil, Config{}).Sync(context.Background(), "student-1", validInputs("a", "b", "c"))

	if report.SyncedCount != 3 || len(report.Errors) != 0 {
		t.Errorf("report: got %+v", report)
	}
}

func TestSync_DuplicateIDsCollapse(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := calprovider.NewMockProvider(ctrl)

	provider.EXPECT().Name().Return("mock").AnyTimes()
	provider.EXPECT().UpsertEvent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	report := newTestService(provider, nil, nil, Config{}).Sync(context.Background(), "student-1", validInputs("evt-1", "evt-1"))

	if report.SyncedCount != 1 || report.SkippedCount != 1 {
		t.Errorf("report: got %+v, want 1 synced 1 skipped", report)
	}
}

func TestSync_RecordsResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := calprovider.NewMockProvider(ctrl)
	recorder := domain.NewMockScheduleResultRecorder(ctrl)

	provider.EXPECT().Name().Return("mock").AnyTimes()
	provider.EXPECT().UpsertEvent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	recorder.EXPECT().RecordSync(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, record domain.SyncResultRecord) error {
			if record.OwnerID != "student-1" || record.Submitted != 3 || record.SyncedCount != 2 || record.FailedCount != 1 {
				t.Errorf("record: got %+v", record)
			}
			if record.RunID == "" {
				t.Error("run id should be set")
			}
			return errors.New("influx down")
		})

	inputs := append(validInputs("a", "b"), input("c", "x", "y"))
	report := newTestService(provider, nil, recorder, Config{}).Sync(context.Background(), "student-1", inputs)

	if report.SyncedCount != 2 {
		t.Errorf("synced: got %d, want 2", report.SyncedCount)
	}
}

type countingProvider struct {
	mu       sync.Mutex
	inFlight int
	peak     int
	calls    atomic.Int32
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) UpsertEvent(_ context.Context, _ string, _ domain.CalendarEvent) error {
	p.calls.Add(1)
	p.mu.Lock()
	p.inFlight++
	p.peak = max(p.peak, p.inFlight)
	p.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	p.mu.Lock()
	p.inFlight--
	p.mu.Unlock()
	return nil
}

func TestSync_BatchesWithBoundedConcurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := domain.NewMockSyncLedger(ctrl)
	provider := &countingProvider{}

	ids := []string{"e1", "e2", "e3", "e4", "e5", "e6", "e7"}

	ledger.EXPECT().GetFingerprints(gomock.Any(), gomock.Any(), gomock.Any()).Return(map[string]string{}, nil)
	var batchSizes []int
	ledger.EXPECT().SaveSyncRecords(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, records []domain.SyncRecord) error {
			batchSizes = append(batchSizes, len(records))
			return nil
		}).Times(3)

	svc := newTestService(provider, ledger, nil, Config{BatchSize: 3, MaxConcurrency: 2})
	report := svc.Sync(context.Background(), "student-1", validInputs(ids...))

	if report.SyncedCount != len(ids) {
		t.Errorf("synced: got %d, want %d", report.SyncedCount, len(ids))
	}
	if got := provider.calls.Load(); got != int32(len(ids)) {
		t.Errorf("calls: got %d, want %d", got, len(ids))
	}
	if provider.peak > 2 {
		t.Errorf("peak concurrency: got %d, want <= 2", provider.peak)
	}
	if len(batchSizes) != 3 || batchSizes[0] != 3 || batchSizes[1] != 3 || batchSizes[2] != 1 {
		t.Errorf("batch sizes: got %v, want [3 3 1]", batchSizes)
	}
}

func TestSync_CanceledContext(t *testing.T) {
	provider := &countingProvider{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := newTestService(provider, nil, nil, Config{}).Sync(ctx, "student-1", validInputs("a", "b"))

	if provider.calls.Load() != 0 {
		t.Errorf("provider should not be called, got %d calls", provider.calls.Load())
	}
	if len(report.Errors) != 2 || report.Errors[0].Reason != "sync canceled" {
		t.Errorf("errors: got %+v", report.Errors)
	}
}

func TestSync_EmptyRequest(t *testing.T) {
	report := newTestService(&countingProvider{}, nil, nil, Config{}).Sync(context.Background(), "student-1", nil)

	if report.SyncedCount != 0 || report.SkippedCount != 0 || report.Errors == nil || len(report.Errors) != 0 {
		t.Errorf("report: got %+v", report)
	}
}
