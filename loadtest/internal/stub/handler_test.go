package stub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/infra/calprovider"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(storage *EventStorage) *gin.Engine {
	r := gin.New()
	RegisterRoutes(r, NewHandler(storage))
	return r
}

func calendarEvent(id, title string, start time.Time) domain.CalendarEvent {
	return domain.CalendarEvent{
		ID:       id,
		Title:    title,
		Start:    start,
		End:      start.Add(90 * time.Minute),
		Resource: domain.EventResource{Type: "Kuliah", Location: "R.301"},
	}
}

func TestHandler_UpsertThroughHTTPProvider(t *testing.T) {
	storage := NewEventStorage()
	srv := httptest.NewServer(newRouter(storage))
	defer srv.Close()

	provider := calprovider.NewHTTPProvider(srv.URL, 3)
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	ctx := context.Background()
	if err := provider.UpsertEvent(ctx, "student-1", calendarEvent("ev-1", "Kalkulus", start)); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := provider.UpsertEvent(ctx, "student-1", calendarEvent("ev-1", "Kalkulus II", start)); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	events := storage.Events("default", "student-1")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Title != "Kalkulus II" {
		t.Errorf("title: got %s, want Kalkulus II", events[0].Title)
	}
	if events[0].Writes != 2 {
		t.Errorf("writes: got %d, want 2", events[0].Writes)
	}
	if events[0].Location != "R.301" {
		t.Errorf("location: got %s, want R.301", events[0].Location)
	}
}

func TestHandler_InjectedFailureIsRetried(t *testing.T) {
	storage := NewEventStorage()
	storage.SetFault("default", FaultConfig{FailEvery: 2, FailStatus: http.StatusServiceUnavailable})
	srv := httptest.NewServer(newRouter(storage))
	defer srv.Close()

	provider := calprovider.NewHTTPProvider(srv.URL, 3)
	start := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

	for _, id := range []string{"ev-1", "ev-2"} {
		if err := provider.UpsertEvent(context.Background(), "student-2", calendarEvent(id, "Praktikum", start)); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}

	stats := storage.Stats("default")
	if stats.Writes != 3 || stats.Rejected != 1 || stats.Events != 2 {
		t.Errorf("stats: got %+v, want writes=3 rejected=1 events=2", stats)
	}
}

func TestHandler_InjectedClientErrorIsNotRetried(t *testing.T) {
	storage := NewEventStorage()
	storage.SetFault("default", FaultConfig{FailEvery: 1, FailStatus: http.StatusUnprocessableEntity})
	srv := httptest.NewServer(newRouter(storage))
	defer srv.Close()

	provider := calprovider.NewHTTPProvider(srv.URL, 3)
	err := provider.UpsertEvent(context.Background(), "student-3",
		calendarEvent("ev-1", "Kalkulus", time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)))

	if !errors.Is(err, calprovider.ErrNonRetryable) {
		t.Fatalf("got %v, want ErrNonRetryable", err)
	}
	if stats := storage.Stats("default"); stats.Writes != 1 {
		t.Errorf("writes: got %d, want 1", stats.Writes)
	}
}

func TestHandler_RunsAreIsolated(t *testing.T) {
	storage := NewEventStorage()
	r := newRouter(storage)

	body, _ := json.Marshal(calprovider.EventPayload{
		ID:    "ev-1",
		Title: "Kalkulus",
		Start: "2026-03-02T08:00:00Z",
		End:   "2026-03-02T09:30:00Z",
		Type:  "Kuliah",
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/owners/student-1/events/ev-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(metrics.LoadtestRunHeader, "run-a")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusCreated)
	}

	if got := len(storage.Events("run-b", "student-1")); got != 0 {
		t.Errorf("run-b events: got %d, want 0", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/owners/student-1/events?run_id=run-a", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp EventsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || resp.Events[0].ID != "ev-1" {
		t.Errorf("got %+v, want one event ev-1", resp)
	}

	req = httptest.NewRequest(http.MethodPost, "/stub/reset?run_id=run-a", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := len(storage.Events("run-a", "student-1")); got != 0 {
		t.Errorf("after reset: got %d events, want 0", got)
	}
}

func TestHandler_RejectsBadPayload(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "malformed json", path: "/api/v1/owners/o/events/ev-1", body: "{"},
		{name: "id mismatch", path: "/api/v1/owners/o/events/ev-1", body: `{"id":"ev-2","start":"2026-03-02T08:00:00Z","end":"2026-03-02T09:00:00Z"}`},
		{name: "bad start", path: "/api/v1/owners/o/events/ev-1", body: `{"start":"08:00","end":"2026-03-02T09:00:00Z"}`},
		{name: "bad end", path: "/api/v1/owners/o/events/ev-1", body: `{"start":"2026-03-02T08:00:00Z","end":"09:00"}`},
	}

	r := newRouter(NewEventStorage())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("got %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}
