package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/infra/taskqueue"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/metrics"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/calendar"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/calsync"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/normalize"
)

const (
	anonymousOwner  = "anonymous"
	defaultICSWeeks = 16
	icsFilename     = "jadwal-kuliah.ics"
)

type EventsRequest struct {
	OptimizedSchedule *domain.WeekSchedule   `json:"optimizedSchedule,omitempty"`
	Courses           []domain.CourseInput   `json:"courses,omitempty"`
	Activities        []domain.ActivityInput `json:"activities,omitempty"`
}

type EventsResponse struct {
	Events []domain.CalendarEvent `json:"events"`
}

type SyncRequest struct {
	Events []domain.SyncEventInput `json:"events"`
}

type DeferredSyncResponse struct {
	TaskName  string `json:"taskName"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

type CalendarHandler struct {
	normalizer      *normalize.Normalizer
	materializer    *calendar.Materializer
	syncService     *calsync.Service
	taskQueue       taskqueue.TaskQueue
	scheduleMetrics *metrics.ScheduleMetrics
	now             func() time.Time
}

// NewCalendarHandler wires the calendar endpoints. taskQueue and
// scheduleMetrics may be nil; deferred sync then answers 503.
func NewCalendarHandler(
	normalizer *normalize.Normalizer,
	materializer *calendar.Materializer,
	syncService *calsync.Service,
	taskQueue taskqueue.TaskQueue,
	scheduleMetrics *metrics.ScheduleMetrics,
) *CalendarHandler {
	return &CalendarHandler{
		normalizer:      normalizer,
		materializer:    materializer,
		syncService:     syncService,
		taskQueue:       taskQueue,
		scheduleMetrics: scheduleMetrics,
		now:             time.Now,
	}
}

func (h *CalendarHandler) HandleEvents(c *gin.Context) {
	events, ok := h.materialize(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, EventsResponse{Events: events})
}

func (h *CalendarHandler) HandleICS(c *gin.Context) {
	weeks := defaultICSWeeks
	if raw := c.Query("weeks"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > calendar.MaxICSWeeks {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("weeks must be between 1 and %d", calendar.MaxICSWeeks))
			return
		}
		weeks = parsed
	}

	events, ok := h.materialize(c)
	if !ok {
		return
	}

	body, err := calendar.ExportICS(events, weeks, h.now())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", icsFilename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (h *CalendarHandler) HandleSync(c *gin.Context) {
	ctx := c.Request.Context()

	req, ok := bindSyncRequest(c)
	if !ok {
		return
	}

	report := h.syncService.Sync(ctx, ownerID(c), req.Events)
	c.JSON(http.StatusOK, report)
}

func (h *CalendarHandler) HandleDeferredSync(c *gin.Context) {
	ctx := c.Request.Context()

	if h.taskQueue == nil {
		respondError(c, http.StatusServiceUnavailable, "deferred sync is not configured")
		return
	}

	req, ok := bindSyncRequest(c)
	if !ok {
		return
	}

	owner := ownerID(c)
	resp, err := h.taskQueue.EnqueueSync(ctx, &taskqueue.SyncTask{
		OwnerID: owner,
		Events:  req.Events,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to enqueue sync task",
			slog.String("owner_id", owner),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, "failed to enqueue sync task")
		return
	}

	c.JSON(http.StatusAccepted, DeferredSyncResponse{
		TaskName:  resp.Name,
		Duplicate: resp.Duplicate,
	})
}

// materialize binds an EventsRequest and turns it into events, writing the
// error response itself when it returns false.
func (h *CalendarHandler) materialize(c *gin.Context) ([]domain.CalendarEvent, bool) {
	ctx := c.Request.Context()

	var req EventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.FullPath()),
		)
		respondError(c, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	var items []domain.ScheduleItem
	if len(req.Courses) > 0 || len(req.Activities) > 0 {
		in, err := h.normalizer.Normalize(domain.OptimizeInput{
			Courses:    req.Courses,
			Activities: req.Activities,
		})
		if err != nil {
			respondDomainError(c, err)
			return nil, false
		}
		items = in.FixedItems()
	}

	events := h.materializer.Materialize(ctx, req.OptimizedSchedule, items)
	if h.scheduleMetrics != nil {
		h.scheduleMetrics.RecordEventsMaterialized(ctx, len(events))
	}
	return events, true
}

func bindSyncRequest(c *gin.Context) (*SyncRequest, bool) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(c.Request.Context(), "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.FullPath()),
		)
		respondError(c, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return &req, true
}

func ownerID(c *gin.Context) string {
	if owner := strings.TrimSpace(c.GetHeader(taskqueue.OwnerHeader)); owner != "" {
		return owner
	}
	return anonymousOwner
}
