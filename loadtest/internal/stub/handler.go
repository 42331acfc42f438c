package stub

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/infra/calprovider"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/metrics"
)

// Handler serves the calendar provider API the HTTP sync provider talks to.
// Requests are grouped by the load test run header so parallel runs do not
// see each other's events.
type Handler struct {
	storage *EventStorage
}

func NewHandler(storage *EventStorage) *Handler {
	return &Handler{storage: storage}
}

func RegisterRoutes(r gin.IRouter, h *Handler) {
	r.PUT("/api/v1/owners/:owner/events/:id", h.HandleUpsert)
	r.GET("/api/v1/owners/:owner/events", h.HandleList)
	r.POST("/stub/reset", h.HandleReset)
	r.POST("/stub/fault", h.HandleFault)
	r.GET("/stub/stats", h.HandleStats)
}

func runID(c *gin.Context) string {
	if id := c.GetHeader(metrics.LoadtestRunHeader); id != "" {
		return id
	}
	return c.DefaultQuery("run_id", "default")
}

func (h *Handler) HandleUpsert(c *gin.Context) {
	var payload calprovider.EventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if payload.ID != "" && payload.ID != id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event id does not match path"})
		return
	}
	if _, err := time.Parse(time.RFC3339, payload.Start); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start: " + payload.Start})
		return
	}
	if _, err := time.Parse(time.RFC3339, payload.End); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end: " + payload.End})
		return
	}

	status, delay := h.storage.Upsert(runID(c), c.Param("owner"), StoredEvent{
		ID:          id,
		Title:       payload.Title,
		Start:       payload.Start,
		End:         payload.End,
		Type:        payload.Type,
		Location:    payload.Location,
		Description: payload.Description,
	})

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			return
		}
	}

	if status >= http.StatusBadRequest {
		c.JSON(status, gin.H{"error": "injected failure"})
		return
	}

	c.JSON(status, gin.H{"id": id})
}

func (h *Handler) HandleList(c *gin.Context) {
	events := h.storage.Events(runID(c), c.Param("owner"))

	c.JSON(http.StatusOK, EventsResponse{
		Events: events,
		Count:  len(events),
	})
}

func (h *Handler) HandleReset(c *gin.Context) {
	id := runID(c)
	if c.Query("all") == "true" {
		h.storage.ResetAll()
		id = "*"
	} else {
		h.storage.Reset(id)
	}

	slog.Info("reset data", slog.String("run_id", id))

	c.JSON(http.StatusOK, gin.H{
		"status": "reset complete",
		"run_id": id,
	})
}

func (h *Handler) HandleFault(c *gin.Context) {
	var fault FaultConfig
	if err := c.ShouldBindJSON(&fault); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fault.FailEvery < 0 || fault.DelayMS < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fail_every and delay_ms must not be negative"})
		return
	}

	id := runID(c)
	h.storage.SetFault(id, fault)

	slog.Info("fault injection configured",
		slog.String("run_id", id),
		slog.Int("fail_every", fault.FailEvery),
		slog.Int("fail_status", fault.FailStatus),
		slog.Int("delay_ms", fault.DelayMS),
	)

	c.JSON(http.StatusOK, gin.H{"status": "fault configured", "run_id": id})
}

func (h *Handler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.storage.Stats(runID(c)))
}
