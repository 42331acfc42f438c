package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/optimize"
)

type ScheduleHandler struct {
	optimizeService *optimize.Service
}

func NewScheduleHandler(optimizeService *optimize.Service) *ScheduleHandler {
	return &ScheduleHandler{
		optimizeService: optimizeService,
	}
}

func (h *ScheduleHandler) HandleOptimize(c *gin.Context) {
	ctx := c.Request.Context()

	var req domain.OptimizeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.FullPath()),
		)
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.optimizeService.Optimize(ctx, req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
