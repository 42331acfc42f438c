package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

const checkTimeout = 5 * time.Second

type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

type HealthStatus struct {
	Status       Status                 `json:"status"`
	Version      string                 `json:"version,omitempty"`
	SyncProvider string                 `json:"sync_provider,omitempty"`
	Checks       map[string]CheckResult `json:"checks,omitempty"`
}

// Checker reports dependency health. Redis only backs the sync ledger, so
// a failing Redis degrades sync but leaves optimization available.
type Checker struct {
	redisClient  *redis.Client
	version      string
	syncProvider string
}

func NewChecker(redisClient *redis.Client, version, syncProvider string) *Checker {
	return &Checker{
		redisClient:  redisClient,
		version:      version,
		syncProvider: syncProvider,
	}
}

func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	status := &HealthStatus{
		Status:       StatusHealthy,
		Version:      c.version,
		SyncProvider: c.syncProvider,
		Checks:       make(map[string]CheckResult),
	}

	if c.redisClient != nil {
		start := time.Now()
		if err := c.redisClient.Ping(checkCtx).Err(); err != nil {
			status.Status = StatusDegraded
			status.Checks["redis"] = CheckResult{
				Status: StatusUnhealthy,
				Error:  err.Error(),
			}
		} else {
			status.Checks["redis"] = CheckResult{
				Status:    StatusHealthy,
				LatencyMs: time.Since(start).Milliseconds(),
			}
		}
	}

	return status
}

// Handler serves the full status. Degraded still answers 200.
func (c *Checker) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, c.Check(ctx.Request.Context()))
	}
}

func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler fails the probe unless every dependency is healthy.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}
