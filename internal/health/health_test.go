package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, HealthStatus) {
	t.Helper()

	r := gin.New()
	r.GET("/health", h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return w, body
}

func TestChecker_NoDependencies(t *testing.T) {
	c := NewChecker(nil, "v1.2.3", "google")

	w, body := serve(t, c.ReadyHandler())

	if w.Code != http.StatusOK {
		t.Errorf("status code: got %d, want 200", w.Code)
	}
	if body.Status != StatusHealthy || body.Version != "v1.2.3" || body.SyncProvider != "google" {
		t.Errorf("body: got %+v", body)
	}
}

func TestChecker_RedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewChecker(client, "dev", "http")

	t.Run("ready fails", func(t *testing.T) {
		w, body := serve(t, c.ReadyHandler())
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status code: got %d, want 503", w.Code)
		}
		if body.Checks["redis"].Status != StatusUnhealthy || body.Checks["redis"].Error == "" {
			t.Errorf("redis check: got %+v", body.Checks["redis"])
		}
	})

	t.Run("health is degraded", func(t *testing.T) {
		w, body := serve(t, c.Handler())
		if w.Code != http.StatusOK {
			t.Errorf("status code: got %d, want 200", w.Code)
		}
		if body.Status != StatusDegraded {
			t.Errorf("status: got %s, want %s", body.Status, StatusDegraded)
		}
	})
}

func TestChecker_RedisUp(t *testing.T) {
	client := testutil.SetupRedis(t)
	ctx := context.Background()

	status := NewChecker(client, "dev", "http").Check(ctx)

	if status.Status != StatusHealthy {
		t.Errorf("status: got %s, want %s", status.Status, StatusHealthy)
	}
	if status.Checks["redis"].Status != StatusHealthy {
		t.Errorf("redis check: got %+v", status.Checks["redis"])
	}
}

func TestLiveHandler(t *testing.T) {
	r := gin.New()
	r.GET("/health/live", NewChecker(nil, "", "").LiveHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}
}
