//go:build !gcloud

package taskqueue

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/logging"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/tracing"
)

// PrimindTasksClient registers tasks with a Cloud Tasks compatible HTTP
// service used for local development.
type PrimindTasksClient struct {
	baseURL    string
	queueName  string
	targetURL  string
	httpClient *http.Client
	maxRetries int
}

func NewPrimindTasksClient(baseURL, queueName, targetURL string, maxRetries int) *PrimindTasksClient {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &PrimindTasksClient{
		baseURL:   baseURL,
		queueName: queueName,
		targetURL: targetURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

func (c *PrimindTasksClient) EnqueueSync(ctx context.Context, task *SyncTask) (*TaskResponse, error) {
	payload, err := task.Payload()
	if err != nil {
		return nil, err
	}
	taskID := TaskID(task.OwnerID, payload)

	primindReq := PrimindTaskRequest{
		Task: PrimindTask{
			Name: taskID,
			HTTPRequest: PrimindHTTPRequest{
				URL:     c.targetURL,
				Body:    base64.StdEncoding.EncodeToString(payload),
				Headers: task.headers(),
			},
		},
	}

	if !task.ScheduleAt.IsZero() {
		primindReq.Task.ScheduleTime = task.ScheduleAt.Format(time.RFC3339)
	}

	reqBody, err := json.Marshal(primindReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal primind request: %w", err)
	}

	url := fmt.Sprintf("%s/tasks", c.baseURL)
	if c.queueName != "" && c.queueName != "default" {
		url = fmt.Sprintf("%s/tasks/%s", c.baseURL, c.queueName)
	}

	return enqueueWithRetry(ctx, c.maxRetries, task.OwnerID, taskID, func(ctx context.Context) (*TaskResponse, error) {
		return c.doRequest(ctx, url, reqBody, task.OwnerID, taskID)
	})
}

func (c *PrimindTasksClient) doRequest(ctx context.Context, url string, reqBody []byte, ownerID, taskID string) (*TaskResponse, error) {
	ctx, span := tracing.StartExternalAPISpan(ctx, "enqueue_sync_task", url)
	defer span.End()

	slog.DebugContext(ctx, "registering sync task to Primind Tasks",
		slog.String("url", url),
		slog.String("owner_id", ownerID),
		slog.String("task_id", taskID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		tracing.RecordExternalAPIResult(span, 0, err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(logging.RequestIDHeader, logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx)))
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to send request to Primind Tasks",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()),
		)
		tracing.RecordExternalAPIResult(span, 0, err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	tracing.RecordExternalAPIResult(span, resp.StatusCode, nil)

	switch {
	case resp.StatusCode == http.StatusConflict:
		slog.InfoContext(ctx, "sync task already registered",
			slog.String("task_id", taskID),
			slog.String("owner_id", ownerID),
		)
		return &TaskResponse{Name: taskID, Duplicate: true}, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%w: status code %d", ErrTaskQueueRejected, resp.StatusCode)
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		slog.WarnContext(ctx, "unexpected status code from Primind Tasks",
			slog.String("owner_id", ownerID),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var primindResp PrimindTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&primindResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	scheduleTime, _ := time.Parse(time.RFC3339, primindResp.ScheduleTime)
	createTime, _ := time.Parse(time.RFC3339, primindResp.CreateTime)

	slog.InfoContext(ctx, "sync task registered to Primind Tasks",
		slog.String("task_name", primindResp.Name),
		slog.String("owner_id", ownerID),
	)

	return &TaskResponse{
		Name:         primindResp.Name,
		ScheduleTime: scheduleTime,
		CreateTime:   createTime,
	}, nil
}
