//go:build gcloud

package taskqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/tracing"
)

type CloudTasksClient struct {
	client     *cloudtasks.Client
	queuePath  string
	targetURL  string
	maxRetries int
}

type CloudTasksConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
	MaxRetries int
}

func NewCloudTasksClient(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksClient, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &CloudTasksClient{
		client:     client,
		queuePath:  fmt.Sprintf("projects/%s/locations/%s/queues/%s", cfg.ProjectID, cfg.LocationID, cfg.QueueID),
		targetURL:  cfg.TargetURL,
		maxRetries: maxRetries,
	}, nil
}

func (c *CloudTasksClient) EnqueueSync(ctx context.Context, task *SyncTask) (*TaskResponse, error) {
	payload, err := task.Payload()
	if err != nil {
		return nil, err
	}
	taskID := TaskID(task.OwnerID, payload)

	cloudTask := &taskspb.Task{
		Name: c.queuePath + "/tasks/" + taskID,
		MessageType: &taskspb.Task_HttpRequest{
			HttpRequest: &taskspb.HttpRequest{
				HttpMethod: taskspb.HttpMethod_POST,
				Url:        c.targetURL,
				Headers:    task.headers(),
				Body:       payload,
			},
		},
	}

	if !task.ScheduleAt.IsZero() {
		cloudTask.ScheduleTime = timestamppb.New(task.ScheduleAt)
	}

	req := &taskspb.CreateTaskRequest{
		Parent: c.queuePath,
		Task:   cloudTask,
	}

	return enqueueWithRetry(ctx, c.maxRetries, task.OwnerID, taskID, func(ctx context.Context) (*TaskResponse, error) {
		return c.createTask(ctx, req, task.OwnerID)
	})
}

func (c *CloudTasksClient) createTask(ctx context.Context, req *taskspb.CreateTaskRequest, ownerID string) (*TaskResponse, error) {
	ctx, span := tracing.StartExternalAPISpan(ctx, "enqueue_sync_task", req.Parent)
	defer span.End()

	slog.DebugContext(ctx, "registering sync task to Cloud Tasks",
		slog.String("queue_path", req.Parent),
		slog.String("owner_id", ownerID),
	)

	createdTask, err := c.client.CreateTask(ctx, req)
	if err != nil {
		switch status.Code(err) {
		case codes.AlreadyExists:
			slog.InfoContext(ctx, "sync task already registered",
				slog.String("task_name", req.Task.Name),
				slog.String("owner_id", ownerID),
			)
			tracing.RecordExternalAPIResult(span, 409, nil)
			return &TaskResponse{Name: req.Task.Name, Duplicate: true}, nil
		case codes.InvalidArgument, codes.PermissionDenied, codes.NotFound:
			tracing.RecordExternalAPIResult(span, 400, err)
			return nil, fmt.Errorf("%w: %v", ErrTaskQueueRejected, err)
		}

		slog.WarnContext(ctx, "failed to create cloud task",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()),
		)
		tracing.RecordExternalAPIResult(span, 0, err)
		return nil, fmt.Errorf("failed to create cloud task: %w", err)
	}
	tracing.RecordExternalAPIResult(span, 200, nil)

	slog.InfoContext(ctx, "sync task registered to Cloud Tasks",
		slog.String("task_name", createdTask.Name),
		slog.String("owner_id", ownerID),
	)

	var scheduleTime, createTime time.Time
	if createdTask.ScheduleTime != nil {
		scheduleTime = createdTask.ScheduleTime.AsTime()
	}
	if createdTask.CreateTime != nil {
		createTime = createdTask.CreateTime.AsTime()
	}

	return &TaskResponse{
		Name:         createdTask.Name,
		ScheduleTime: scheduleTime,
		CreateTime:   createTime,
	}, nil
}

func (c *CloudTasksClient) Close() error {
	return c.client.Close()
}
