package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

var (
	ErrTaskQueueRejected = errors.New("task queue rejected the task")

	baseBackoff = 100 * time.Millisecond
)

func enqueueWithRetry(ctx context.Context, maxRetries int, ownerID, taskID string, op func(ctx context.Context) (*TaskResponse, error)) (*TaskResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * baseBackoff
			slog.DebugContext(ctx, "retrying sync task registration",
				slog.String("owner_id", ownerID),
				slog.String("task_id", taskID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := op(ctx)
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, ErrTaskQueueRejected) {
			return nil, err
		}
		lastErr = err
	}

	slog.ErrorContext(ctx, "all retries exhausted for sync task registration",
		slog.String("owner_id", ownerID),
		slog.String("task_id", taskID),
		slog.Int("max_retries", maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return nil, fmt.Errorf("failed to register task after %d retries: %w", maxRetries, lastErr)
}
