package calprovider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

const defaultMaxRetries = 3

var baseBackoff = 100 * time.Millisecond

// withRetry runs op up to maxRetries times with exponential backoff. Errors
// matching ErrNonRetryable end the loop immediately.
func withRetry(ctx context.Context, maxRetries int, eventID string, op func(ctx context.Context) error) error {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * baseBackoff
			slog.DebugContext(ctx, "retrying event upsert",
				slog.String("event_id", eventID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrNonRetryable) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		lastErr = err
	}

	slog.WarnContext(ctx, "all retries exhausted for event upsert",
		slog.String("event_id", eventID),
		slog.Int("max_retries", maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to upsert event after %d retries: %w", maxRetries, lastErr)
}
