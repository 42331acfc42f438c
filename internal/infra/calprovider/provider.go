package calprovider

import (
	"context"
	"errors"
	"fmt"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

//go:generate mockgen -source=provider.go -destination=mock.go -package=calprovider

// Provider upserts events into an external calendar by event ID, so
// repeating a call for the same event never creates a duplicate.
type Provider interface {
	Name() string
	UpsertEvent(ctx context.Context, ownerID string, event domain.CalendarEvent) error
}

var ErrNonRetryable = errors.New("non-retryable provider error")

// StatusError is an unexpected HTTP status from a provider.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// Is reports client errors other than rate limiting as non-retryable.
func (e *StatusError) Is(target error) bool {
	return target == ErrNonRetryable && e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != 429
}

// Noop accepts every event without sending it anywhere. It backs
// SYNC_PROVIDER=none.
type Noop struct{}

func (Noop) Name() string {
	return "none"
}

func (Noop) UpsertEvent(_ context.Context, _ string, _ domain.CalendarEvent) error {
	return nil
}
