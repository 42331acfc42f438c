package calsync

import (
	"context"
	"errors"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

type EventError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type Report struct {
	SyncedCount  int          `json:"syncedCount"`
	SkippedCount int          `json:"skippedCount"`
	Errors       []EventError `json:"errors"`
}

func (r *Report) FailedCount() int {
	return len(r.Errors)
}

type status int

const (
	statusPending status = iota
	statusSynced
	statusSkipped
	statusFailed
)

type outcome struct {
	status status
	err    *domain.SyncError
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "provider call timed out"
	case errors.Is(err, context.Canceled):
		return "sync canceled"
	default:
		return err.Error()
	}
}

func newSyncError(id, reason string, err error) *domain.SyncError {
	return &domain.SyncError{EventID: id, Reason: reason, Err: err}
}
