package taskqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=mock.go -package=taskqueue

// TaskQueue defers a calendar sync to a queue that later delivers it to the
// sync endpoint. Enqueueing an identical task twice yields the same task.
type TaskQueue interface {
	EnqueueSync(ctx context.Context, task *SyncTask) (*TaskResponse, error)
}
