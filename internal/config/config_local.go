//go:build !gcloud

package config

import "errors"

func (c *TaskQueueConfig) Enabled() bool {
	return c.PrimindTasksURL != ""
}

func (c *TaskQueueConfig) Validate() error {
	if c.Enabled() && c.TargetURL == "" {
		return errors.New("TASK_QUEUE_TARGET_URL is required when PRIMIND_TASKS_URL is set")
	}
	return nil
}
