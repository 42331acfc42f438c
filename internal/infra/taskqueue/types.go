package taskqueue

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

// OwnerHeader carries the owner of a delivered sync task.
const OwnerHeader = "X-User-ID"

type SyncTask struct {
	OwnerID    string    `json:"-"`
	ScheduleAt time.Time `json:"-"`

	Events []domain.SyncEventInput `json:"events"`
}

// Payload is the body delivered to the sync endpoint.
func (t *SyncTask) Payload() ([]byte, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync task: %w", err)
	}
	return payload, nil
}

// TaskID is derived from the owner and payload so the same sync request
// maps to the same queue task.
func TaskID(ownerID string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(ownerID))
	h.Write([]byte{0})
	h.Write(payload)
	return "sync-" + hex.EncodeToString(h.Sum(nil))[:32]
}

func (t *SyncTask) headers() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		OwnerHeader:    t.OwnerID,
	}
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
	Duplicate    bool      `json:"duplicate,omitempty"`
}

type PrimindTaskRequest struct {
	Task PrimindTask `json:"task"`
}

type PrimindTask struct {
	Name         string             `json:"name,omitempty"`
	HTTPRequest  PrimindHTTPRequest `json:"httpRequest"`
	ScheduleTime string             `json:"scheduleTime,omitempty"`
}

type PrimindHTTPRequest struct {
	URL     string            `json:"url,omitempty"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type PrimindTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
