package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

var eventIDNamespace = uuid.MustParse("8a4f7d2e-51c3-4b6a-9e0d-2f7c1b93a6e4")

type EventResource struct {
	Type        string `json:"type"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// CalendarEvent is a materialized, absolute-dated occurrence of a schedule
// entry. End is always after Start.
type CalendarEvent struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Resource EventResource `json:"resource"`
}

// DedupKey identifies a logical weekly commitment. It is the only key used to
// collapse duplicates, both while allocating and while materializing events.
func DedupKey(day Weekday, title string, start, end int) string {
	return strings.Join([]string{
		day.String(),
		strings.TrimSpace(title),
		FormatClock(start),
		FormatClock(end),
	}, "|")
}

// EventID derives a stable identifier from a dedup key so that repeated
// materialization and sync of the same commitment address the same event.
func EventID(key string) string {
	return uuid.NewSHA1(eventIDNamespace, []byte(key)).String()
}

// Fingerprint changes whenever any synced field of the event changes.
func (e CalendarEvent) Fingerprint() string {
	h := sha256.New()
	for _, part := range []string{
		e.Title,
		e.Start.UTC().Format(time.RFC3339),
		e.End.UTC().Format(time.RFC3339),
		e.Resource.Type,
		e.Resource.Location,
		e.Resource.Description,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SyncEventInput is an event as submitted for external synchronization.
// Start and End are RFC 3339 timestamps.
type SyncEventInput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Type        string `json:"type"`
}

// SyncInputFromEvent is the inverse of the sync parser, used when a caller
// syncs freshly materialized events.
func SyncInputFromEvent(e CalendarEvent) SyncEventInput {
	return SyncEventInput{
		ID:          e.ID,
		Title:       e.Title,
		Start:       e.Start.Format(time.RFC3339),
		End:         e.End.Format(time.RFC3339),
		Description: e.Resource.Description,
		Location:    e.Resource.Location,
		Type:        e.Resource.Type,
	}
}
