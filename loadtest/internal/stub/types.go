package stub

import "time"

// StoredEvent is one upserted event as the stub keeps it.
type StoredEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       string    `json:"start"`
	End         string    `json:"end"`
	Type        string    `json:"type"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Writes      int       `json:"writes"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type EventsResponse struct {
	Events []StoredEvent `json:"events"`
	Count  int           `json:"count"`
}

// FaultConfig makes the stub misbehave for a run. Every FailEvery-th write
// answers FailStatus; zero disables injection.
type FaultConfig struct {
	FailEvery  int `json:"fail_every"`
	FailStatus int `json:"fail_status"`
	DelayMS    int `json:"delay_ms"`
}

type StatsResponse struct {
	RunID    string `json:"run_id"`
	Owners   int    `json:"owners"`
	Events   int    `json:"events"`
	Writes   int    `json:"writes"`
	Rejected int    `json:"rejected"`
}
