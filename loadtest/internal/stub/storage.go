package stub

import (
	"net/http"
	"sort"
	"sync"
	"time"
)

type runState struct {
	events   map[string]map[string]*StoredEvent // ownerID -> eventID -> event
	fault    FaultConfig
	writes   int
	rejected int
}

func newRunState() *runState {
	return &runState{events: make(map[string]map[string]*StoredEvent)}
}

// EventStorage keeps upserted events per load test run.
type EventStorage struct {
	mu   sync.Mutex
	runs map[string]*runState // runID -> state
	now  func() time.Time
}

func NewEventStorage() *EventStorage {
	return &EventStorage{
		runs: make(map[string]*runState),
		now:  time.Now,
	}
}

func (s *EventStorage) run(runID string) *runState {
	state, ok := s.runs[runID]
	if !ok {
		state = newRunState()
		s.runs[runID] = state
	}
	return state
}

func (s *EventStorage) Reset(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
}

func (s *EventStorage) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = make(map[string]*runState)
}

func (s *EventStorage) SetFault(runID string, fault FaultConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run(runID).fault = fault
}

// Upsert stores the event and returns the status the stub answers with:
// 201 for a new event, 200 for an update, or the injected failure status.
func (s *EventStorage) Upsert(runID, ownerID string, event StoredEvent) (int, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.run(runID)
	state.writes++
	delay := time.Duration(state.fault.DelayMS) * time.Millisecond

	if state.fault.FailEvery > 0 && state.writes%state.fault.FailEvery == 0 {
		state.rejected++
		status := state.fault.FailStatus
		if status == 0 {
			status = http.StatusServiceUnavailable
		}
		return status, delay
	}

	owned, ok := state.events[ownerID]
	if !ok {
		owned = make(map[string]*StoredEvent)
		state.events[ownerID] = owned
	}

	status := http.StatusOK
	existing, ok := owned[event.ID]
	if !ok {
		status = http.StatusCreated
	} else {
		event.Writes = existing.Writes
	}
	event.Writes++
	event.UpdatedAt = s.now()
	owned[event.ID] = &event

	return status, delay
}

// Events returns the owner's events ordered by start then id.
func (s *EventStorage) Events(runID, ownerID string) []StoredEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.runs[runID]
	if !ok {
		return []StoredEvent{}
	}

	events := make([]StoredEvent, 0, len(state.events[ownerID]))
	for _, e := range state.events[ownerID] {
		events = append(events, *e)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Start != events[j].Start {
			return events[i].Start < events[j].Start
		}
		return events[i].ID < events[j].ID
	})
	return events
}

func (s *EventStorage) Stats(runID string) StatsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := StatsResponse{RunID: runID}
	state, ok := s.runs[runID]
	if !ok {
		return stats
	}

	stats.Owners = len(state.events)
	for _, owned := range state.events {
		stats.Events += len(owned)
	}
	stats.Writes = state.writes
	stats.Rejected = state.rejected
	return stats
}
