package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidClock     = errors.New("invalid time, expected HH:MM")
	ErrInvalidTimeRange = errors.New("end must be after start")
	ErrUnknownWeekday   = errors.New("unknown weekday")
	ErrUnknownPriority  = errors.New("unknown priority")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every problem found in a request instead of
// stopping at the first one.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// Err returns nil when nothing was collected.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConfigurationError reports preferences that make scheduling impossible.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// SyncError is the failure of a single event during external sync.
type SyncError struct {
	EventID string
	Reason  string
	Err     error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sync event %s: %s: %v", e.EventID, e.Reason, e.Err)
	}
	return fmt.Sprintf("sync event %s: %s", e.EventID, e.Reason)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
