package calsync

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

var (
	ErrMissingEventID   = errors.New("missing event id")
	ErrInvalidStartTime = errors.New("invalid start time")
	ErrInvalidEndTime   = errors.New("invalid end time")
)

// ParseEvent turns a submitted event into a calendar event. Start and End
// must be RFC 3339 timestamps with End after Start.
func ParseEvent(in domain.SyncEventInput) (domain.CalendarEvent, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return domain.CalendarEvent{}, ErrMissingEventID
	}

	start, err := time.Parse(time.RFC3339, in.Start)
	if err != nil {
		return domain.CalendarEvent{}, fmt.Errorf("%w: %q", ErrInvalidStartTime, in.Start)
	}
	end, err := time.Parse(time.RFC3339, in.End)
	if err != nil {
		return domain.CalendarEvent{}, fmt.Errorf("%w: %q", ErrInvalidEndTime, in.End)
	}
	if !end.After(start) {
		return domain.CalendarEvent{}, domain.ErrInvalidTimeRange
	}

	return domain.CalendarEvent{
		ID:    id,
		Title: in.Title,
		Start: start,
		End:   end,
		Resource: domain.EventResource{
			Type:        in.Type,
			Location:    in.Location,
			Description: in.Description,
		},
	}, nil
}
