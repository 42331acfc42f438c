package calprovider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/tracing"
)

// GoogleProvider writes events into a single Google Calendar.
type GoogleProvider struct {
	events     *calendar.EventsService
	calendarID string
	maxRetries int
}

type GoogleConfig struct {
	CalendarID      string
	CredentialsFile string
	MaxRetries      int
}

func NewGoogleProvider(ctx context.Context, cfg GoogleConfig, opts ...option.ClientOption) (*GoogleProvider, error) {
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, option.WithScopes(calendar.CalendarEventsScope))

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	return &GoogleProvider{
		events:     svc.Events,
		calendarID: calendarID,
		maxRetries: cfg.MaxRetries,
	}, nil
}

func (p *GoogleProvider) Name() string {
	return "google"
}

// UpsertEvent updates the event with the derived Google id and inserts it
// when the calendar does not know it yet. The owner is implied by the
// calendar the provider is bound to.
func (p *GoogleProvider) UpsertEvent(ctx context.Context, _ string, event domain.CalendarEvent) error {
	ev := toGoogleEvent(event)

	return withRetry(ctx, p.maxRetries, event.ID, func(ctx context.Context) error {
		return p.upsert(ctx, ev)
	})
}

func (p *GoogleProvider) upsert(ctx context.Context, ev *calendar.Event) error {
	ctx, span := tracing.StartExternalAPISpan(ctx, "google_calendar_upsert", "calendar/v3/events")
	defer span.End()

	_, err := p.events.Update(p.calendarID, ev.Id, ev).Context(ctx).Do()
	if isGoogleStatus(err, http.StatusNotFound) {
		slog.DebugContext(ctx, "event not found, inserting",
			slog.String("google_event_id", ev.Id),
		)
		_, err = p.events.Insert(p.calendarID, ev).Context(ctx).Do()
	}

	if err != nil {
		err = classifyGoogleError(err)
		tracing.RecordExternalAPIResult(span, googleStatus(err), err)
		return err
	}

	tracing.RecordExternalAPIResult(span, http.StatusOK, nil)
	return nil
}

// GoogleEventID maps an event id onto the base32hex alphabet Google
// Calendar accepts.
func GoogleEventID(id string) string {
	return strings.ToLower(strings.ReplaceAll(id, "-", ""))
}

func toGoogleEvent(e domain.CalendarEvent) *calendar.Event {
	return &calendar.Event{
		Id:          GoogleEventID(e.ID),
		Summary:     e.Title,
		Location:    e.Resource.Location,
		Description: e.Resource.Description,
		Start: &calendar.EventDateTime{
			DateTime: e.Start.Format(time.RFC3339),
			TimeZone: googleTimeZone(e.Start.Location()),
		},
		End: &calendar.EventDateTime{
			DateTime: e.End.Format(time.RFC3339),
			TimeZone: googleTimeZone(e.End.Location()),
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{"type": e.Resource.Type},
		},
	}
}

// googleTimeZone returns the IANA name of loc, or "" when loc has none and
// the RFC 3339 offset in DateTime has to carry the zone alone.
func googleTimeZone(loc *time.Location) string {
	name := loc.String()
	if name == "" || name == "Local" {
		return ""
	}
	if _, err := time.LoadLocation(name); err != nil {
		return ""
	}
	return name
}

func isGoogleStatus(err error, code int) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == code
}

func classifyGoogleError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &StatusError{StatusCode: gerr.Code, Message: gerr.Message}
	}
	return err
}

func googleStatus(err error) int {
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.StatusCode
	}
	return 0
}
