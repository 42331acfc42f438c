package calprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/logging"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/tracing"
)

// EventPayload is the body of PUT /api/v1/owners/{owner}/events/{id}.
type EventPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Type        string `json:"type"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

func PayloadFromEvent(e domain.CalendarEvent) EventPayload {
	return EventPayload{
		ID:          e.ID,
		Title:       e.Title,
		Start:       e.Start.Format(time.RFC3339),
		End:         e.End.Format(time.RFC3339),
		Type:        e.Resource.Type,
		Location:    e.Resource.Location,
		Description: e.Resource.Description,
	}
}

// HTTPProvider talks to a calendar service that exposes upsert-by-id over
// plain HTTP.
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

func NewHTTPProvider(baseURL string, maxRetries int) *HTTPProvider {
	return &HTTPProvider{
		baseURL:    baseURL,
		httpClient: newHTTPClient(baseURL),
		maxRetries: maxRetries,
	}
}

func (p *HTTPProvider) Name() string {
	return "http"
}

func (p *HTTPProvider) UpsertEvent(ctx context.Context, ownerID string, event domain.CalendarEvent) error {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	u = u.JoinPath("api", "v1", "owners", ownerID, "events", event.ID)

	body, err := json.Marshal(PayloadFromEvent(event))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return withRetry(ctx, p.maxRetries, event.ID, func(ctx context.Context) error {
		return p.put(ctx, u.String(), body, event.ID)
	})
}

func (p *HTTPProvider) put(ctx context.Context, target string, body []byte, eventID string) error {
	ctx, span := tracing.StartExternalAPISpan(ctx, "upsert_event", target)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(body))
	if err != nil {
		tracing.RecordExternalAPIResult(span, 0, err)
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set(logging.RequestIDHeader, requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to send event to calendar provider",
			slog.String("event_id", eventID),
			slog.String("error", err.Error()),
		)
		tracing.RecordExternalAPIResult(span, 0, err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
		slog.WarnContext(ctx, "unexpected status code from calendar provider",
			slog.String("event_id", eventID),
			slog.Int("status_code", resp.StatusCode),
		)
		tracing.RecordExternalAPIResult(span, resp.StatusCode, statusErr)
		return statusErr
	}

	tracing.RecordExternalAPIResult(span, resp.StatusCode, nil)
	slog.DebugContext(ctx, "event upserted",
		slog.String("event_id", eventID),
		slog.Int("status_code", resp.StatusCode),
	)
	return nil
}
