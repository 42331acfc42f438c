package calendar

import (
	"context"
	"log/slog"
	"time"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/tracing"
)

type Option func(*Materializer)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(m *Materializer) {
		m.now = now
	}
}

// Materializer anchors weekly entries to concrete dates of the current week.
type Materializer struct {
	location *time.Location
	policy   *CategoryPolicy
	now      func() time.Time
}

func NewMaterializer(location *time.Location, policy *CategoryPolicy, opts ...Option) *Materializer {
	if location == nil {
		location = time.Local
	}
	if policy == nil {
		policy = DefaultCategoryPolicy()
	}

	m := &Materializer{
		location: location,
		policy:   policy,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartOfWeek returns Monday 00:00 of the week containing now.
func (m *Materializer) StartOfWeek() time.Time {
	today := m.now().In(m.location)
	offset := (int(today.Weekday()) + 6) % 7
	return time.Date(today.Year(), today.Month(), today.Day()-offset, 0, 0, 0, 0, m.location)
}

// Materialize converts schedule entries, then the fixed items, into events
// of the current week. The first occurrence of a dedup key wins, so an item
// present on both paths yields a single event. Either argument may be nil.
func (m *Materializer) Materialize(ctx context.Context, schedule *domain.WeekSchedule, items []domain.ScheduleItem) []domain.CalendarEvent {
	entryCount := 0
	if schedule != nil {
		entryCount = schedule.EntryCount()
	}

	ctx, span := tracing.StartMaterializeSpan(ctx, entryCount, len(items))
	defer span.End()

	weekStart := m.StartOfWeek()
	seen := make(map[string]struct{})
	events := make([]domain.CalendarEvent, 0, entryCount+len(items))
	duplicates, excluded := 0, 0

	emit := func(day domain.Weekday, title string, start, end int, resource domain.EventResource) {
		if m.policy.Excludes(resource.Type) {
			excluded++
			return
		}

		key := domain.DedupKey(day, title, start, end)
		if _, ok := seen[key]; ok {
			duplicates++
			return
		}
		seen[key] = struct{}{}

		date := weekStart.AddDate(0, 0, int(day))
		events = append(events, domain.CalendarEvent{
			ID:       domain.EventID(key),
			Title:    title,
			Start:    atMinute(date, start),
			End:      atMinute(date, end),
			Resource: resource,
		})
	}

	if schedule != nil {
		for _, day := range domain.AllWeekdays() {
			for _, entry := range schedule[day] {
				start, end, err := entry.Interval()
				if err != nil {
					slog.WarnContext(ctx, "skipping schedule entry with invalid time",
						slog.String("day", day.String()),
						slog.String("activity", entry.Activity),
						slog.String("time", entry.Time),
						slog.String("error", err.Error()),
					)
					continue
				}
				emit(day, entry.Activity, start, end, domain.EventResource{
					Type:        entry.Type,
					Location:    entry.Location,
					Description: entry.Description,
				})
			}
		}
	}

	for _, item := range items {
		// Flexible activities have no time until they are optimized.
		if !item.IsFixed() || item.End <= item.Start {
			continue
		}
		emit(item.Day, item.Name, item.Start, item.End, domain.EventResource{
			Type:        item.TypeTag(),
			Location:    item.Location,
			Description: item.Description,
		})
	}

	tracing.RecordMaterializeResult(span, len(events), duplicates, excluded)

	slog.DebugContext(ctx, "materialized calendar events",
		slog.Int("event_count", len(events)),
		slog.Int("duplicate_count", duplicates),
		slog.Int("excluded_count", excluded),
	)

	return events
}

func atMinute(date time.Time, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minute/60, minute%60, 0, 0, date.Location())
}
