package allocator

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/conflict"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/normalize"
)

const (
	conflictWarningFormat      = "%s bertentangan dengan %s"
	deadlineWarningFormat      = "Tidak dapat menjadwalkan '%s' — tidak ada slot yang cukup sebelum deadline"
	noSlotWarningFormat        = "Tidak dapat menjadwalkan '%s' — tidak ada slot yang cukup"
	splitRecommendationFormat  = "'%s' dibagi menjadi %d sesi di hari %s agar tetap sesuai durasi sesi belajar"
	fixedDeadlineWarningFormat = "'%s' berakhir pukul %s, melewati batas waktu %s"
	awakeWindowWarningFormat   = "'%s' berada di luar jam aktif %s"
)

type Allocator struct{}

func NewAllocator() *Allocator {
	return &Allocator{}
}

// Allocate seeds fixed commitments, then places flexible activities one by
// one in priority order. Unplaceable activities become warnings; Allocate
// never fails. The same input always yields the same result.
func (a *Allocator) Allocate(ctx context.Context, in *normalize.Input) *Result {
	result := &Result{
		Week:            conflict.NewWeek(),
		Preferences:     in.Preferences,
		Warnings:        make([]string, 0),
		Recommendations: make([]string, 0),
	}

	a.seedFixed(ctx, result, in.FixedItems())

	pq := NewPriorityQueue()
	for _, item := range in.FlexibleActivities() {
		heap.Push(pq, NewPriorityItem(item))
	}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*PriorityItem)
		a.placeFlexible(ctx, result, item.Item)
	}

	return result
}

func (a *Allocator) seedFixed(ctx context.Context, result *Result, items []domain.ScheduleItem) {
	for _, item := range items {
		timeline := result.Week.Day(item.Day)
		key := domain.DedupKey(item.Day, item.Name, item.Start, item.End)

		if timeline.Contains(key) {
			slog.DebugContext(ctx, "allocator: duplicate fixed item collapsed",
				slog.String("key", key),
			)
			continue
		}

		iv := conflict.Interval{Start: item.Start, End: item.End}
		for _, existing := range timeline.Conflicts(iv) {
			result.Warnings = append(result.Warnings, fmt.Sprintf(conflictWarningFormat, item.Name, existing.Item.Name))
			slog.DebugContext(ctx, "allocator: fixed item conflict",
				slog.String("item", item.Name),
				slog.String("conflicts_with", existing.Item.Name),
				slog.String("day", item.Day.String()),
			)
		}

		result.Warnings = append(result.Warnings, softConstraintWarnings(item, result.Preferences)...)

		timeline.Insert(conflict.Placement{Interval: iv, Key: key, Item: item})
		result.FixedPlaced++
	}
}

// softConstraintWarnings reports a fixed item that keeps its time but breaks
// its own deadline or the waking window.
func softConstraintWarnings(item domain.ScheduleItem, prefs domain.Preferences) []string {
	var warnings []string
	if item.HasDeadline() && item.End > item.Deadline {
		warnings = append(warnings, fmt.Sprintf(fixedDeadlineWarningFormat,
			item.Name, domain.FormatClock(item.End), domain.FormatClock(item.Deadline)))
	}
	if item.Start < prefs.WakeUpTime || item.End > prefs.SleepTime {
		warnings = append(warnings, fmt.Sprintf(awakeWindowWarningFormat,
			item.Name, domain.FormatRange(prefs.WakeUpTime, prefs.SleepTime)))
	}
	return warnings
}

func (a *Allocator) placeFlexible(ctx context.Context, result *Result, item domain.ScheduleItem) {
	prefs := result.Preferences

	upper := prefs.SleepTime
	if item.HasDeadline() {
		upper = min(upper, item.Deadline)
	}

	sizes := chunkSizes(item.DurationMinutes, prefs.StudySessionDurationMinutes)
	trial := result.Week.Clone()
	days := make([]domain.Weekday, 0, len(sizes))

	for i, size := range sizes {
		day, iv, ok := chooseSlot(trial, size, prefs.WakeUpTime, upper, prefs.BreakDurationMinutes)
		if !ok {
			result.Warnings = append(result.Warnings, unplacedWarning(item))
			result.Unplaced = append(result.Unplaced, item)
			slog.DebugContext(ctx, "allocator: activity unplaced",
				slog.String("item", item.Name),
				slog.Int("chunk", i+1),
				slog.Int("chunks", len(sizes)),
			)
			return
		}

		placed := item
		if len(sizes) > 1 {
			placed.Name = domain.ChunkName(item.Name, i+1, len(sizes))
		}
		placed.Day = day
		placed.Start = iv.Start
		placed.End = iv.End
		placed.DurationMinutes = size

		trial.Day(day).Insert(conflict.Placement{
			Interval: iv,
			Key:      domain.DedupKey(day, placed.Name, iv.Start, iv.End),
			Item:     placed,
		})
		days = appendDay(days, day)

		slog.DebugContext(ctx, "allocator: placed activity",
			slog.String("item", placed.Name),
			slog.String("day", day.String()),
			slog.String("time", domain.FormatRange(iv.Start, iv.End)),
		)
	}

	result.Week = trial
	result.FlexiblePlaced++

	if len(days) > 1 {
		names := make([]string, 0, len(days))
		for _, d := range days {
			names = append(names, d.String())
		}
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf(splitRecommendationFormat, item.Name, len(sizes), strings.Join(names, ", ")))
	}
}

// chooseSlot picks the day with the least committed minutes among the days
// that can fit the item, earliest weekday on ties, and returns the earliest
// fitting interval on it.
func chooseSlot(week *conflict.Week, duration, lower, upper, pad int) (domain.Weekday, conflict.Interval, bool) {
	var (
		bestDay      domain.Weekday
		bestInterval conflict.Interval
		bestLoad     int
		found        bool
	)

	for _, day := range domain.AllWeekdays() {
		timeline := week.Day(day)
		iv, ok := timeline.EarliestFit(duration, lower, upper, pad)
		if !ok {
			continue
		}
		load := timeline.CommittedMinutes()
		if !found || load < bestLoad {
			bestDay, bestInterval, bestLoad, found = day, iv, load, true
		}
	}

	return bestDay, bestInterval, found
}

// chunkSizes splits a duration into full study sessions plus a remainder.
// A non-positive session length disables splitting.
func chunkSizes(duration, session int) []int {
	if session <= 0 || duration <= session {
		return []int{duration}
	}

	sizes := make([]int, 0, duration/session+1)
	for remaining := duration; remaining > 0; remaining -= session {
		sizes = append(sizes, min(session, remaining))
	}
	return sizes
}

func unplacedWarning(item domain.ScheduleItem) string {
	if item.HasDeadline() {
		return fmt.Sprintf(deadlineWarningFormat, item.Name)
	}
	return fmt.Sprintf(noSlotWarningFormat, item.Name)
}

func appendDay(days []domain.Weekday, day domain.Weekday) []domain.Weekday {
	for _, d := range days {
		if d == day {
			return days
		}
	}
	return append(days, day)
}
