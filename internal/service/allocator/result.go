package allocator

import (
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/conflict"
)

type Result struct {
	Week            *conflict.Week
	Preferences     domain.Preferences
	Warnings        []string
	Recommendations []string
	Unplaced        []domain.ScheduleItem
	FixedPlaced     int
	FlexiblePlaced  int
}

// Schedule renders the placements as chronological entries per weekday.
func (r *Result) Schedule() domain.WeekSchedule {
	var schedule domain.WeekSchedule
	for _, day := range domain.AllWeekdays() {
		placements := r.Week.Day(day).Placements()
		entries := make([]domain.ScheduleEntry, 0, len(placements))
		for _, p := range placements {
			entries = append(entries, entryFor(p))
		}
		schedule[day] = entries
	}
	return schedule
}

func entryFor(p conflict.Placement) domain.ScheduleEntry {
	entry := domain.ScheduleEntry{
		Time:        domain.FormatRange(p.Start, p.End),
		Activity:    p.Item.Name,
		Type:        p.Item.TypeTag(),
		Location:    p.Item.Location,
		Description: p.Item.Description,
		Kind:        p.Item.Kind,
	}
	if p.Item.Kind == domain.KindActivity {
		entry.Priority = p.Item.Priority
	}
	return entry
}
