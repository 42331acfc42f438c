package conflict

import (
	"sort"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

// Interval is a half-open [Start, End) range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

func (a Interval) Duration() int {
	return a.End - a.Start
}

// Placement is an item committed to a day.
type Placement struct {
	Interval
	Key  string
	Item domain.ScheduleItem
}

// Timeline holds the placements of a single day ordered by start time.
// Days hold tens of items, so lookups are linear scans.
type Timeline struct {
	placements []Placement
}

func NewTimeline() *Timeline {
	return &Timeline{placements: make([]Placement, 0)}
}

func (t *Timeline) Len() int {
	return len(t.placements)
}

func (t *Timeline) Placements() []Placement {
	out := make([]Placement, len(t.placements))
	copy(out, t.placements)
	return out
}

func (t *Timeline) Contains(key string) bool {
	for _, p := range t.placements {
		if p.Key == key {
			return true
		}
	}
	return false
}

// Conflicts returns the placements that overlap iv, earliest first.
func (t *Timeline) Conflicts(iv Interval) []Placement {
	var out []Placement
	for _, p := range t.placements {
		if p.Start >= iv.End {
			break
		}
		if p.Overlaps(iv) {
			out = append(out, p)
		}
	}
	return out
}

func (t *Timeline) Insert(p Placement) {
	idx := sort.Search(len(t.placements), func(i int) bool {
		q := t.placements[i]
		if q.Start != p.Start {
			return q.Start > p.Start
		}
		return q.End > p.End
	})

	t.placements = append(t.placements, Placement{})
	copy(t.placements[idx+1:], t.placements[idx:])
	t.placements[idx] = p
}

// CommittedMinutes sums the durations of all placements.
func (t *Timeline) CommittedMinutes() int {
	total := 0
	for _, p := range t.placements {
		total += p.Duration()
	}
	return total
}

// FreeWindows returns the maximal ranges within [lower, upper) where an item
// can sit while keeping pad minutes away from every placement on both sides.
func (t *Timeline) FreeWindows(lower, upper, pad int) []Interval {
	windows := make([]Interval, 0)
	cursor := lower

	for _, p := range t.placements {
		if cursor >= upper {
			break
		}
		blockStart := p.Start - pad
		blockEnd := p.End + pad

		if blockStart > cursor {
			end := min(blockStart, upper)
			if end > cursor {
				windows = append(windows, Interval{Start: cursor, End: end})
			}
		}
		cursor = max(cursor, blockEnd)
	}

	if cursor < upper {
		windows = append(windows, Interval{Start: cursor, End: upper})
	}

	return windows
}

// EarliestFit finds the earliest start for an item of the given duration.
func (t *Timeline) EarliestFit(duration, lower, upper, pad int) (Interval, bool) {
	if duration <= 0 {
		return Interval{}, false
	}
	for _, w := range t.FreeWindows(lower, upper, pad) {
		if w.Duration() >= duration {
			return Interval{Start: w.Start, End: w.Start + duration}, true
		}
	}
	return Interval{}, false
}

func (t *Timeline) Clone() *Timeline {
	return &Timeline{placements: t.Placements()}
}

// Week is one timeline per weekday, Monday first.
type Week [domain.DaysPerWeek]*Timeline

func NewWeek() *Week {
	var w Week
	for i := range w {
		w[i] = NewTimeline()
	}
	return &w
}

func (w *Week) Day(d domain.Weekday) *Timeline {
	return w[d]
}

func (w *Week) Clone() *Week {
	var out Week
	for i, t := range w {
		out[i] = t.Clone()
	}
	return &out
}
