package domain

import (
	"fmt"
	"strings"
)

type ItemKind string

const (
	KindCourse   ItemKind = "course"
	KindActivity ItemKind = "activity"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority defaults an empty value to medium.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPriority, s)
	}
}

// Rank orders priorities; higher is more important.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

type Scheduling string

const (
	SchedulingFixed    Scheduling = "fixed"
	SchedulingFlexible Scheduling = "flexible"
)

const (
	DefaultCourseType     = "course"
	DefaultActivityType   = "activity"
	NoDeadline            = -1
	defaultChunkNameStyle = "%s (Sesi %d/%d)"
)

// ScheduleItem is a normalized course or activity. Times are minute-of-day.
// Start and End are set for fixed items only.
type ScheduleItem struct {
	Kind            ItemKind
	Scheduling      Scheduling
	Name            string
	Day             Weekday
	Start           int
	End             int
	DurationMinutes int
	Priority        Priority
	Deadline        int
	Location        string
	Description     string
	Category        string
	Order           int
}

func (i ScheduleItem) IsFixed() bool {
	return i.Scheduling == SchedulingFixed
}

func (i ScheduleItem) HasDeadline() bool {
	return i.Deadline != NoDeadline
}

// TypeTag is the color tag used by the portal for this item.
func (i ScheduleItem) TypeTag() string {
	if i.Category != "" {
		return i.Category
	}
	if i.Kind == KindCourse {
		return DefaultCourseType
	}
	return DefaultActivityType
}

// ChunkName names the n-th of total study sessions of an activity.
func ChunkName(name string, n, total int) string {
	return fmt.Sprintf(defaultChunkNameStyle, name, n, total)
}

// ChunkIndex reports which study session a ChunkName refers to. Names that
// were not produced by ChunkName yield ok=false.
func ChunkIndex(name string) (n, total int, ok bool) {
	i := strings.LastIndex(name, " (Sesi ")
	if i < 0 {
		return 0, 0, false
	}
	var rest string
	if c, err := fmt.Sscanf(name[i:], " (Sesi %d/%d%s", &n, &total, &rest); c != 3 || err != nil || rest != ")" {
		return 0, 0, false
	}
	if n < 1 || n > total {
		return 0, 0, false
	}
	return n, total, true
}

type Preferences struct {
	WakeUpTime                  int
	SleepTime                   int
	BreakDurationMinutes        int
	StudySessionDurationMinutes int
}

// AwakeMinutes is the length of the daily scheduling window.
func (p Preferences) AwakeMinutes() int {
	return p.SleepTime - p.WakeUpTime
}
