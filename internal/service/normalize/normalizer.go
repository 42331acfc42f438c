package normalize

import (
	"fmt"
	"strings"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

// Input is a validated optimization request with every time converted to
// minute-of-day.
type Input struct {
	Courses     []domain.ScheduleItem
	Activities  []domain.ScheduleItem
	Preferences domain.Preferences
}

// FixedItems returns courses followed by fixed activities, in input order.
func (in *Input) FixedItems() []domain.ScheduleItem {
	items := make([]domain.ScheduleItem, 0, len(in.Courses)+len(in.Activities))
	items = append(items, in.Courses...)
	for _, a := range in.Activities {
		if a.IsFixed() {
			items = append(items, a)
		}
	}
	return items
}

func (in *Input) FlexibleActivities() []domain.ScheduleItem {
	items := make([]domain.ScheduleItem, 0, len(in.Activities))
	for _, a := range in.Activities {
		if !a.IsFixed() {
			items = append(items, a)
		}
	}
	return items
}

type Normalizer struct {
	defaults domain.Preferences
}

// NewNormalizer uses defaults for preference fields a request leaves out.
func NewNormalizer(defaults domain.Preferences) *Normalizer {
	return &Normalizer{defaults: defaults}
}

// Normalize validates the whole request and reports every invalid field in
// a single *domain.ValidationError. A wake-up time that is not before the
// sleep time is reported as *domain.ConfigurationError.
func (n *Normalizer) Normalize(req domain.OptimizeInput) (*Input, error) {
	verr := &domain.ValidationError{}

	courses := make([]domain.ScheduleItem, 0, len(req.Courses))
	for i, c := range req.Courses {
		if item, ok := normalizeCourse(verr, fmt.Sprintf("courses[%d]", i), i, c); ok {
			courses = append(courses, item)
		}
	}

	activities := make([]domain.ScheduleItem, 0, len(req.Activities))
	for i, a := range req.Activities {
		if item, ok := normalizeActivity(verr, fmt.Sprintf("activities[%d]", i), i, a); ok {
			activities = append(activities, item)
		}
	}

	prefs := n.normalizePreferences(verr, req.Preferences)

	if err := verr.Err(); err != nil {
		return nil, err
	}

	if prefs.WakeUpTime >= prefs.SleepTime {
		return nil, &domain.ConfigurationError{
			Field:   "preferences",
			Message: fmt.Sprintf("wakeUpTime %s must be before sleepTime %s", domain.FormatClock(prefs.WakeUpTime), domain.FormatClock(prefs.SleepTime)),
		}
	}

	return &Input{
		Courses:     courses,
		Activities:  activities,
		Preferences: prefs,
	}, nil
}

func normalizeCourse(verr *domain.ValidationError, path string, order int, c domain.CourseInput) (domain.ScheduleItem, bool) {
	before := len(verr.Fields)

	name := strings.TrimSpace(c.Name)
	if name == "" {
		verr.Add(path+".name", "is required")
	}

	day, err := domain.ParseWeekday(c.Day)
	if err != nil {
		verr.Add(path+".day", err.Error())
	}

	start, startErr := domain.ParseClock(c.StartTime)
	if startErr != nil {
		verr.Add(path+".startTime", startErr.Error())
	}
	end, endErr := domain.ParseClock(c.EndTime)
	if endErr != nil {
		verr.Add(path+".endTime", endErr.Error())
	}
	if startErr == nil && endErr == nil && end <= start {
		verr.Add(path+".endTime", "must be after startTime")
	}

	if len(verr.Fields) > before {
		return domain.ScheduleItem{}, false
	}

	return domain.ScheduleItem{
		Kind:            domain.KindCourse,
		Scheduling:      domain.SchedulingFixed,
		Name:            name,
		Day:             day,
		Start:           start,
		End:             end,
		DurationMinutes: end - start,
		Deadline:        domain.NoDeadline,
		Location:        strings.TrimSpace(c.Location),
		Description:     strings.TrimSpace(c.Description),
		Category:        strings.TrimSpace(c.CourseType),
		Order:           order,
	}, true
}

func normalizeActivity(verr *domain.ValidationError, path string, order int, a domain.ActivityInput) (domain.ScheduleItem, bool) {
	before := len(verr.Fields)

	name := strings.TrimSpace(a.Name)
	if name == "" {
		verr.Add(path+".name", "is required")
	}

	if a.Duration <= 0 {
		verr.Addf(path+".duration", "must be greater than 0, got %d", a.Duration)
	}

	priority, err := domain.ParsePriority(a.Priority)
	if err != nil {
		verr.Add(path+".priority", err.Error())
	}

	deadline := domain.NoDeadline
	if strings.TrimSpace(a.MustBeBefore) != "" {
		parsed, err := domain.ParseClock(a.MustBeBefore)
		if err != nil {
			verr.Add(path+".mustBeBefore", err.Error())
		} else {
			deadline = parsed
		}
	}

	item := domain.ScheduleItem{
		Kind:            domain.KindActivity,
		Scheduling:      domain.SchedulingFlexible,
		Name:            name,
		DurationMinutes: a.Duration,
		Priority:        priority,
		Deadline:        deadline,
		Location:        strings.TrimSpace(a.Location),
		Description:     strings.TrimSpace(a.Description),
		Category:        strings.ToLower(strings.TrimSpace(a.Category)),
		Order:           order,
	}

	hasDay := strings.TrimSpace(a.SpecificDay) != ""
	hasTime := strings.TrimSpace(a.SpecificTime) != ""
	switch {
	case hasDay && hasTime:
		day, err := domain.ParseWeekday(a.SpecificDay)
		if err != nil {
			verr.Add(path+".specificDay", err.Error())
		}
		start, err := domain.ParseClock(a.SpecificTime)
		if err != nil {
			verr.Add(path+".specificTime", err.Error())
		} else if a.Duration > 0 && start+a.Duration > domain.MinutesPerDay {
			verr.Add(path+".duration", "fixed activity must end by 24:00")
		}
		item.Scheduling = domain.SchedulingFixed
		item.Day = day
		item.Start = start
		item.End = start + a.Duration
	case hasDay:
		verr.Add(path+".specificTime", "is required when specificDay is set")
	case hasTime:
		verr.Add(path+".specificDay", "is required when specificTime is set")
	}

	if len(verr.Fields) > before {
		return domain.ScheduleItem{}, false
	}
	return item, true
}

func (n *Normalizer) normalizePreferences(verr *domain.ValidationError, p domain.PreferencesInput) domain.Preferences {
	prefs := n.defaults

	if strings.TrimSpace(p.WakeUpTime) != "" {
		wake, err := domain.ParseClock(p.WakeUpTime)
		if err != nil {
			verr.Add("preferences.wakeUpTime", err.Error())
		} else {
			prefs.WakeUpTime = wake
		}
	}

	if strings.TrimSpace(p.SleepTime) != "" {
		sleep, err := domain.ParseClock(p.SleepTime)
		if err != nil {
			verr.Add("preferences.sleepTime", err.Error())
		} else {
			prefs.SleepTime = sleep
		}
	}

	if p.BreakDuration != nil {
		if *p.BreakDuration < 0 {
			verr.Addf("preferences.breakDuration", "must not be negative, got %d", *p.BreakDuration)
		} else {
			prefs.BreakDurationMinutes = *p.BreakDuration
		}
	}

	if p.StudySessionDuration != nil {
		if *p.StudySessionDuration < 0 {
			verr.Addf("preferences.studySessionDuration", "must not be negative, got %d", *p.StudySessionDuration)
		} else {
			prefs.StudySessionDurationMinutes = *p.StudySessionDuration
		}
	}

	return prefs
}
