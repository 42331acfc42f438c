package calendar

import (
	"errors"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

const (
	icsProductID = "-//KasumiMercury//campus-schedule-optimizer//ID"
	icsUIDDomain = "campus-schedule-optimizer"
	MaxICSWeeks  = 52
)

var ErrInvalidWeeks = fmt.Errorf("weeks must be between 1 and %d", MaxICSWeeks)

// ExportICS renders events as an iCalendar feed. With weeks > 1 every event
// repeats weekly for that many weeks.
func ExportICS(events []domain.CalendarEvent, weeks int, stamp time.Time) (string, error) {
	if weeks < 1 || weeks > MaxICSWeeks {
		return "", ErrInvalidWeeks
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, e := range events {
		if !e.End.After(e.Start) {
			return "", fmt.Errorf("event %s: %w", e.ID, domain.ErrInvalidTimeRange)
		}

		ev := cal.AddEvent(fmt.Sprintf("%s@%s", e.ID, icsUIDDomain))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(e.Start)
		ev.SetEndAt(e.End)
		ev.SetSummary(e.Title)
		if e.Resource.Location != "" {
			ev.SetLocation(e.Resource.Location)
		}
		if e.Resource.Description != "" {
			ev.SetDescription(e.Resource.Description)
		}
		if e.Resource.Type != "" {
			ev.AddProperty(ical.ComponentPropertyCategories, e.Resource.Type)
		}

		if weeks > 1 {
			rule, err := weeklyRule(e.Start, weeks)
			if err != nil {
				return "", fmt.Errorf("event %s: %w", e.ID, err)
			}
			ev.AddProperty(ical.ComponentPropertyRrule, rule)
		}
	}

	return cal.Serialize(), nil
}

func weeklyRule(start time.Time, weeks int) (string, error) {
	opt := rrule.ROption{
		Freq:  rrule.WEEKLY,
		Count: weeks,
	}

	// Validate the rule against the event start before emitting it.
	withStart := opt
	withStart.Dtstart = start
	r, err := rrule.NewRRule(withStart)
	if err != nil {
		return "", err
	}
	if len(r.All()) != weeks {
		return "", errors.New("weekly rule produced an unexpected number of occurrences")
	}

	return opt.RRuleString(), nil
}
