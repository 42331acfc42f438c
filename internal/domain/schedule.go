package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type ScheduleEntry struct {
	Time        string   `json:"time"`
	Activity    string   `json:"activity"`
	Type        string   `json:"type"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
	Kind        ItemKind `json:"kind,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
}

func (e ScheduleEntry) Interval() (int, int, error) {
	return ParseRange(e.Time)
}

// WeekSchedule holds the entries of each weekday, Monday first. It is encoded
// as a JSON object keyed by Indonesian day names in week order.
type WeekSchedule [DaysPerWeek][]ScheduleEntry

func (w WeekSchedule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for d := Monday; d <= Sunday; d++ {
		if d > Monday {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(d.String())
		if err != nil {
			return nil, err
		}
		entries := w[d]
		if entries == nil {
			entries = []ScheduleEntry{}
		}
		value, err := json.Marshal(entries)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts any weekday alias as a key. Keys are read in document
// order so that a day sent under two aliases keeps its entries in the order
// they were written.
func (w *WeekSchedule) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*w = WeekSchedule{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("optimizedSchedule: expected an object keyed by weekday")
	}

	var out WeekSchedule
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		d, err := ParseWeekday(name)
		if err != nil {
			return fmt.Errorf("optimizedSchedule: %w", err)
		}

		var entries []ScheduleEntry
		if err := dec.Decode(&entries); err != nil {
			return err
		}
		out[d] = append(out[d], entries...)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*w = out
	return nil
}

// EntryCount returns the number of entries across the week.
func (w WeekSchedule) EntryCount() int {
	n := 0
	for _, entries := range w {
		n += len(entries)
	}
	return n
}

type Analysis struct {
	TotalCourses            int              `json:"totalCourses"`
	TotalActivities         int              `json:"totalActivities"`
	AverageStudyHoursPerDay float64          `json:"averageStudyHoursPerDay"`
	AverageFreeHoursPerDay  float64          `json:"averageFreeHoursPerDay"`
	WorkLoadBalance         string           `json:"workLoadBalance"`
	DailyCommittedMinutes   [DaysPerWeek]int `json:"dailyCommittedMinutes"`
	CoefficientOfVariation  float64          `json:"coefficientOfVariation"`
}

// OptimizedSchedule is the full result of an optimization run.
type OptimizedSchedule struct {
	Schedule        WeekSchedule `json:"optimizedSchedule"`
	Analysis        Analysis     `json:"analysis"`
	Recommendations []string     `json:"recommendations"`
	Tips            []string     `json:"tips"`
	Warnings        []string     `json:"warnings,omitempty"`
}
