package domain

import (
	"fmt"
	"strings"
)

type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const DaysPerWeek = 7

var weekdayNames = [DaysPerWeek]string{
	"Senin",
	"Selasa",
	"Rabu",
	"Kamis",
	"Jumat",
	"Sabtu",
	"Minggu",
}

var weekdayAliases = map[string]Weekday{
	"senin":     Monday,
	"selasa":    Tuesday,
	"rabu":      Wednesday,
	"kamis":     Thursday,
	"jumat":     Friday,
	"jum'at":    Friday,
	"sabtu":     Saturday,
	"minggu":    Sunday,
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"thursday":  Thursday,
	"friday":    Friday,
	"saturday":  Saturday,
	"sunday":    Sunday,
}

// ParseWeekday accepts Indonesian and English day names, case-insensitively.
func ParseWeekday(name string) (Weekday, error) {
	d, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
	}
	return d, nil
}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

func AllWeekdays() []Weekday {
	days := make([]Weekday, 0, DaysPerWeek)
	for d := Monday; d <= Sunday; d++ {
		days = append(days, d)
	}
	return days
}
