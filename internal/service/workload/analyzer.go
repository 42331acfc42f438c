package workload

import (
	"math"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/normalize"
)

const (
	BalanceBalanced   = "Seimbang"
	BalanceModerate   = "Cukup Seimbang"
	BalanceUnbalanced = "Tidak Seimbang"

	// Thresholds on the coefficient of variation of daily committed minutes.
	balancedMaxCV = 0.25
	moderateMaxCV = 0.50
)

// Analyze summarizes how the week's committed time is spread across days.
// Counts come from the finished schedule: unplaced activities are left out
// and a chunked activity counts once. It only reads its arguments.
func Analyze(schedule domain.WeekSchedule, in *normalize.Input) domain.Analysis {
	prefs := in.Preferences

	var (
		daily      [domain.DaysPerWeek]int
		studyTotal int
		freeTotal  int
		courses    int
		activities int
	)

	for _, day := range domain.AllWeekdays() {
		for _, entry := range schedule[day] {
			start, end, err := entry.Interval()
			if err != nil {
				continue
			}
			minutes := end - start
			daily[day] += minutes

			switch entry.Kind {
			case domain.KindCourse:
				courses++
			case domain.KindActivity:
				if n, _, ok := domain.ChunkIndex(entry.Activity); !ok || n == 1 {
					activities++
				}
			}

			if countsAsStudy(entry) {
				studyTotal += minutes
			}
		}
		freeTotal += max(prefs.AwakeMinutes()-daily[day], 0)
	}

	cv := CoefficientOfVariation(daily[:])

	return domain.Analysis{
		TotalCourses:            courses,
		TotalActivities:         activities,
		AverageStudyHoursPerDay: hoursPerDay(studyTotal),
		AverageFreeHoursPerDay:  hoursPerDay(freeTotal),
		WorkLoadBalance:         BalanceLabel(cv),
		DailyCommittedMinutes:   daily,
		CoefficientOfVariation:  round(cv, 4),
	}
}

func countsAsStudy(entry domain.ScheduleEntry) bool {
	switch entry.Kind {
	case domain.KindCourse:
		return true
	case domain.KindActivity:
		return entry.Priority == domain.PriorityHigh
	default:
		return false
	}
}

// CoefficientOfVariation is the population standard deviation divided by the
// mean. An all-zero series has no variation.
func CoefficientOfVariation(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0
	for _, v := range values {
		sum += v
	}
	mean := float64(sum) / float64(len(values))
	if mean == 0 {
		return 0
	}

	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	stddev := math.Sqrt(sq / float64(len(values)))

	return stddev / mean
}

// BalanceLabel maps a coefficient of variation to a workload balance label.
func BalanceLabel(cv float64) string {
	switch {
	case cv < balancedMaxCV:
		return BalanceBalanced
	case cv < moderateMaxCV:
		return BalanceModerate
	default:
		return BalanceUnbalanced
	}
}

func hoursPerDay(totalMinutes int) float64 {
	return round(float64(totalMinutes)/float64(domain.DaysPerWeek)/60, 2)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
