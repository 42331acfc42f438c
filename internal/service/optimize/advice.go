package optimize

import (
	"fmt"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/allocator"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/normalize"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/workload"
)

const (
	heavyDayFormat   = "Hari %s adalah hari terpadat (%.1f jam). Pertimbangkan memindahkan aktivitas fleksibel ke hari %s."
	unplacedFormat   = "Ada %d aktivitas yang belum terjadwal. Kurangi durasinya atau longgarkan batas waktunya."
	lowFreeTimeFmt   = "Waktu luang rata-rata hanya %.1f jam per hari. Pertimbangkan mengurangi aktivitas berprioritas rendah."
	balancedSchedule = "Jadwal sudah seimbang. Pertahankan pola ini."

	breakTipFormat    = "Gunakan jeda %d menit di antara kegiatan untuk beristirahat."
	noBreakTip        = "Sisipkan waktu istirahat di antara kegiatan agar tidak kelelahan."
	sessionTipFormat  = "Belajar dalam sesi maksimal %d menit agar tetap fokus."
	deadlineTip       = "Kerjakan aktivitas dengan tenggat paling awal terlebih dahulu."
	sleepTip          = "Usahakan tidur cukup 7-8 jam setiap malam."
	reviewTip         = "Tinjau kembali jadwal ini setiap akhir pekan."
	minFreeHoursDaily = 2.0
	maxAwakeMinutes   = 17 * 60
)

// buildRecommendations derives advice from the allocation and the workload
// analysis. The output depends only on its inputs.
func buildRecommendations(result *allocator.Result, analysis domain.Analysis) []string {
	recs := make([]string, 0, len(result.Recommendations)+3)
	recs = append(recs, result.Recommendations...)

	if analysis.WorkLoadBalance != workload.BalanceBalanced {
		heavy, light := busiestAndQuietestDays(analysis.DailyCommittedMinutes)
		recs = append(recs, fmt.Sprintf(heavyDayFormat,
			heavy, float64(analysis.DailyCommittedMinutes[heavy])/60, light))
	}

	if n := len(result.Unplaced); n > 0 {
		recs = append(recs, fmt.Sprintf(unplacedFormat, n))
	}

	if analysis.AverageFreeHoursPerDay < minFreeHoursDaily {
		recs = append(recs, fmt.Sprintf(lowFreeTimeFmt, analysis.AverageFreeHoursPerDay))
	}

	if len(recs) == 0 {
		recs = append(recs, balancedSchedule)
	}
	return recs
}

func buildTips(in *normalize.Input) []string {
	prefs := in.Preferences
	tips := make([]string, 0, 5)

	if prefs.BreakDurationMinutes > 0 {
		tips = append(tips, fmt.Sprintf(breakTipFormat, prefs.BreakDurationMinutes))
	} else {
		tips = append(tips, noBreakTip)
	}

	if prefs.StudySessionDurationMinutes > 0 {
		tips = append(tips, fmt.Sprintf(sessionTipFormat, prefs.StudySessionDurationMinutes))
	}

	for _, a := range in.Activities {
		if a.HasDeadline() {
			tips = append(tips, deadlineTip)
			break
		}
	}

	if prefs.AwakeMinutes() > maxAwakeMinutes {
		tips = append(tips, sleepTip)
	}

	return append(tips, reviewTip)
}

// busiestAndQuietestDays picks the earliest day on ties.
func busiestAndQuietestDays(daily [domain.DaysPerWeek]int) (domain.Weekday, domain.Weekday) {
	heavy, light := domain.Monday, domain.Monday
	for _, day := range domain.AllWeekdays() {
		if daily[day] > daily[heavy] {
			heavy = day
		}
		if daily[day] < daily[light] {
			light = day
		}
	}
	return heavy, light
}
