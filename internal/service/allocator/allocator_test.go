package allocator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/normalize"
)

var baseDefaults = domain.Preferences{
	WakeUpTime:                  6 * 60,
	SleepTime:                   22 * 60,
	BreakDurationMinutes:        15,
	StudySessionDurationMinutes: 120,
}

func intPtr(v int) *int {
	return &v
}

func mustNormalize(t *testing.T, req domain.OptimizeInput) *normalize.Input {
	t.Helper()

	in, err := normalize.NewNormalizer(baseDefaults).Normalize(req)
	if err != nil {
		t.Fatalf("failed to normalize input: %v", err)
	}
	return in
}

// blockMornings fills 06:00 until end on every day except Senin.
func blockMornings(end string) []domain.CourseInput {
	courses := make([]domain.CourseInput, 0, 6)
	for _, day := range []string{"Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"} {
		courses = append(courses, domain.CourseInput{
			Name:      "Praktikum " + day,
			Day:       day,
			StartTime: "06:00",
			EndTime:   end,
		})
	}
	return courses
}

func findEntry(schedule domain.WeekSchedule, name string) (domain.Weekday, domain.ScheduleEntry, bool) {
	for _, day := range domain.AllWeekdays() {
		for _, e := range schedule[day] {
			if e.Activity == name {
				return day, e, true
			}
		}
	}
	return 0, domain.ScheduleEntry{}, false
}

func TestAllocate_KalkulusExample(t *testing.T) {
	in := mustNormalize(t, domain.OptimizeInput{
		Courses: []domain.CourseInput{
			{Name: "Kalkulus", Day: "Senin", StartTime: "08:00", EndTime: "10:00"},
		},
		Activities: []domain.ActivityInput{
			{Name: "Olahraga", Duration: 60, Priority: "high", MustBeBefore: "12:00"},
		},
		Preferences: domain.PreferencesInput{
			WakeUpTime:           "06:00",
			SleepTime:            "23:00",
			BreakDuration:        intPtr(30),
			StudySessionDuration: intPtr(120),
		},
	})

	result := NewAllocator().Allocate(context.Background(), in)

	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", result.Warnings)
	}

	schedule := result.Schedule()

	day, course, ok := findEntry(schedule, "Kalkulus")
	if !ok {
		t.Fatal("Kalkulus missing from schedule")
	}
	if day != domain.Monday || course.Time != "08:00-10:00" {
		t.Errorf("Kalkulus: got %s %s, want Senin 08:00-10:00", day, course.Time)
	}

	day, act, ok := findEntry(schedule, "Olahraga")
	if !ok {
		t.Fatal("Olahraga missing from schedule")
	}
	start, end, err := act.Interval()
	if err != nil {
		t.Fatalf("invalid interval: %v", err)
	}
	if end-start != 60 {
		t.Errorf("duration: got %d, want 60", end-start)
	}
	if end > 12*60 {
		t.Errorf("Olahraga ends at %s, after deadline 12:00", domain.FormatClock(end))
	}
	// Senin already carries Kalkulus, so the least loaded day is Selasa.
	if day != domain.Tuesday || act.Time != "06:00-07:00" {
		t.Errorf("Olahraga: got %s %s, want Selasa 06:00-07:00", day, act.Time)
	}
	if act.Priority != domain.PriorityHigh || act.Kind != domain.KindActivity {
		t.Errorf("entry metadata: got kind=%s priority=%s", act.Kind, act.Priority)
	}
}

func TestAllocate_OnlyOneFitsBeforeDeadline(t *testing.T) {
	in := mustNormalize(t, domain.OptimizeInput{
		Courses: blockMornings("09:00"),
		Activities: []domain.ActivityInput{
			{Name: "Laporan", Duration: 180, MustBeBefore: "09:00"},
			{Name: "Tugas Besar", Duration: 180, MustBeBefore: "09:00"},
		},
		Preferences: domain.PreferencesInput{
			WakeUpTime:           "06:00",
			StudySessionDuration: intPtr(0),
		},
	})

	result := NewAllocator().Allocate(context.Background(), in)
	schedule := result.Schedule()

	if _, _, ok := findEntry(schedule, "Laporan"); !ok {
		t.Error("Laporan should be placed")
	}
	if _, _, ok := findEntry(schedule, "Tugas Besar"); ok {
		t.Error("Tugas Besar should not be placed")
	}

	want := "Tidak dapat menjadwalkan 'Tugas Besar' — tidak ada slot yang cukup sebelum deadline"
	if len(result.Warnings) != 1 || result.Warnings[0] != want {
		t.Errorf("warnings: got %v, want [%s]", result.Warnings, want)
	}
	if len(result.Unplaced) != 1 || result.Unplaced[0].Name != "Tugas Besar" {
		t.Errorf("unplaced: got %+v", result.Unplaced)
	}
}

func TestAllocate_HigherPriorityWins(t *testing.T) {
	in := mustNormalize(t, domain.OptimizeInput{
		Courses: blockMornings("09:00"),
		Activities: []domain.ActivityInput{
			{Name: "Nonton", Duration: 180, Priority: "low", MustBeBefore: "09:00"},
			{Name: "Belajar UTS", Duration: 180, Priority: "high", MustBeBefore: "09:00"},
		},
		Preferences: domain.PreferencesInput{StudySessionDuration: intPtr(0)},
	})

	result := NewAllocator().Allocate(context.Background(), in)

	if _, _, ok := findEntry(result.Schedule(), "Belajar UTS"); !ok {
		t.Error("high priority activity should be placed")
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "'Nonton'") {
		t.Errorf("warnings: got %v, want one for Nonton", result.Warnings)
	}
}

func TestAllocate_EarliestDeadlineFirst(t *testing.T) {
	in := mustNormalize(t, domain.OptimizeInput{
		Courses: blockMornings("12:00"),
		Activities: []domain.ActivityInput{
			{Name: "Esai", Duration: 180, MustBeBefore: "12:00"},
			{Name: "Kuis", Duration: 180, MustBeBefore: "09:00"},
		},
		Preferences: domain.PreferencesInput{
			BreakDuration:        intPtr(30),
			StudySessionDuration: intPtr(0),
		},
	})

	result := NewAllocator().Allocate(context.Background(), in)
	schedule := result.Schedule()

	day, kuis, ok := findEntry(schedule, "Kuis")
	if !ok {
		t.Fatalf("Kuis should be placed first, warnings: %v", result.Warnings)
	}
	if day != domain.Monday || kuis.Time != "06:00-09:00" {
		t.Errorf("Kuis: got %s %s, want Senin 06:00-09:00", day, kuis.Time)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "'Esai'") {
		t.Errorf("warnings: got %v, want one for Esai", result.Warnings)
	}
}

func TestAllocate_FixedConflictsAreKept(t *testing.T) {
	in := mustNormalize(t, domain.OptimizeInput{
		Courses: []domain.CourseInput{
			{Name: "Kalkulus", Day: "Senin", StartTime: "08:00", EndTime: "10:00"},
			{Name: "Fisika", Day: "Senin", StartTime: "09:00", EndTime: "11:00"},
			{Name: "Kimia", Day: "Senin", StartTime: "11:00", EndTime: "12:00"},
		},
		Activities: []domain.ActivityInput{
			{Name: "Rapat BEM", Duration: 60, SpecificDay: "Senin", SpecificTime: "09:30"},
		},
	})

	result := NewAllocator().Allocate(context.Background(), in)

	want := []string{
		"Fisika bertentangan dengan Kalkulus",
		"Rapat BEM bertentangan dengan Kalkulus",
		"Rapat BEM bertentangan dengan Fisika",
	}
	if len(result.Warnings) != len(want) {
		t.Fatalf("warnings: got %v, want %v", result.Warnings, want)
	}
	for i := range want {
		if result.Warnings[i] != want[i] {
			t.Errorf("warning %d: got %q, want %q", i, result.Warnings[i], want[i])
		}
	}

	monday := result.Schedule()[domain.Monday]
	if len(monday) != 4 {
		t.Fatalf("all fixed items should be placed, got %d entries", len(monday))
	}
	wantOrder := []string{"Kalkulus", "Fisika", "Rapat BEM", "Kimia"}
	for i, e := range monday {
		if e.Activity != wantOrder[i] {
			t.Errorf("entry %d: got %s, want %s", i, e.Activity, wantOrder[i])
		}
	}
	if result.FixedPlaced != 4 {
		t.Errorf("fixed placed: got %d, want 4", result.FixedPlaced)
	}
}

func TestAllocate_DuplicateFixedCollapses(t *testing.T) {
	in := mustNormalize(t, domain.OptimizeInput{
		Courses: []domain.CourseInput{
			{Name: "Kalkulus", Day: "Senin", StartTime: "08:00", EndTime: "10:00"},
			{Name: "Kalkulus", Day: "senin", StartTime: "08:00", EndTime: "10:00"},
		},
	})

	result := NewAllocator().Allocate(context.Background(), in)

	if len(result.Warnings) != 0 {
		t.Errorf("duplicate should not raise a conflict, got %v", result.Warnings)
	}
	if n := len(result.Schedule()[domain.Monday]); n != 1 {
		t.Errorf("got %d entries, want 1", n)
	}
}

func TestAllocate_FixedSoftConstraintWarnings(t *testing.T) {
	in := mustNormalize(t, domain.OptimizeInput{
		Courses: []domain.CourseInput{
			{Name: "Kuliah Subuh", Day: "Selasa", StartTime: "05:00", EndTime: "07:00"},
		},
		Activities: []domain.ActivityInput{
			{Name: "Rapat", Duration: 60, SpecificDay: "Senin", SpecificTime: "11:00", MustBeBefore: "11:30"},
			{Name: "Asistensi", Duration: 60, SpecificDay: "Rabu", SpecificTime: "10:00", MustBeBefore: "11:00"},
		},
	})

	result := NewAllocator().Allocate(context.Background(), in)

	want := map[string]bool{
		"'Kuliah Subuh' berada di luar jam aktif 06:00-22:00":      true,
		"'Rapat' berakhir pukul 12:00, melewati batas waktu 11:30": true,
	}
	if len(result.Warnings) != len(want) {
		t.Fatalf("warnings: got %v, want %d", result.Warnings, len(want))
	}
	for _, w := range result.Warnings {
		if !want[w] {
			t.Errorf("unexpected warning %q", w)
		}
	}
	if result.FixedPlaced != 3 {
		t.Errorf("fixed placed: got %d, want 3", result.FixedPlaced)
	}
}

func TestAllocate_ChunksSpreadAcrossDays(t *testing.T) {
	in := mustNormalize(t, domain.OptimizeInput{
		Activities: []domain.ActivityInput{
			{Name: "Belajar", Duration: 300, Priority: "high"},
		},
	})

	result := NewAllocator().Allocate(context.Background(), in)
	schedule := result.Schedule()

	want := []struct {
		day  domain.Weekday
		name string
		time string
	}{
		{domain.Monday, "Belajar (Sesi 1/3)", "06:00-08:00"},
		{domain.Tuesday, "Belajar (Sesi 2/3)", "06:00-08:00"},
		{domain.Wednesday, "Belajar (Sesi 3/3)", "06:00-07:00"},
	}
	for _, w := range want {
		day, entry, ok := findEntry(schedule, w.name)
		if !ok {
			t.Errorf("%s missing", w.name)
			continue
		}
		if day != w.day || entry.Time != w.time {
			t.Errorf("%s: got %s %s, want %s %s", w.name, day, entry.Time, w.day, w.time)
		}
	}

	if len(result.Warnings) != 0 {
		t.Errorf("split should not warn, got %v", result.Warnings)
	}
	if len(result.Recommendations) != 1 || !strings.Contains(result.Recommendations[0], "'Belajar' dibagi menjadi 3 sesi") {
		t.Errorf("recommendations: got %v", result.Recommendations)
	}
}

func TestAllocate_ChunksAreAllOrNothing(t *testing.T) {
	in := mustNormalize(t, domain.OptimizeInput{
		Activities: []domain.ActivityInput{
			{Name: "Maraton Belajar", Duration: 600, MustBeBefore: "07:00"},
		},
		Preferences: domain.PreferencesInput{StudySessionDuration: intPtr(60)},
	})

	result := NewAllocator().Allocate(context.Background(), in)

	if n := result.Schedule().EntryCount(); n != 0 {
		t.Errorf("partially placed chunks should be rolled back, got %d entries", n)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings: got %v, want 1", result.Warnings)
	}
	if result.FlexiblePlaced != 0 {
		t.Errorf("flexible placed: got %d, want 0", result.FlexiblePlaced)
	}
}

func TestAllocate_NoOverlapAndDeadlines(t *testing.T) {
	activities := make([]domain.ActivityInput, 0)
	priorities := []string{"high", "medium", "low"}
	for i := 0; i < 24; i++ {
		a := domain.ActivityInput{
			Name:     fmt.Sprintf("Aktivitas %02d", i),
			Duration: 30 + (i%5)*25,
			Priority: priorities[i%3],
		}
		if i%4 == 0 {
			a.MustBeBefore = fmt.Sprintf("%02d:00", 9+i%8)
		}
		activities = append(activities, a)
	}

	in := mustNormalize(t, domain.OptimizeInput{
		Courses: []domain.CourseInput{
			{Name: "Kalkulus", Day: "Senin", StartTime: "08:00", EndTime: "10:00"},
			{Name: "Basis Data", Day: "Senin", StartTime: "10:00", EndTime: "12:00"},
			{Name: "Jaringan", Day: "Rabu", StartTime: "13:00", EndTime: "15:30"},
			{Name: "Statistika", Day: "Jumat", StartTime: "07:00", EndTime: "09:00"},
		},
		Activities: activities,
		Preferences: domain.PreferencesInput{
			SleepTime:            "21:00",
			BreakDuration:        intPtr(20),
			StudySessionDuration: intPtr(90),
		},
	})
	brk := in.Preferences.BreakDurationMinutes

	deadlines := make(map[string]int)
	for _, a := range in.Activities {
		deadlines[a.Name] = a.Deadline
	}

	result := NewAllocator().Allocate(context.Background(), in)
	schedule := result.Schedule()

	for _, day := range domain.AllWeekdays() {
		entries := schedule[day]
		for i := range entries {
			si, ei, err := entries[i].Interval()
			if err != nil {
				t.Fatalf("invalid interval %q: %v", entries[i].Time, err)
			}

			if entries[i].Kind == domain.KindActivity {
				base, _, _ := strings.Cut(entries[i].Activity, " (Sesi")
				if d := deadlines[base]; d != domain.NoDeadline && ei > d {
					t.Errorf("%s on %s ends %s after deadline %s", entries[i].Activity, day, domain.FormatClock(ei), domain.FormatClock(d))
				}
				if si < in.Preferences.WakeUpTime || ei > in.Preferences.SleepTime {
					t.Errorf("%s on %s outside waking hours: %s", entries[i].Activity, day, entries[i].Time)
				}
			}

			for j := i + 1; j < len(entries); j++ {
				if entries[i].Kind == domain.KindCourse && entries[j].Kind == domain.KindCourse {
					continue
				}
				sj, ej, _ := entries[j].Interval()
				if si < ej+brk && sj < ei+brk {
					t.Errorf("%s (%s) and %s (%s) on %s are closer than the break",
						entries[i].Activity, entries[i].Time, entries[j].Activity, entries[j].Time, day)
				}
			}
		}
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	req := domain.OptimizeInput{
		Courses: []domain.CourseInput{
			{Name: "Kalkulus", Day: "Senin", StartTime: "08:00", EndTime: "10:00"},
			{Name: "Fisika", Day: "Selasa", StartTime: "13:00", EndTime: "15:00"},
		},
		Activities: []domain.ActivityInput{
			{Name: "Olahraga", Duration: 60, Priority: "high"},
			{Name: "Membaca", Duration: 45},
			{Name: "Belajar", Duration: 240, Priority: "high", MustBeBefore: "20:00"},
			{Name: "Main Game", Duration: 90, Priority: "low"},
		},
	}

	render := func() []byte {
		result := NewAllocator().Allocate(context.Background(), mustNormalize(t, req))
		data, err := json.Marshal(struct {
			Schedule domain.WeekSchedule
			Warnings []string
			Recs     []string
		}{result.Schedule(), result.Warnings, result.Recommendations})
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		return data
	}

	first := render()
	for i := 0; i < 5; i++ {
		if got := render(); string(got) != string(first) {
			t.Fatalf("run %d differs:\n%s\n%s", i, first, got)
		}
	}
}

func TestChunkSizes(t *testing.T) {
	tests := []struct {
		duration int
		session  int
		want     []int
	}{
		{duration: 60, session: 120, want: []int{60}},
		{duration: 120, session: 120, want: []int{120}},
		{duration: 300, session: 120, want: []int{120, 120, 60}},
		{duration: 240, session: 120, want: []int{120, 120}},
		{duration: 300, session: 0, want: []int{300}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.duration, tt.session), func(t *testing.T) {
			got := chunkSizes(tt.duration, tt.session)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
