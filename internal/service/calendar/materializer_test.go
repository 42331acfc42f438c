package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

var wib = time.FixedZone("WIB", 7*3600)

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func TestMaterializer_StartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "monday",
			now:  time.Date(2026, 10, 19, 8, 0, 0, 0, wib),
			want: time.Date(2026, 10, 19, 0, 0, 0, 0, wib),
		},
		{
			name: "wednesday",
			now:  time.Date(2026, 10, 21, 10, 0, 0, 0, wib),
			want: time.Date(2026, 10, 19, 0, 0, 0, 0, wib),
		},
		{
			name: "sunday night",
			now:  time.Date(2026, 10, 25, 23, 30, 0, 0, wib),
			want: time.Date(2026, 10, 19, 0, 0, 0, 0, wib),
		},
		{
			name: "utc evening is already monday in jakarta",
			now:  time.Date(2026, 10, 25, 18, 0, 0, 0, time.UTC),
			want: time.Date(2026, 10, 26, 0, 0, 0, 0, wib),
		},
		{
			name: "across a month boundary",
			now:  time.Date(2026, 11, 1, 9, 0, 0, 0, wib),
			want: time.Date(2026, 10, 26, 0, 0, 0, 0, wib),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMaterializer(wib, nil, fixedClock(tt.now))
			if got := m.StartOfWeek(); !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaterializer_Materialize(t *testing.T) {
	var schedule domain.WeekSchedule
	schedule[domain.Monday] = []domain.ScheduleEntry{
		{Time: "08:00-10:00", Activity: "Kalkulus", Type: "course", Location: "Gedung A", Kind: domain.KindCourse},
	}
	schedule[domain.Tuesday] = []domain.ScheduleEntry{
		{Time: "06:00-07:00", Activity: "Olahraga", Type: "activity", Kind: domain.KindActivity},
		{Time: "12:00-13:00", Activity: "Makan Siang", Type: "makan", Kind: domain.KindActivity},
	}
	schedule[domain.Sunday] = []domain.ScheduleEntry{
		{Time: "21:00-24:00", Activity: "Rekap Mingguan", Type: "activity", Kind: domain.KindActivity},
	}

	items := []domain.ScheduleItem{
		{Kind: domain.KindCourse, Scheduling: domain.SchedulingFixed, Name: "Kalkulus", Day: domain.Monday, Start: 480, End: 600, Location: "Ruang lain"},
		{Kind: domain.KindCourse, Scheduling: domain.SchedulingFixed, Name: "Fisika", Day: domain.Wednesday, Start: 780, End: 900},
		{Kind: domain.KindActivity, Scheduling: domain.SchedulingFlexible, Name: "Membaca", DurationMinutes: 60},
		{Kind: domain.KindActivity, Scheduling: domain.SchedulingFixed, Name: "Tidur Siang", Day: domain.Friday, Start: 780, End: 840, Category: "tidur"},
	}

	m := NewMaterializer(wib, nil, fixedClock(time.Date(2026, 10, 21, 10, 0, 0, 0, wib)))
	events := m.Materialize(context.Background(), &schedule, items)

	want := []struct {
		title    string
		start    time.Time
		end      time.Time
		location string
	}{
		{"Kalkulus", time.Date(2026, 10, 19, 8, 0, 0, 0, wib), time.Date(2026, 10, 19, 10, 0, 0, 0, wib), "Gedung A"},
		{"Olahraga", time.Date(2026, 10, 20, 6, 0, 0, 0, wib), time.Date(2026, 10, 20, 7, 0, 0, 0, wib), ""},
		{"Rekap Mingguan", time.Date(2026, 10, 25, 21, 0, 0, 0, wib), time.Date(2026, 10, 26, 0, 0, 0, 0, wib), ""},
		{"Fisika", time.Date(2026, 10, 21, 13, 0, 0, 0, wib), time.Date(2026, 10, 21, 15, 0, 0, 0, wib), ""},
	}

	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, w := range want {
		e := events[i]
		if e.Title != w.title {
			t.Errorf("event %d title: got %s, want %s", i, e.Title, w.title)
		}
		if !e.Start.Equal(w.start) || !e.End.Equal(w.end) {
			t.Errorf("%s: got %v-%v, want %v-%v", w.title, e.Start, e.End, w.start, w.end)
		}
		if !e.End.After(e.Start) {
			t.Errorf("%s: end must be after start", w.title)
		}
		if e.Resource.Location != w.location {
			t.Errorf("%s location: got %q, want %q", w.title, e.Resource.Location, w.location)
		}
	}

	wantID := domain.EventID(domain.DedupKey(domain.Monday, "Kalkulus", 480, 600))
	if events[0].ID != wantID {
		t.Errorf("id: got %s, want %s", events[0].ID, wantID)
	}
}

func TestMaterializer_DedupAcrossPaths(t *testing.T) {
	var schedule domain.WeekSchedule
	schedule[domain.Thursday] = []domain.ScheduleEntry{
		{Time: "10:00-12:00", Activity: "Basis Data", Type: "course", Kind: domain.KindCourse},
		{Time: "10:00-12:00", Activity: "Basis Data ", Type: "course", Kind: domain.KindCourse},
	}
	items := []domain.ScheduleItem{
		{Kind: domain.KindCourse, Scheduling: domain.SchedulingFixed, Name: "Basis Data", Day: domain.Thursday, Start: 600, End: 720},
	}

	m := NewMaterializer(wib, nil, fixedClock(time.Date(2026, 10, 21, 10, 0, 0, 0, wib)))

	first := m.Materialize(context.Background(), &schedule, items)
	if len(first) != 1 {
		t.Fatalf("got %d events, want 1", len(first))
	}

	second := m.Materialize(context.Background(), &schedule, items)
	if len(second) != 1 || second[0].ID != first[0].ID {
		t.Errorf("materialization should be stable, got %+v then %+v", first, second)
	}
}

func TestMaterializer_ItemsOnly(t *testing.T) {
	items := []domain.ScheduleItem{
		{Kind: domain.KindCourse, Scheduling: domain.SchedulingFixed, Name: "Statistika", Day: domain.Saturday, Start: 420, End: 540, Category: "praktikum"},
	}

	m := NewMaterializer(wib, nil, fixedClock(time.Date(2026, 10, 21, 10, 0, 0, 0, wib)))
	events := m.Materialize(context.Background(), nil, items)

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Resource.Type != "praktikum" {
		t.Errorf("type: got %s, want praktikum", events[0].Resource.Type)
	}
	if want := time.Date(2026, 10, 24, 7, 0, 0, 0, wib); !events[0].Start.Equal(want) {
		t.Errorf("start: got %v, want %v", events[0].Start, want)
	}
}

func TestMaterializer_IncludeOverridesDefaultExclusion(t *testing.T) {
	var schedule domain.WeekSchedule
	schedule[domain.Monday] = []domain.ScheduleEntry{
		{Time: "12:00-13:00", Activity: "Makan Siang", Type: "makan"},
		{Time: "22:00-24:00", Activity: "Tidur", Type: "tidur"},
	}

	policy := NewCategoryPolicy(DefaultExcludedCategories, []string{"makan"})
	m := NewMaterializer(wib, policy, fixedClock(time.Date(2026, 10, 21, 10, 0, 0, 0, wib)))
	events := m.Materialize(context.Background(), &schedule, nil)

	if len(events) != 1 || events[0].Title != "Makan Siang" {
		t.Errorf("got %+v, want only Makan Siang", events)
	}
}
