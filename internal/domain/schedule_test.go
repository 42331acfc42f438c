package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestWeekScheduleMarshalKeepsWeekOrder(t *testing.T) {
	var w WeekSchedule
	w[Monday] = []ScheduleEntry{{Time: "08:00-10:00", Activity: "Kalkulus", Type: "course", Kind: KindCourse}}

	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := string(data)
	order := []string{"Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"}
	last := -1
	for _, day := range order {
		idx := strings.Index(s, `"`+day+`"`)
		if idx < 0 {
			t.Fatalf("missing day %s in %s", day, s)
		}
		if idx < last {
			t.Errorf("day %s out of order in %s", day, s)
		}
		last = idx
	}
	if !strings.Contains(s, `"Selasa":[]`) {
		t.Errorf("empty day should encode as empty array: %s", s)
	}
}

func TestWeekScheduleUnmarshal(t *testing.T) {
	data := []byte(`{"Rabu":[{"time":"09:00-10:00","activity":"Membaca","type":"activity"}],"monday":[]}`)

	var w WeekSchedule
	if err := json.Unmarshal(data, &w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w[Wednesday]) != 1 || w[Wednesday][0].Activity != "Membaca" {
		t.Errorf("got %+v, want one Membaca entry on Rabu", w[Wednesday])
	}
	if w.EntryCount() != 1 {
		t.Errorf("got %d entries, want 1", w.EntryCount())
	}
}

func TestWeekScheduleUnmarshalUnknownDay(t *testing.T) {
	var w WeekSchedule
	if err := json.Unmarshal([]byte(`{"Someday":[]}`), &w); err == nil {
		t.Error("expected error for unknown day")
	}
}

func TestWeekScheduleUnmarshalAliasesKeepDocumentOrder(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{
			name: "indonesian first",
			data: `{"Senin":[{"time":"08:00-10:00","activity":"Kalkulus","location":"Gedung A"}],"monday":[{"time":"08:00-10:00","activity":"Kalkulus","location":"Gedung B"}]}`,
			want: []string{"Gedung A", "Gedung B"},
		},
		{
			name: "english first",
			data: `{"monday":[{"time":"08:00-10:00","activity":"Kalkulus","location":"Gedung B"}],"Senin":[{"time":"08:00-10:00","activity":"Kalkulus","location":"Gedung A"}]}`,
			want: []string{"Gedung B", "Gedung A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 20 {
				var w WeekSchedule
				if err := json.Unmarshal([]byte(tt.data), &w); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				got := w[Monday]
				if len(got) != len(tt.want) {
					t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
				}
				for i, loc := range tt.want {
					if got[i].Location != loc {
						t.Fatalf("entry %d: got %s, want %s", i, got[i].Location, loc)
					}
				}
			}
		})
	}
}

func TestWeekScheduleUnmarshalRejectsNonObject(t *testing.T) {
	var w WeekSchedule
	if err := json.Unmarshal([]byte(`[]`), &w); err == nil {
		t.Error("expected error for array payload")
	}
}

func TestDedupKeyAndEventID(t *testing.T) {
	key := DedupKey(Monday, " Kalkulus ", 480, 600)
	if key != "Senin|Kalkulus|08:00|10:00" {
		t.Fatalf("got %q", key)
	}

	if EventID(key) != EventID(DedupKey(Monday, "Kalkulus", 480, 600)) {
		t.Error("event id should be stable for the same key")
	}
	if EventID(key) == EventID(DedupKey(Tuesday, "Kalkulus", 480, 600)) {
		t.Error("event id should differ across weekdays")
	}
}

func TestValidationErrorAggregates(t *testing.T) {
	verr := &ValidationError{}
	if verr.Err() != nil {
		t.Fatal("empty validation error should be nil")
	}

	verr.Add("courses[0].startTime", "invalid time")
	verr.Addf("activities[1].duration", "must be positive, got %d", 0)

	err := verr.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "courses[0].startTime") || !strings.Contains(msg, "activities[1].duration") {
		t.Errorf("message should list every field: %s", msg)
	}
}

func TestChunkIndex(t *testing.T) {
	tests := []struct {
		name      string
		wantN     int
		wantTotal int
		wantOK    bool
	}{
		{name: ChunkName("Skripsi", 1, 3), wantN: 1, wantTotal: 3, wantOK: true},
		{name: ChunkName("Tugas (Kelompok)", 2, 2), wantN: 2, wantTotal: 2, wantOK: true},
		{name: "Skripsi"},
		{name: "Skripsi (Sesi x/2)"},
		{name: "Skripsi (Sesi 3/2)"},
	}

	for _, tt := range tests {
		n, total, ok := ChunkIndex(tt.name)
		if n != tt.wantN || total != tt.wantTotal || ok != tt.wantOK {
			t.Errorf("ChunkIndex(%q): got %d/%d %v, want %d/%d %v", tt.name, n, total, ok, tt.wantN, tt.wantTotal, tt.wantOK)
		}
	}
}
