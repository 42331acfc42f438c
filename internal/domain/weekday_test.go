package domain

import (
	"errors"
	"testing"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input string
		want  Weekday
	}{
		{"Senin", Monday},
		{"selasa", Tuesday},
		{"RABU", Wednesday},
		{"Kamis", Thursday},
		{"Jumat", Friday},
		{"Jum'at", Friday},
		{" Sabtu ", Saturday},
		{"Minggu", Sunday},
		{"monday", Monday},
		{"Sunday", Sunday},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseWeekdayUnknown(t *testing.T) {
	_, err := ParseWeekday("Funday")
	if !errors.Is(err, ErrUnknownWeekday) {
		t.Errorf("got %v, want ErrUnknownWeekday", err)
	}
}

func TestWeekdayIndexIsMondayBased(t *testing.T) {
	days := AllWeekdays()
	if len(days) != DaysPerWeek {
		t.Fatalf("got %d days, want %d", len(days), DaysPerWeek)
	}
	if days[0].String() != "Senin" || int(days[0]) != 0 {
		t.Errorf("first day: got %s(%d), want Senin(0)", days[0], int(days[0]))
	}
	if days[6].String() != "Minggu" || int(days[6]) != 6 {
		t.Errorf("last day: got %s(%d), want Minggu(6)", days[6], int(days[6]))
	}
}
