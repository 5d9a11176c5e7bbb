package utils

import (
	"testing"
	"time"
)

func TestNextDailyBoundary(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		resetHour int
		want      time.Time
	}{
		{
			name:      "before today's boundary",
			now:       time.Date(2026, 3, 10, 5, 30, 0, 0, time.UTC),
			resetHour: 12,
			want:      time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		},
		{
			name:      "after today's boundary",
			now:       time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
			resetHour: 12,
			want:      time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC),
		},
		{
			name:      "exactly at boundary rolls to tomorrow",
			now:       time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
			resetHour: 12,
			want:      time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC),
		},
		{
			name:      "midnight reset",
			now:       time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC),
			resetHour: 0,
			want:      time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDailyBoundary(tt.now, tt.resetHour); !got.Equal(tt.want) {
				t.Errorf("NextDailyBoundary() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSameTradingDay(t *testing.T) {
	a := time.Date(2026, 3, 10, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	if !SameTradingDay(a, b) {
		t.Error("same UTC day expected")
	}
	if SameTradingDay(b, c) {
		t.Error("different UTC days expected")
	}
}

func TestDayStartFrom(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*3600)
	// 01:30 MSK = 22:30 UTC предыдущего дня
	local := time.Date(2026, 3, 11, 1, 30, 0, 0, moscow)

	got := DayStartFrom(local)
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DayStartFrom() = %v, want %v", got, want)
	}
}
