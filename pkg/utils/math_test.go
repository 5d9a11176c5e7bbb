package utils

import "testing"

func TestRoundTo(t *testing.T) {
	tests := []struct {
		value    float64
		decimals int
		want     float64
	}{
		{10799.996, 2, 10800.0},
		{0.123456, 4, 0.1235},
		{100.5, 0, 101},
		{-2.5, 0, -3},
		{0, 2, 0},
	}

	for _, tt := range tests {
		if got := RoundTo(tt.value, tt.decimals); got != tt.want {
			t.Errorf("RoundTo(%v, %d) = %v, want %v", tt.value, tt.decimals, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := Clamp(tt.value, tt.min, tt.max); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.value, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestRelativeChange(t *testing.T) {
	tests := []struct {
		base, value, want float64
	}{
		{100, 101, 0.01},
		{100, 99, 0.01},
		{100, 100, 0},
		{0, 50, 1},
		{-5, 50, 1},
	}

	for _, tt := range tests {
		if got := RelativeChange(tt.base, tt.value); got != tt.want {
			t.Errorf("RelativeChange(%v, %v) = %v, want %v", tt.base, tt.value, got, tt.want)
		}
	}
}

func TestCeilHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  int
	}{
		{0, 0},
		{0.5, 1},
		{1, 1},
		{72.01, 73},
	}

	for _, tt := range tests {
		if got := CeilHours(tt.hours); got != tt.want {
			t.Errorf("CeilHours(%v) = %d, want %d", tt.hours, got, tt.want)
		}
	}
}
