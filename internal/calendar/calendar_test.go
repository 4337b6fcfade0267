package calendar

import (
	"testing"
	"time"
)

func TestIsWeekend_FullWeek(t *testing.T) {
	// 2024-01-01 is a Monday.
	tests := []struct {
		date    string
		weekend bool
	}{
		{"2024-01-01", false},
		{"2024-01-02", false},
		{"2024-01-03", false},
		{"2024-01-04", false},
		{"2024-01-05", false},
		{"2024-01-06", true},
		{"2024-01-07", true},
		{"2024-01-08", false},
	}
	for _, tt := range tests {
		d, err := ParseISODate(tt.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tt.date, err)
		}
		if got := IsWeekend(d); got != tt.weekend {
			t.Errorf("IsWeekend(%s) = %v, want %v", tt.date, got, tt.weekend)
		}
	}
}

func TestIsWeekend_UsesUTC(t *testing.T) {
	// Friday 22:00 in UTC-5 is Saturday 03:00 UTC.
	est := time.FixedZone("EST", -5*3600)
	fri := time.Date(2024, 1, 5, 22, 0, 0, 0, est)
	if !IsWeekend(fri) {
		t.Errorf("expected %v to be a UTC weekend day", fri)
	}
	monEarly := time.Date(2024, 1, 7, 20, 0, 0, 0, est) // Monday 01:00 UTC
	if IsWeekend(monEarly) {
		t.Errorf("expected %v to be a UTC weekday", monEarly)
	}
}

func TestFormatISODate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	d := time.Date(2024, 3, 1, 2, 0, 0, 0, tokyo) // 2024-02-29 17:00 UTC
	if got := FormatISODate(d); got != "2024-02-29" {
		t.Errorf("FormatISODate = %q, want 2024-02-29", got)
	}
	if got := FormatISODate(time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC)); got != "2023-07-04" {
		t.Errorf("FormatISODate = %q, want 2023-07-04", got)
	}
}

func TestParseISODate_Invalid(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "01/02/2024", "2024-1-2"} {
		if _, err := ParseISODate(s); err == nil {
			t.Errorf("ParseISODate(%q) should fail", s)
		}
	}
}

func TestOffsetDate(t *testing.T) {
	base := time.Date(2024, 3, 12, 18, 45, 0, 0, time.UTC)
	tests := []struct {
		n    int
		want string
	}{
		{0, "2024-03-12"},
		{7, "2024-03-05"},
		{12, "2024-02-29"},
		{100, "2023-12-03"},
	}
	for _, tt := range tests {
		got := OffsetDate(base, tt.n)
		if FormatISODate(got) != tt.want {
			t.Errorf("OffsetDate(-%d) = %s, want %s", tt.n, FormatISODate(got), tt.want)
		}
		if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
			t.Errorf("OffsetDate(-%d) = %v, want UTC midnight", tt.n, got)
		}
	}
}

func TestMidnight(t *testing.T) {
	got := Midnight(time.Date(2024, 5, 6, 23, 59, 59, 999, time.UTC))
	want := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Midnight = %v, want %v", got, want)
	}
}
