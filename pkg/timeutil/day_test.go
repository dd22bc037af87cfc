package timeutil

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b Day
		want int
	}{
		{"2025-03-01", "2025-03-02", 1},
		{"2025-03-01", "2025-03-01", 0},
		{"2025-02-28", "2025-03-01", 1},
		{"2024-02-28", "2024-03-01", 2},
		{"2025-03-09", "2025-03-10", 1}, // US DST change
		{"2025-03-05", "2025-03-01", -4},
	}
	for _, tt := range tests {
		if got := DaysBetween(tt.a, tt.b); got != tt.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDayOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("east", 10*3600)
	utc := time.Date(2025, time.March, 1, 20, 0, 0, 0, time.UTC)
	if got := DayOf(utc.In(loc)); got != "2025-03-02" {
		t.Fatalf("expected local day 2025-03-02, got %s", got)
	}
	if got := DayOf(utc); got != "2025-03-01" {
		t.Fatalf("expected utc day 2025-03-01, got %s", got)
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2025-03-01T10:11:12Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != "2025-03-01" {
		t.Fatalf("got %s", d)
	}
	if _, err := ParseDay("yesterday"); err == nil {
		t.Fatal("expected error for invalid day")
	}
	if next := Day("2025-12-31").AddDays(1); next != "2026-01-01" {
		t.Fatalf("AddDays wrapped to %s", next)
	}
}

func TestDayUnmarshalTimestamp(t *testing.T) {
	var days []Day
	if err := json.Unmarshal([]byte(`["2025-01-02","2025-01-03T08:00:00Z"]`), &days); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if days[0] != "2025-01-02" || days[1] != "2025-01-03" {
		t.Fatalf("unexpected days %v", days)
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := FormatElapsed(65 * time.Minute); got != "1h 5m" {
		t.Fatalf("got %q", got)
	}
	if got := FormatElapsed(59*time.Minute + 59*time.Second); got != "59m" {
		t.Fatalf("got %q", got)
	}
	if got := FormatElapsed(-time.Minute); got != "0m" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(3723 * time.Second); got != "1:02:03" {
		t.Fatalf("got %q", got)
	}
	if got := FormatClock(125 * time.Second); got != "02:05" {
		t.Fatalf("got %q", got)
	}
}

func TestDaysIn(t *testing.T) {
	if got := DaysIn(time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)); got != 29 {
		t.Fatalf("expected 29, got %d", got)
	}
}
