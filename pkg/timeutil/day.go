package timeutil

import (
	"encoding/json"
	"fmt"
	"time"
)

const layoutDay = "2006-01-02"

// Day is a calendar day without a time component, formatted YYYY-MM-DD.
type Day string

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	return Day(t.Format(layoutDay))
}

// ParseDay validates and normalises a YYYY-MM-DD string. Full RFC3339
// timestamps are accepted and truncated to their day.
func ParseDay(s string) (Day, error) {
	if t, err := time.Parse(layoutDay, s); err == nil {
		return DayOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", fmt.Errorf("invalid day %q", s)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of d. The zero time is returned for malformed days.
func (d Day) Time() time.Time {
	t, err := time.Parse(layoutDay, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Valid reports whether d parses as a calendar day.
func (d Day) Valid() bool {
	_, err := time.Parse(layoutDay, string(d))
	return err == nil
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) String() string {
	return string(d)
}

// UnmarshalJSON accepts both plain days and full timestamps so records
// written with ISO timestamps still load.
func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = ""
		return nil
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns the number of calendar days from a to b. Both days
// are interpreted at midnight UTC so DST transitions never skew the result.
func DaysBetween(a, b Day) int {
	return int(b.Time().Sub(a.Time()).Hours() / 24)
}

// FormatElapsed renders d as "1h 5m" or "5m" when under an hour.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatClock renders d as a running timer, "1:02:03" or "02:03".
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// StartOfMonth returns the first day of t's month in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DaysIn returns the number of days in t's month.
func DaysIn(t time.Time) int {
	return StartOfMonth(t).AddDate(0, 1, -1).Day()
}
