package journal

import (
	"encoding/json"
	"fmt"
	"time"
)

// ParseTime parses an RFC3339 timestamp, with or without fractional seconds.
func ParseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Timestamp is a time.Time that persists as an RFC3339 string and knows
// about local calendar grouping.
type Timestamp struct {
	time.Time
}

// At wraps t.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) SameDay(then time.Time) bool {
	a, b := t.Local(), then.Local()
	return a.Day() == b.Day() && a.Month() == b.Month() && a.Year() == b.Year()
}

func (t Timestamp) SameMonth(then time.Time) bool {
	a, b := t.Local(), then.Local()
	return a.Month() == b.Month() && a.Year() == b.Year()
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(fmt.Sprintf("%q", FormatTime(t.Time))), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var timestamp string
	if err := json.Unmarshal(b, &timestamp); err != nil {
		// Older records stored epoch milliseconds.
		var millis int64
		if err2 := json.Unmarshal(b, &millis); err2 != nil {
			return err
		}
		t.Time = time.UnixMilli(millis).UTC()
		return nil
	}
	if timestamp == "" {
		t.Time = time.Time{}
		return nil
	}
	var err error
	t.Time, err = ParseTime(timestamp)
	return err
}

func (t Timestamp) String() string {
	return t.UTC().Format(time.RFC3339)
}

// FormatTime renders v losslessly in UTC.
func FormatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339Nano)
}
