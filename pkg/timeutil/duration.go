package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultWindow is the report window used when none is given.
const DefaultWindow = "1w"

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	windowUnits   = map[string]time.Duration{
		"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
		"d": day, "day": day, "days": day,
		"w": week, "wk": week, "wks": week, "week": week, "weeks": week,
		"mo": month, "mon": month, "month": month, "months": month,
		"y": year, "yr": year, "yrs": year, "year": year, "years": year,
	}
)

// ParseWindow parses a look-back window such as "3d", "2w" or "1mo2w" and
// returns it with its canonical spelling. Months count as 30 days and
// years as 365.
func ParseWindow(input string) (time.Duration, string, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		remaining = DefaultWindow
	}

	var total time.Duration
	for len(remaining) > 0 {
		m := windowPattern.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return 0, "", fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		n, err := strconv.ParseInt(m[1], 10, 32)
		if err != nil {
			return 0, "", fmt.Errorf("invalid window value %q: %w", m[1], err)
		}
		unit, ok := windowUnits[m[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported window unit %q", m[2])
		}
		total += time.Duration(n) * unit
		remaining = remaining[len(m[0]):]
	}
	if total <= 0 {
		return 0, "", fmt.Errorf("window must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow spells d with y/mo/w/d/h tokens, largest first.
func FormatWindow(d time.Duration) string {
	if d < time.Hour {
		return "0h"
	}
	units := []struct {
		label string
		size  time.Duration
	}{
		{"y", year}, {"mo", month}, {"w", week}, {"d", day}, {"h", time.Hour},
	}
	var b strings.Builder
	for _, u := range units {
		if n := d / u.size; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, u.label)
			d -= n * u.size
		}
	}
	return b.String()
}

// WindowStart returns the first local day covered by a window ending at
// until. A one day window covers only until's day.
func WindowStart(until time.Time, window time.Duration) time.Time {
	days := int(window / day)
	if days < 1 {
		days = 1
	}
	y, m, dd := until.Date()
	return time.Date(y, m, dd-days+1, 0, 0, 0, 0, until.Location())
}
