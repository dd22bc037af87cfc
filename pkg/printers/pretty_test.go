package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/timeutil"
)

func newTestPrinter() (*PrettyPrint, *bytes.Buffer) {
	color.NoColor = true
	var buf bytes.Buffer
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	return &PrettyPrint{Out: &buf, Now: func() time.Time { return now }}, &buf
}

func TestEntries(t *testing.T) {
	pp, buf := newTestPrinter()
	pp.ShowID = true
	pp.Entries(
		&journal.Entry{ID: "0123456789abcdef", Date: "2025-03-10", Mood: journal.MoodHappy, Content: "first line\nsecond line", Tags: []string{"walk", "sea"}, Favorite: true},
		&journal.Entry{ID: "fedcba", Date: "2025-03-09", Mood: journal.MoodSad, Title: "Rain"},
	)
	out := buf.String()
	for _, want := range []string{"01234567 ", "2025-03-10", "★", "first line", "#walk #sea", "Rain", "fedcba"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "second line") {
		t.Errorf("expected only the first content line, got:\n%s", out)
	}
}

func TestEntriesEmpty(t *testing.T) {
	pp, buf := newTestPrinter()
	pp.Entries()
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected none marker, got %q", buf.String())
	}
}

func TestHeadline(t *testing.T) {
	tests := map[string]struct {
		entry journal.Entry
		want  string
	}{
		"title wins":   {entry: journal.Entry{Title: " Trip ", Content: "body"}, want: "Trip"},
		"first line":   {entry: journal.Entry{Content: "\n  hello\nworld"}, want: "hello"},
		"empty entry":  {entry: journal.Entry{}, want: "(empty)"},
		"blank spaces": {entry: journal.Entry{Title: "  ", Content: "  "}, want: "(empty)"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Headline(&tc.entry); got != tc.want {
				t.Errorf("Headline() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, "[..........]   0%"},
		{40, "[####......]  40%"},
		{100, "[##########] 100%"},
		{150, "[##########] 150%"},
	}
	for _, tc := range tests {
		if got := ProgressBar(tc.percent, 10); got != tc.want {
			t.Errorf("ProgressBar(%v) = %q, want %q", tc.percent, got, tc.want)
		}
	}
}

func TestGoalsMarksTodaysCheckIn(t *testing.T) {
	pp, buf := newTestPrinter()
	today := timeutil.Day("2025-03-12")
	pp.Goals(app.GoalGroups{
		Active: []*journal.Goal{{ID: "g1", Title: "Read", TargetDays: 4, CompletedDays: 2, CurrentStreak: 2, LongestStreak: 3, LastCheckIn: &today, IsActive: true}},
	})
	out := buf.String()
	for _, want := range []string{"In progress - 1 goal", "✓", "Read", "2/4", "streak 2, best 3", "Paused - 0 goals"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMoodCalendar(t *testing.T) {
	pp, buf := newTestPrinter()
	pp.MoodCalendar(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), map[timeutil.Day]journal.Mood{
		"2025-03-01": journal.MoodAmazing,
	})
	out := buf.String()
	if !strings.Contains(out, "March 2025") || !strings.Contains(out, "31") {
		t.Fatalf("unexpected calendar:\n%s", out)
	}
	// March 2025 starts on a Saturday.
	lines := strings.Split(out, "\n")
	if len(lines) < 3 || !strings.HasSuffix(strings.TrimRight(lines[2], " "), " 1") {
		t.Fatalf("expected the 1st in the Saturday column, got %q", lines[2])
	}
	if !strings.Contains(out, "amazing") {
		t.Fatalf("expected legend, got:\n%s", out)
	}
}

func TestMoodColorsStayLegible(t *testing.T) {
	for _, m := range journal.Moods() {
		bg, fg := MoodColors(m)
		if bg != m.Color() {
			t.Errorf("%s: background %s, want %s", m, bg, m.Color())
		}
		if fg == bg || !strings.HasPrefix(fg, "#") {
			t.Errorf("%s: unusable foreground %q", m, fg)
		}
	}
}

func TestReportEmptyWindow(t *testing.T) {
	pp, buf := newTestPrinter()
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	pp.Report(app.ReportResult{Since: now.Add(-time.Hour), Until: now}, "1h")
	if !strings.Contains(buf.String(), "Nothing was journaled") {
		t.Fatalf("unexpected report:\n%s", buf.String())
	}
}

func TestReport(t *testing.T) {
	pp, buf := newTestPrinter()
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	goal := &journal.Goal{Title: "Stretch"}
	pp.Report(app.ReportResult{
		Since:    now.Add(-7 * 24 * time.Hour),
		Until:    now,
		Total:    1,
		Moods:    map[journal.Mood]int{journal.MoodHappy: 1},
		Sections: []app.ReportSection{{Day: "2025-03-11", Entries: []*journal.Entry{{Date: "2025-03-11", Mood: journal.MoodHappy, Content: "beach"}}}},
		CheckIns: []app.ReportCheckIn{{Goal: goal, Day: "2025-03-10"}},
		Journeys: []*journal.Journey{{Theme: "Harbour", StartTime: journal.At(now.Add(-2 * time.Hour)), EndTime: func() *journal.Timestamp { e := journal.At(now.Add(-time.Hour)); return &e }()}},
	}, "1w")
	out := buf.String()
	for _, want := range []string{"last 1w", "1 entries", "Tuesday, March 11", "beach", "Check-ins - 1 check-in", "Stretch", "Harbour", "1h 0m"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
