package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/timeutil"
)

// Report prints the activity of a time window: entries by day, goal
// check-ins and journeys.
func (pp *PrettyPrint) Report(result app.ReportResult, label string) {
	since := result.Since.Local().Format("2006-01-02 15:04")
	until := result.Until.Local().Format("2006-01-02 15:04")
	_, _ = color.New(color.Bold).Fprintf(pp.out(), "Report · last %s (%s → %s)\n", label, since, until)

	if result.Total == 0 && len(result.CheckIns) == 0 && len(result.Journeys) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(pp.out(), "  Nothing was journaled in this window.")
		pp.NewLine()
		return
	}

	if result.Total > 0 {
		parts := make([]string, 0, len(journal.Moods()))
		for _, m := range journal.Moods() {
			if n := result.Moods[m]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s %d", m.Emoji(), n))
			}
		}
		_, _ = color.New(color.Faint).Fprintf(pp.out(), "  %d entries  %s\n", result.Total, strings.Join(parts, "  "))
	}

	for _, section := range result.Sections {
		_, _ = fmt.Fprintln(pp.out(), "")
		pp.Title(section.Day.Time().Format("Monday, January 2"))
		pp.Entries(section.Entries...)
	}

	if len(result.CheckIns) > 0 {
		pp.TitleWithCount("Check-ins", len(result.CheckIns), "check-in", "check-ins")
		g := color.New(color.FgGreen)
		f := color.New(color.Faint)
		for _, c := range result.CheckIns {
			_, _ = fmt.Fprintf(pp.out(), "  %s %s %s\n", g.Sprint("✓"), f.Sprint(c.Day), c.Goal.Title)
		}
		pp.NewLine()
	}

	if len(result.Journeys) > 0 {
		pp.TitleWithCount("Journeys", len(result.Journeys), "journey", "journeys")
		for _, j := range result.Journeys {
			_, _ = fmt.Fprintf(pp.out(), "  %s  %s  %s\n",
				j.StartTime.Local().Format("2006-01-02 15:04"),
				j.Theme,
				color.New(color.Faint).Sprint(timeutil.FormatElapsed(j.Duration(result.Until))))
		}
		pp.NewLine()
	}
}
