package tui

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/timeutil"
)

type tab int

const (
	tabEntries tab = iota
	tabGoals
	tabJourneys
)

var tabNames = []string{"Entries", "Goals", "Journeys"}

func (t tab) String() string { return tabNames[t] }

func (t tab) next() tab { return (t + 1) % tab(len(tabNames)) }

func (t tab) prev() tab { return (t + tab(len(tabNames)) - 1) % tab(len(tabNames)) }

type entryItem struct{ e *journal.Entry }

func (it entryItem) Title() string {
	title := it.e.Mood.Emoji() + " " + printers.Headline(it.e)
	if it.e.Favorite {
		title += " ★"
	}
	return title
}

func (it entryItem) Description() string {
	parts := []string{it.e.Day().String()}
	if it.e.Location != "" {
		parts = append(parts, it.e.Location)
	}
	if len(it.e.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(it.e.Tags, " #"))
	}
	return strings.Join(parts, " · ")
}

func (it entryItem) FilterValue() string { return printers.Headline(it.e) }

type goalItem struct {
	g     *journal.Goal
	today timeutil.Day
}

func (it goalItem) Title() string {
	mark := "  "
	if it.g.CheckedIn(it.today) {
		mark = "✓ "
	}
	title := mark + it.g.Title
	if s := it.g.Status(); s != journal.GoalInProgress {
		title += " (" + string(s) + ")"
	}
	return title
}

func (it goalItem) Description() string {
	return fmt.Sprintf("%s  streak %d, best %d",
		printers.ProgressBar(it.g.Progress(), 10), it.g.CurrentStreak, it.g.LongestStreak)
}

func (it goalItem) FilterValue() string { return it.g.Title }

type journeyItem struct {
	j   *journal.Journey
	now time.Time
}

func (it journeyItem) Title() string {
	if it.j.IsActive {
		return "● " + it.j.Theme
	}
	return it.j.Theme
}

func (it journeyItem) Description() string {
	return fmt.Sprintf("%s · %s · %d points, %d snapshots",
		it.j.StartTime.Local().Format("2006-01-02 15:04"),
		timeutil.FormatElapsed(it.j.Duration(it.now)),
		len(it.j.Route), len(it.j.Snapshots))
}

func (it journeyItem) FilterValue() string { return it.j.Theme }
