// Package calendar prints the mood calendar of a month.
package calendar

import (
	"context"
	"errors"
	"io"
	"time"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/timeutil"
)

type Calendar struct {
	App *app.Service
	// Month is any time within the month to show; zero means this month.
	Month time.Time
	// Day, when set, also lists the entries written that day.
	Day timeutil.Day

	ShowID bool
	JSON   bool
	Out    io.Writer
	Now    func() time.Time
}

func (n *Calendar) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// Moods returns the mood of every day of the month that has an entry.
func (n *Calendar) Moods(ctx context.Context) (map[timeutil.Day]journal.Mood, error) {
	month := timeutil.StartOfMonth(n.month())
	moods := make(map[timeutil.Day]journal.Mood)
	for i := 0; i < timeutil.DaysIn(month); i++ {
		day := timeutil.DayOf(month.AddDate(0, 0, i))
		m, ok, err := n.App.MoodFor(ctx, day)
		if err != nil {
			return nil, err
		}
		if ok {
			moods[day] = m
		}
	}
	return moods, nil
}

func (n *Calendar) month() time.Time {
	if !n.Month.IsZero() {
		return n.Month
	}
	if n.Day != "" {
		return n.Day.Time()
	}
	return n.now()
}

func (n *Calendar) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not run, no journal service")
	}
	moods, err := n.Moods(ctx)
	if err != nil {
		return err
	}
	var entries []*journal.Entry
	if n.Day != "" {
		if entries, err = n.App.EntriesOn(ctx, n.Day); err != nil {
			return err
		}
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out, Now: n.Now}
	if n.JSON {
		out := struct {
			Month   string                        `json:"month"`
			Moods   map[timeutil.Day]journal.Mood `json:"moods"`
			Entries []*journal.Entry              `json:"entries,omitempty"`
		}{n.month().Format("2006-01"), moods, entries}
		return pp.JSON(out)
	}

	pp.MoodCalendar(n.month(), moods)
	if n.Day != "" {
		pp.NewLine()
		pp.TitleWithCount(n.Day.Time().Format("Monday, January 2"), len(entries), "entry", "entries")
		pp.Entries(entries...)
	}
	return nil
}
