package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/timeutil"
)

// ReportSection groups the entries written on one day.
type ReportSection struct {
	Day     timeutil.Day
	Entries []*journal.Entry
}

// ReportCheckIn is a goal check-in that fell inside the window.
type ReportCheckIn struct {
	Goal *journal.Goal
	Day  timeutil.Day
}

// ReportResult summarises journal activity for a time window.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	CheckIns []ReportCheckIn
	Journeys []*journal.Journey
	Moods    map[journal.Mood]int
	Total    int
}

// Report returns the entries, check-ins and journeys between the provided
// bounds, newest day first.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if since.After(until) {
		since, until = until, since
	}
	res := ReportResult{Since: since, Until: until, Moods: make(map[journal.Mood]int)}
	from, to := timeutil.DayOf(since.Local()), timeutil.DayOf(until.Local())
	inWindow := func(d timeutil.Day) bool { return d >= from && d <= to }

	err := s.read(ctx, func(st *journal.State) {
		grouped := make(map[timeutil.Day][]*journal.Entry)
		for _, e := range st.Entries {
			d := e.Day()
			if !inWindow(d) {
				continue
			}
			grouped[d] = append(grouped[d], e.Clone())
			res.Moods[e.Mood]++
			res.Total++
		}
		days := make([]timeutil.Day, 0, len(grouped))
		for d := range grouped {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })
		for _, d := range days {
			res.Sections = append(res.Sections, ReportSection{Day: d, Entries: grouped[d]})
		}

		for _, g := range st.Goals {
			for _, d := range g.CheckInHistory {
				if inWindow(d) {
					res.CheckIns = append(res.CheckIns, ReportCheckIn{Goal: g.Clone(), Day: d})
				}
			}
		}
		sort.SliceStable(res.CheckIns, func(i, j int) bool { return res.CheckIns[i].Day > res.CheckIns[j].Day })

		for _, j := range st.Journeys {
			if !j.StartTime.Before(since) && !j.StartTime.After(until) {
				res.Journeys = append(res.Journeys, j.Clone())
			}
		}
	})
	return res, err
}
