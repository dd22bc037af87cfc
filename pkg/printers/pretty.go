package printers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/timeutil"
)

type PrettyPrint struct {
	ShowID bool
	// Width wraps long text; zero means 80 columns.
	Width int
	// Out defaults to color.Output.
	Out io.Writer
	// Now is used for relative output such as "checked in today".
	Now func() time.Time
}

const shortIDLen = 8

var (
	spacing = strings.Repeat(" ", shortIDLen+2)
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return 80
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now != nil {
		return pp.Now()
	}
	return time.Now()
}

// ShortID is the id prefix shown in listings; commands accept it back.
func ShortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

// TitleWithCount prints title followed by a faint "- n things".
func (pp *PrettyPrint) TitleWithCount(title string, count int, one, many string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintf(pp.out(), " %s\n", one)
	default:
		_, _ = c.Fprintf(pp.out(), " %s\n", many)
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Fprint(pp.out(), spacing)
	}
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

func (pp *PrettyPrint) id(id string) {
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	short := ShortID(id)
	_, _ = y.Fprint(pp.out(), short)
	_, _ = y.Fprint(pp.out(), strings.Repeat(" ", len(spacing)-len(short)))
}

// Entries prints one line per entry: mood, day, headline and tags.
func (pp *PrettyPrint) Entries(entries ...*journal.Entry) {
	if len(entries) == 0 {
		pp.none()
		return
	}

	t := color.New()
	d := color.New(color.Faint)
	fav := color.New(color.FgHiYellow)
	tag := color.New(color.FgCyan, color.Faint)

	room := pp.width() - 20
	if pp.ShowID {
		room -= len(spacing)
	}
	if room < 20 {
		room = 20
	}

	for _, e := range entries {
		if pp.ShowID {
			pp.id(e.ID)
		}
		_, _ = t.Fprintf(pp.out(), "%s ", e.Mood.Emoji())
		_, _ = d.Fprintf(pp.out(), "%s ", e.Day())
		if e.Favorite {
			_, _ = fav.Fprint(pp.out(), "★ ")
		} else {
			_, _ = t.Fprint(pp.out(), "  ")
		}
		_, _ = t.Fprint(pp.out(), truncate.StringWithTail(Headline(e), uint(room), "…"))
		if len(e.Tags) > 0 {
			_, _ = tag.Fprintf(pp.out(), "  #%s", strings.Join(e.Tags, " #"))
		}
		_, _ = t.Fprintln(pp.out(), "")
	}
	_, _ = t.Fprintln(pp.out(), "")
}

// Headline is the title of e, or the first line of its content.
func Headline(e *journal.Entry) string {
	if title := strings.TrimSpace(e.Title); title != "" {
		return title
	}
	content := strings.TrimSpace(e.Content)
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[:i]
	}
	if content == "" {
		return "(empty)"
	}
	return content
}

// Entry prints the full entry. Content is rendered as markdown when the
// output is a terminal.
func (pp *PrettyPrint) Entry(e *journal.Entry) {
	b := color.New(color.Bold)
	f := color.New(color.Faint)

	pp.Title(Headline(e))
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(f.Sprint("id"), e.ID)
	tbl.AddRow(f.Sprint("date"), e.Day().String())
	tbl.AddRow(f.Sprint("mood"), fmt.Sprintf("%s %s", e.Mood.Emoji(), e.Mood))
	if e.Location != "" {
		tbl.AddRow(f.Sprint("location"), e.Location)
	}
	if e.Coordinates != nil {
		tbl.AddRow(f.Sprint("coordinates"), e.Coordinates.String())
	}
	if e.Weather != "" {
		tbl.AddRow(f.Sprint("weather"), e.Weather)
	}
	if len(e.Tags) > 0 {
		tbl.AddRow(f.Sprint("tags"), "#"+strings.Join(e.Tags, " #"))
	}
	if e.Favorite {
		tbl.AddRow(f.Sprint("favorite"), b.Sprint("★"))
	}
	if e.UpdatedAt != nil {
		tbl.AddRow(f.Sprint("updated"), e.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out(), "")
	_, _ = fmt.Fprintln(pp.out(), pp.RenderMarkdown(e.Content))
}

// RenderMarkdown renders md with glamour on terminals and word wraps it
// everywhere else.
func (pp *PrettyPrint) RenderMarkdown(md string) string {
	md = strings.TrimSpace(md)
	if pp.Out == nil && isTerminal() && !color.NoColor {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(pp.width()),
		)
		if err == nil {
			if out, err := r.Render(md); err == nil {
				return strings.TrimRight(out, "\n")
			}
		}
	}
	return wordwrap.String(md, pp.width())
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Tags prints the tag cloud.
func (pp *PrettyPrint) Tags(tags []string) {
	if len(tags) == 0 {
		pp.none()
		return
	}
	c := color.New(color.FgCyan)
	line := make([]string, 0, len(tags))
	for _, t := range tags {
		line = append(line, c.Sprint("#"+t))
	}
	_, _ = fmt.Fprintln(pp.out(), wordwrap.String(strings.Join(line, "  "), pp.width()))
	pp.NewLine()
}

// Stats prints the profile counters.
func (pp *PrettyPrint) Stats(s app.EntryStats) {
	f := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(f.Sprint("entries"), s.Total)
	tbl.AddRow(f.Sprint("favorites"), s.Favorites)
	tbl.AddRow(f.Sprint("this month"), s.ThisMonth)
	for _, m := range journal.Moods() {
		if n := s.ByMood[m]; n > 0 {
			tbl.AddRow(f.Sprint(m.Emoji()+" "+string(m)), n)
		}
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Goals prints goals grouped by status.
func (pp *PrettyPrint) Goals(groups app.GoalGroups) {
	pp.goalSection("In progress", groups.Active)
	pp.goalSection("Paused", groups.Paused)
	pp.goalSection("Completed", groups.Completed)
}

func (pp *PrettyPrint) goalSection(title string, goals []*journal.Goal) {
	pp.TitleWithCount(title, len(goals), "goal", "goals")
	if len(goals) == 0 {
		pp.none()
		return
	}
	f := color.New(color.Faint)
	g := color.New(color.FgGreen)
	today := timeutil.DayOf(pp.now())

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = uint(pp.width() / 2)
	for _, goal := range goals {
		var row []interface{}
		if pp.ShowID {
			row = append(row, color.New(color.FgHiYellow, color.Faint).Sprint(ShortID(goal.ID)))
		}
		done := " "
		if goal.CheckedIn(today) {
			done = g.Sprint("✓")
		}
		row = append(row,
			done,
			goal.Title,
			ProgressBar(goal.Progress(), 10),
			fmt.Sprintf("%d/%d", goal.CompletedDays, goal.TargetDays),
			f.Sprintf("streak %d, best %d", goal.CurrentStreak, goal.LongestStreak),
		)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// ProgressBar draws percent (0-100) as a bar of width cells.
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return fmt.Sprintf("[%s%s] %3.0f%%", strings.Repeat("#", filled), strings.Repeat(".", width-filled), percent)
}

// Goal prints the full goal with its check-in history.
func (pp *PrettyPrint) Goal(goal *journal.Goal) {
	f := color.New(color.Faint)
	pp.Title(goal.Title)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(f.Sprint("id"), goal.ID)
	if goal.Description != "" {
		tbl.AddRow(f.Sprint("description"), goal.Description)
	}
	tbl.AddRow(f.Sprint("status"), string(goal.Status()))
	tbl.AddRow(f.Sprint("progress"), ProgressBar(goal.Progress(), 20))
	tbl.AddRow(f.Sprint("streak"), fmt.Sprintf("%d (longest %d)", goal.CurrentStreak, goal.LongestStreak))
	tbl.AddRow(f.Sprint("window"), fmt.Sprintf("%s → %s", goal.StartDate.Local().Format("2006-01-02"), goal.EndDate.Local().Format("2006-01-02")))
	if goal.Reminder.Enabled {
		tbl.AddRow(f.Sprint("reminder"), fmt.Sprintf("%s (%s)", goal.Reminder.Time, goal.Reminder.Sound))
	}
	if n := len(goal.CheckInHistory); n > 0 {
		days := make([]string, 0, n)
		for _, d := range goal.CheckInHistory {
			days = append(days, d.String())
		}
		tbl.AddRow(f.Sprint("check-ins"), wordwrap.String(strings.Join(days, " "), pp.width()-16))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Journeys prints one row per journey.
func (pp *PrettyPrint) Journeys(journeys ...*journal.Journey) {
	if len(journeys) == 0 {
		pp.none()
		return
	}
	f := color.New(color.Faint)
	active := color.New(color.FgGreen, color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = uint(pp.width() / 2)
	for _, j := range journeys {
		var row []interface{}
		if pp.ShowID {
			row = append(row, color.New(color.FgHiYellow, color.Faint).Sprint(ShortID(j.ID)))
		}
		state := f.Sprint("done")
		if j.IsActive {
			state = active.Sprint("active")
		}
		row = append(row,
			state,
			j.Theme,
			j.StartTime.Local().Format("2006-01-02 15:04"),
			timeutil.FormatElapsed(j.Duration(pp.now())),
			f.Sprintf("%d points, %d snapshots", len(j.Route), len(j.Snapshots)),
		)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Journey prints a journey with its snapshots and summary.
func (pp *PrettyPrint) Journey(j *journal.Journey) {
	f := color.New(color.Faint)
	b := color.New(color.Bold)

	pp.Title(j.Theme)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(f.Sprint("id"), j.ID)
	tbl.AddRow(f.Sprint("started"), j.StartTime.Local().Format("2006-01-02 15:04:05"))
	if j.EndTime != nil {
		tbl.AddRow(f.Sprint("ended"), j.EndTime.Local().Format("2006-01-02 15:04:05"))
	}
	tbl.AddRow(f.Sprint("duration"), timeutil.FormatClock(j.Duration(pp.now())))
	tbl.AddRow(f.Sprint("route"), fmt.Sprintf("%d points", len(j.Route)))
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	if len(j.Snapshots) > 0 {
		pp.TitleWithCount("Snapshots", len(j.Snapshots), "snapshot", "snapshots")
		st := uitable.New()
		st.Separator = "  "
		st.Wrap = true
		st.MaxColWidth = uint(pp.width() / 2)
		for _, s := range j.Snapshots {
			mood := "-"
			if s.MoodRating != nil {
				mood = fmt.Sprintf("%d/10", *s.MoodRating)
			}
			where := s.Address
			if where == "" {
				where = s.Coordinates.String()
			}
			st.AddRow(f.Sprint(s.Timestamp.Local().Format("15:04")), mood, where, s.Note)
		}
		_, _ = fmt.Fprintln(pp.out(), st)
		pp.NewLine()
	}

	if j.Summary != nil {
		_, _ = b.Fprintln(pp.out(), "Summary")
		_, _ = fmt.Fprintln(pp.out(), j.Summary.Physicality)
		if j.Summary.Memory != "" {
			_, _ = fmt.Fprintln(pp.out(), wordwrap.String("Memory: "+j.Summary.Memory, pp.width()))
		}
		if j.Summary.Narrative != "" {
			_, _ = fmt.Fprintln(pp.out(), wordwrap.String(j.Summary.Narrative, pp.width()))
		}
		pp.NewLine()
	}
}

// Settings prints the persisted preferences and who is signed in.
func (pp *PrettyPrint) Settings(s app.Settings, key, email string) {
	f := color.New(color.Faint)
	theme := "light"
	if s.IsDarkMode {
		theme = "dark"
	}
	if email == "" {
		email = "(signed out)"
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(f.Sprint("name"), s.UserName)
	tbl.AddRow(f.Sprint("theme"), theme)
	tbl.AddRow(f.Sprint("account"), email)
	tbl.AddRow(f.Sprint("record"), key)
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
