package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/timeutil"
)

const width = len("11 12 13 14 15 16 17") // an example week

// MoodCalendar prints the month containing then, with each day that has
// entries painted in the colour of its mood.
func (pp *PrettyPrint) MoodCalendar(then time.Time, moods map[timeutil.Day]journal.Mood) {
	profile := pp.profile()
	month := timeutil.StartOfMonth(then)
	today := timeutil.DayOf(pp.now())

	tf := color.New(color.FgWhite, color.Italic)
	m := month.Format("January 2006")
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(pp.out(), "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", max(width-mid-len(m), 0)))
	_, _ = color.New(color.Faint).Fprintln(pp.out(), "Su Mo Tu We Th Fr Sa")

	d := StartDay(month)
	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(pp.out(), "   ")
	}

	faint := color.New(color.Faint, color.FgWhite)
	for i := 0; i < timeutil.DaysIn(month); i++ {
		day := timeutil.DayOf(month.AddDate(0, 0, i))
		label := fmt.Sprintf("%2d", i+1)
		if mood, ok := moods[day]; ok {
			label = MoodStyle(profile, mood, label, day == today)
		} else if day == today {
			label = profile.String(label).Bold().Underline().String()
		} else {
			label = faint.Sprint(label)
		}
		_, _ = fmt.Fprint(pp.out(), label, " ")

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(pp.out(), "\n")
		}
	}
	_, _ = fmt.Fprint(pp.out(), "\n\n")
	pp.MoodLegend()
}

// MoodLegend prints every mood in its colour.
func (pp *PrettyPrint) MoodLegend() {
	profile := pp.profile()
	parts := make([]string, 0, len(journal.Moods()))
	for _, m := range journal.Moods() {
		parts = append(parts, MoodStyle(profile, m, " "+m.Emoji()+" "+string(m)+" ", false))
	}
	_, _ = fmt.Fprintln(pp.out(), strings.Join(parts, " "))
	pp.NewLine()
}

func (pp *PrettyPrint) profile() termenv.Profile {
	if color.NoColor {
		return termenv.Ascii
	}
	if pp.Out != nil {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// MoodStyle paints s with the mood colour as background and a readable
// foreground.
func MoodStyle(p termenv.Profile, m journal.Mood, s string, emphasize bool) string {
	bg, fg := MoodColors(m)
	style := p.String(s).Background(p.Color(bg)).Foreground(p.Color(fg))
	if emphasize {
		style = style.Bold().Underline()
	}
	return style.String()
}

// MoodColors returns the background hex of m and a foreground hex that
// stays legible on it.
func MoodColors(m journal.Mood) (bg, fg string) {
	bg = m.Color()
	c, err := colorful.Hex(bg)
	if err != nil {
		return bg, "#ffffff"
	}
	if l, _, _ := c.Lab(); l > 0.6 {
		return bg, c.BlendLab(colorful.Color{}, 0.8).Clamped().Hex()
	}
	return bg, c.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.9).Clamped().Hex()
}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()+1, 1, 1, 0, 0, 0, then.Location())
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, then.Location()).Weekday()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
