package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/timeutil"
)

// EntryOptions are the metadata flags of an entry.
type EntryOptions struct {
	Mood     string
	Title    string
	Tags     []string
	Date     string
	Location string
	Weather  string
	Photo    string
	Favorite bool
}

func moodNames() string {
	names := make([]string, 0, len(journal.Moods()))
	for _, m := range journal.Moods() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

func AddEntryArgs(cmd *cobra.Command, o *EntryOptions) {
	cmd.Flags().StringVarP(&o.Mood, "mood", "m", string(journal.MoodNeutral),
		Wrap80("How the day felt. One of "+moodNames()+"."))
	cmd.Flags().StringVarP(&o.Title, "title", "t", "", "Optional title.")
	cmd.Flags().StringSliceVar(&o.Tags, "tag", nil,
		Wrap80(`Tag the entry, repeat or comma separate. Example: --tag=work,family`))
	cmd.Flags().StringVar(&o.Date, "date", "",
		Wrap80("When it happened, as an ISO-8601 time or 2006-01-02 day. Defaults to now."))
	cmd.Flags().StringVar(&o.Location, "location", "", "Where it happened.")
	cmd.Flags().StringVar(&o.Weather, "weather", "", `The weather, for example "24°C".`)
	cmd.Flags().StringVar(&o.Photo, "photo", "", "Path or URL of a photo.")
	cmd.Flags().BoolVar(&o.Favorite, "favorite", false, "Mark the entry as a favorite.")
}

// Draft builds a new entry from the flags and content.
func (o *EntryOptions) Draft(content string) (journal.EntryDraft, error) {
	mood, err := journal.ParseMood(o.Mood)
	if err != nil {
		return journal.EntryDraft{}, err
	}
	date, err := normalizeDate(o.Date)
	if err != nil {
		return journal.EntryDraft{}, err
	}
	return journal.EntryDraft{
		Date:     date,
		Mood:     mood,
		Content:  content,
		Title:    o.Title,
		Photo:    o.Photo,
		Tags:     o.Tags,
		Location: o.Location,
		Weather:  o.Weather,
		Favorite: o.Favorite,
	}, nil
}

// Patch builds an update holding only the flags that were set.
func (o *EntryOptions) Patch(cmd *cobra.Command, content string) (journal.EntryPatch, error) {
	var p journal.EntryPatch
	changed := cmd.Flags().Changed
	if content != "" {
		p.Content = &content
	}
	if changed("mood") {
		m, err := journal.ParseMood(o.Mood)
		if err != nil {
			return p, err
		}
		p.Mood = &m
	}
	if changed("date") {
		d, err := normalizeDate(o.Date)
		if err != nil {
			return p, err
		}
		p.Date = &d
	}
	if changed("tag") {
		p.Tags, p.SetTags = o.Tags, true
	}
	for flag, field := range map[string]**string{
		"title":    &p.Title,
		"location": &p.Location,
		"weather":  &p.Weather,
		"photo":    &p.Photo,
	} {
		if changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			*field = &v
		}
	}
	if changed("favorite") {
		p.Favorite = &o.Favorite
	}
	return p, nil
}

// normalizeDate accepts a full timestamp or a bare day.
func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if t, err := journal.ParseTime(s); err == nil {
		return journal.FormatTime(t), nil
	}
	d, err := timeutil.ParseDay(s)
	if err != nil {
		return "", fmt.Errorf("bad date %q, want 2006-01-02 or RFC 3339", s)
	}
	// Noon keeps the day stable in every zone.
	t := d.Time()
	return journal.FormatTime(time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.Local)), nil
}
