// Package journal holds the domain types of the journal: mood-tagged
// entries, goals with check-in streaks, and location-tracked journeys.
package journal

import (
	"fmt"
	"strings"

	"tableflip.dev/journal/pkg/timeutil"
)

// Mood is one of the five moods an entry can carry.
type Mood string

const (
	MoodAmazing  Mood = "amazing"
	MoodHappy    Mood = "happy"
	MoodNeutral  Mood = "neutral"
	MoodSad      Mood = "sad"
	MoodTerrible Mood = "terrible"
)

// Moods lists every mood from best to worst.
func Moods() []Mood {
	return []Mood{MoodAmazing, MoodHappy, MoodNeutral, MoodSad, MoodTerrible}
}

// ParseMood matches s case-insensitively against the known moods.
func ParseMood(s string) (Mood, error) {
	want := Mood(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range Moods() {
		if m == want {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}

// Emoji is the glyph the app shows next to a mood.
func (m Mood) Emoji() string {
	switch m {
	case MoodAmazing:
		return "🤩"
	case MoodHappy:
		return "😊"
	case MoodNeutral:
		return "😐"
	case MoodSad:
		return "😢"
	case MoodTerrible:
		return "😫"
	default:
		return "·"
	}
}

// Color is the hex colour of the mood in the calendar legend.
func (m Mood) Color() string {
	switch m {
	case MoodAmazing:
		return "#10B981"
	case MoodHappy:
		return "#3B82F6"
	case MoodNeutral:
		return "#F59E0B"
	case MoodSad:
		return "#8B5CF6"
	case MoodTerrible:
		return "#EF4444"
	default:
		return "#6B8E8A"
	}
}

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Latitude, c.Longitude)
}

// Entry is a single diary record.
type Entry struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	Mood        Mood         `json:"mood"`
	Content     string       `json:"content"`
	Title       string       `json:"title,omitempty"`
	Photo       string       `json:"photo,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Location    string       `json:"location,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Weather     string       `json:"weather,omitempty"`
	Favorite    bool         `json:"isFavorite"`
	CreatedAt   Timestamp    `json:"createdAt"`
	UpdatedAt   *Timestamp   `json:"updatedAt,omitempty"`
}

// EntryDraft is everything a caller supplies for a new entry; the id and
// creation time are assigned by the service.
type EntryDraft struct {
	Date        string
	Mood        Mood
	Content     string
	Title       string
	Photo       string
	Tags        []string
	Location    string
	Coordinates *Coordinates
	Weather     string
	Favorite    bool
}

// EntryPatch carries the fields of a partial update; nil means unchanged.
type EntryPatch struct {
	Date        *string
	Mood        *Mood
	Content     *string
	Title       *string
	Photo       *string
	Tags        []string
	SetTags     bool
	Location    *string
	Coordinates *Coordinates
	Weather     *string
	Favorite    *bool
}

// Apply merges p into e.
func (p EntryPatch) Apply(e *Entry) {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Photo != nil {
		e.Photo = *p.Photo
	}
	if p.SetTags {
		e.Tags = append([]string(nil), p.Tags...)
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Coordinates != nil {
		c := *p.Coordinates
		e.Coordinates = &c
	}
	if p.Weather != nil {
		e.Weather = *p.Weather
	}
	if p.Favorite != nil {
		e.Favorite = *p.Favorite
	}
}

// Matches reports whether the lowercased query is contained in the
// lowercased content or title. An empty query matches everything.
func (e *Entry) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.Content), q) ||
		strings.Contains(strings.ToLower(e.Title), q)
}

// HasAnyTag reports whether e carries at least one of tags. An empty tag
// filter matches everything.
func (e *Entry) HasAnyTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, have := range e.Tags {
		for _, want := range tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	cp := *e
	if e.Tags != nil {
		cp.Tags = append([]string(nil), e.Tags...)
	}
	if e.Coordinates != nil {
		c := *e.Coordinates
		cp.Coordinates = &c
	}
	if e.UpdatedAt != nil {
		u := *e.UpdatedAt
		cp.UpdatedAt = &u
	}
	return &cp
}

// Day is the local calendar day the entry belongs to. Date may hold a plain
// day or a full timestamp; entries without a usable date fall back to their
// creation time.
func (e *Entry) Day() timeutil.Day {
	if t, err := ParseTime(e.Date); err == nil {
		return timeutil.DayOf(t.Local())
	}
	if d, err := timeutil.ParseDay(e.Date); err == nil {
		return d
	}
	return timeutil.DayOf(e.CreatedAt.Local())
}
