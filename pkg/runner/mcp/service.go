// Package mcp serves the journal over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/recap"
	"tableflip.dev/journal/pkg/timeutil"
)

// Service adapts the journal service to tool arguments.
type Service struct {
	App   *app.Service
	Recap *recap.Builder
}

var (
	ErrEntryNotFound   = errors.New("entry not found")
	ErrGoalNotFound    = errors.New("goal not found")
	ErrJourneyNotFound = errors.New("journey not found")
)

// NewService wraps a. A nil builder ends journeys without geocoding.
func NewService(a *app.Service, b *recap.Builder) *Service {
	if b == nil {
		b = &recap.Builder{}
	}
	return &Service{App: a, Recap: b}
}

// EntryArgs are the entry fields a tool may set. Empty strings mean unset.
type EntryArgs struct {
	Content  string   `json:"content"`
	Title    string   `json:"title"`
	Mood     string   `json:"mood"`
	Date     string   `json:"date"`
	Location string   `json:"location"`
	Weather  string   `json:"weather"`
	Tags     []string `json:"tags"`
}

func (s *Service) AddEntry(ctx context.Context, a EntryArgs) (*journal.Entry, error) {
	d := journal.EntryDraft{
		Content:  a.Content,
		Title:    strings.TrimSpace(a.Title),
		Location: a.Location,
		Weather:  a.Weather,
		Tags:     cleanTags(a.Tags),
	}
	if a.Mood != "" {
		m, err := journal.ParseMood(a.Mood)
		if err != nil {
			return nil, err
		}
		d.Mood = m
	}
	if a.Date != "" {
		date, err := normalizeDate(a.Date)
		if err != nil {
			return nil, err
		}
		d.Date = date
	}
	return s.App.AddEntry(ctx, d)
}

func (s *Service) UpdateEntry(ctx context.Context, id string, a EntryArgs) (*journal.Entry, error) {
	if _, err := s.EntryByID(ctx, id); err != nil {
		return nil, err
	}
	var p journal.EntryPatch
	if a.Content != "" {
		p.Content = &a.Content
	}
	if a.Title != "" {
		p.Title = &a.Title
	}
	if a.Location != "" {
		p.Location = &a.Location
	}
	if a.Weather != "" {
		p.Weather = &a.Weather
	}
	if a.Tags != nil {
		p.Tags, p.SetTags = cleanTags(a.Tags), true
	}
	if a.Mood != "" {
		m, err := journal.ParseMood(a.Mood)
		if err != nil {
			return nil, err
		}
		p.Mood = &m
	}
	if a.Date != "" {
		date, err := normalizeDate(a.Date)
		if err != nil {
			return nil, err
		}
		p.Date = &date
	}
	return s.App.UpdateEntry(ctx, id, p)
}

func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	if _, err := s.EntryByID(ctx, id); err != nil {
		return err
	}
	return s.App.DeleteEntry(ctx, id)
}

func (s *Service) ToggleFavorite(ctx context.Context, id string) (*journal.Entry, error) {
	e, err := s.App.ToggleFavorite(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return e, nil
}

func (s *Service) EntryByID(ctx context.Context, id string) (*journal.Entry, error) {
	e, err := s.App.Entry(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return e, nil
}

// EntryQuery narrows SearchEntries. Zero values match everything.
type EntryQuery struct {
	Query     string   `json:"query"`
	Tags      []string `json:"tags"`
	Favorites bool     `json:"favorites"`
	Date      string   `json:"date"`
	Limit     int      `json:"limit"`
}

// SearchEntries returns matching entries, newest first.
func (s *Service) SearchEntries(ctx context.Context, q EntryQuery) ([]*journal.Entry, error) {
	entries, err := s.App.FilterEntries(ctx, strings.TrimSpace(q.Query))
	if err != nil {
		return nil, err
	}
	var day timeutil.Day
	if q.Date != "" {
		if day, err = timeutil.ParseDay(q.Date); err != nil {
			return nil, err
		}
	}
	out := make([]*journal.Entry, 0, len(entries))
	for _, e := range entries {
		if q.Favorites && !e.Favorite {
			continue
		}
		if len(q.Tags) > 0 && !e.HasAnyTag(q.Tags) {
			continue
		}
		if day != "" && e.Day() != day {
			continue
		}
		out = append(out, e)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// GoalArgs creates a goal.
type GoalArgs struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	TargetDays   int    `json:"targetDays"`
	ReminderTime string `json:"reminderTime"`
}

func (s *Service) AddGoal(ctx context.Context, a GoalArgs) (*journal.Goal, error) {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		return nil, errors.New("goal title is required")
	}
	seed := journal.GoalSeed{
		Title:       title,
		Description: a.Description,
		TargetDays:  a.TargetDays,
		IsActive:    true,
	}
	if a.ReminderTime != "" {
		at, err := journal.ParseReminderTime(a.ReminderTime)
		if err != nil {
			return nil, err
		}
		seed.Reminder = &journal.Reminder{Enabled: true, Time: at, Sound: journal.SoundDefault}
	}
	return s.App.AddGoal(ctx, seed)
}

// CheckIn checks the goal in for today. checkedIn is false when it was
// already checked in.
func (s *Service) CheckIn(ctx context.Context, id string) (*journal.Goal, bool, error) {
	g, changed, err := s.App.CheckIn(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if g == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrGoalNotFound, id)
	}
	return g, changed, nil
}

func (s *Service) SetGoalActive(ctx context.Context, id string, active bool) (*journal.Goal, error) {
	g, err := s.App.UpdateGoal(ctx, id, journal.GoalPatch{IsActive: &active})
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: %s", ErrGoalNotFound, id)
	}
	return g, nil
}

func (s *Service) DeleteGoal(ctx context.Context, id string) error {
	g, err := s.App.Goal(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return fmt.Errorf("%w: %s", ErrGoalNotFound, id)
	}
	return s.App.DeleteGoal(ctx, id)
}

// ListGoals returns goals, optionally only those with the given status.
func (s *Service) ListGoals(ctx context.Context, status string) ([]*journal.Goal, error) {
	goals, err := s.App.Goals(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" || status == "all" {
		return goals, nil
	}
	out := make([]*journal.Goal, 0, len(goals))
	for _, g := range goals {
		if string(g.Status()) == status {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *Service) StartJourney(ctx context.Context, theme string) (*journal.Journey, error) {
	return s.App.StartJourney(ctx, theme)
}

// SnapshotArgs records a snapshot on the active journey.
type SnapshotArgs struct {
	Note       string   `json:"note"`
	MoodRating int      `json:"moodRating"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Address    string   `json:"address"`
}

func (s *Service) AddSnapshot(ctx context.Context, a SnapshotArgs) (*journal.Snapshot, error) {
	d := journal.SnapshotDraft{Note: a.Note, Address: a.Address}
	if a.MoodRating != 0 {
		if a.MoodRating < journal.MinMoodRating || a.MoodRating > journal.MaxMoodRating {
			return nil, fmt.Errorf("moodRating must be between %d and %d", journal.MinMoodRating, journal.MaxMoodRating)
		}
		r := a.MoodRating
		d.MoodRating = &r
	}
	switch {
	case a.Latitude != nil && a.Longitude != nil:
		d.Coordinates = journal.Coordinates{Latitude: *a.Latitude, Longitude: *a.Longitude}
	default:
		if j, err := s.App.ActiveJourney(ctx); err == nil && j != nil && len(j.Route) > 0 {
			d.Coordinates = j.Route[len(j.Route)-1].Coordinates
		}
	}
	return s.App.AddSnapshot(ctx, d)
}

func (s *Service) EndJourney(ctx context.Context) (*journal.Journey, error) {
	return s.Recap.End(ctx, s.App)
}

func (s *Service) JourneyByID(ctx context.Context, id string) (*journal.Journey, error) {
	j, err := s.App.Journey(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, fmt.Errorf("%w: %s", ErrJourneyNotFound, id)
	}
	return j, nil
}

// JourneySummary is a journey without its route, for listings.
type JourneySummary struct {
	ID        string           `json:"id"`
	Theme     string           `json:"theme"`
	StartTime string           `json:"startTime"`
	EndTime   string           `json:"endTime,omitempty"`
	IsActive  bool             `json:"isActive"`
	Points    int              `json:"points"`
	Snapshots int              `json:"snapshots"`
	Duration  string           `json:"duration"`
	Summary   *journal.Summary `json:"summary,omitempty"`
}

func (s *Service) ListJourneys(ctx context.Context) ([]JourneySummary, error) {
	journeys, err := s.App.Journeys(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]JourneySummary, 0, len(journeys))
	for _, j := range journeys {
		js := JourneySummary{
			ID:        j.ID,
			Theme:     j.Theme,
			StartTime: journal.FormatTime(j.StartTime.Time),
			IsActive:  j.IsActive,
			Points:    len(j.Route),
			Snapshots: len(j.Snapshots),
			Duration:  timeutil.FormatElapsed(j.Duration(now)),
			Summary:   j.Summary,
		}
		if j.EndTime != nil {
			js.EndTime = journal.FormatTime(j.EndTime.Time)
		}
		out = append(out, js)
	}
	return out, nil
}

func (s *Service) now() time.Time {
	if s.App.Now != nil {
		return s.App.Now()
	}
	return time.Now()
}

func cleanTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#")); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeDate accepts a plain day or an RFC3339 timestamp.
func normalizeDate(v string) (string, error) {
	v = strings.TrimSpace(v)
	if t, err := journal.ParseTime(v); err == nil {
		return journal.FormatTime(t), nil
	}
	d, err := timeutil.ParseDay(v)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC3339", v)
	}
	return d.String(), nil
}
