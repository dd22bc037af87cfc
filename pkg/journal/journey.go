package journal

import (
	"strings"
	"time"
)

// RoutePoint is one timestamped fix on a journey's path.
type RoutePoint struct {
	Coordinates
	Timestamp Timestamp `json:"timestamp"`
}

// Snapshot is a geotagged mood/note capture taken during a journey.
type Snapshot struct {
	Timestamp Timestamp `json:"timestamp"`
	Coordinates
	Address    string `json:"address,omitempty"`
	MoodRating *int   `json:"moodRating,omitempty"`
	Note       string `json:"note,omitempty"`
}

// SnapshotDraft is what a caller supplies for a snapshot; the timestamp is
// assigned when it is recorded.
type SnapshotDraft struct {
	Coordinates
	Address    string
	MoodRating *int
	Note       string
}

// Mood ratings are on a 1-10 scale.
const (
	MinMoodRating = 1
	MaxMoodRating = 10
)

// Summary is the recap attached to a journey when it ends.
type Summary struct {
	Physicality         string   `json:"physicality"`
	Mindset             string   `json:"mindset"`
	Memory              string   `json:"memory"`
	Values              string   `json:"values"`
	ReflectiveQuestions []string `json:"reflectiveQuestions"`
	Narrative           string   `json:"narrative"`
}

// Journey is a timed, location-tracked session.
type Journey struct {
	ID        string       `json:"id"`
	Theme     string       `json:"theme"`
	StartTime Timestamp    `json:"startTime"`
	EndTime   *Timestamp   `json:"endTime,omitempty"`
	IsActive  bool         `json:"isActive"`
	Route     []RoutePoint `json:"route"`
	Snapshots []Snapshot   `json:"snapshots"`
	Summary   *Summary     `json:"summary,omitempty"`
}

// NewJourney starts a journey at now.
func NewJourney(id, theme string, now time.Time) *Journey {
	return &Journey{
		ID:        id,
		Theme:     theme,
		StartTime: At(now),
		IsActive:  true,
		Route:     []RoutePoint{},
		Snapshots: []Snapshot{},
	}
}

// Duration is the elapsed tracking time, measured to now while active.
func (j *Journey) Duration(now time.Time) time.Duration {
	end := now
	if j.EndTime != nil {
		end = j.EndTime.Time
	}
	return end.Sub(j.StartTime.Time)
}

// Matches reports whether the lowercased query is in the theme or the
// summary narrative.
func (j *Journey) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(j.Theme), q) {
		return true
	}
	return j.Summary != nil && strings.Contains(strings.ToLower(j.Summary.Narrative), q)
}

// Clone returns a deep copy of j.
func (j *Journey) Clone() *Journey {
	if j == nil {
		return nil
	}
	cp := *j
	if j.EndTime != nil {
		e := *j.EndTime
		cp.EndTime = &e
	}
	if j.Route != nil {
		cp.Route = append([]RoutePoint{}, j.Route...)
	}
	if j.Snapshots != nil {
		cp.Snapshots = make([]Snapshot, len(j.Snapshots))
		for i, s := range j.Snapshots {
			if s.MoodRating != nil {
				r := *s.MoodRating
				s.MoodRating = &r
			}
			cp.Snapshots[i] = s
		}
	}
	if j.Summary != nil {
		s := *j.Summary
		if j.Summary.ReflectiveQuestions != nil {
			s.ReflectiveQuestions = append([]string{}, j.Summary.ReflectiveQuestions...)
		}
		cp.Summary = &s
	}
	return &cp
}
