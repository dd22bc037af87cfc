package app

import (
	"context"
	"fmt"
	"strings"

	"tableflip.dev/journal/pkg/journal"
)

// StartJourney begins a journey and makes it the active one. Only one
// journey may be active; a second start is rejected with ErrJourneyActive.
func (s *Service) StartJourney(ctx context.Context, theme string) (*journal.Journey, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return nil, ErrThemeRequired
	}
	var out *journal.Journey
	err := s.update(ctx, func(st *journal.State) error {
		if active := st.ActiveJourney(); active != nil {
			return fmt.Errorf("%w: %q", ErrJourneyActive, active.Theme)
		}
		j := journal.NewJourney(s.newID(), theme, s.now())
		st.Journeys = append([]*journal.Journey{j}, st.Journeys...)
		st.ActiveJourneyID = &j.ID
		s.log().Infow("started journey", "id", j.ID, "theme", theme)
		out = j.Clone()
		return nil
	})
	return out, err
}

// ActiveJourney returns the active journey, or nil.
func (s *Service) ActiveJourney(ctx context.Context) (*journal.Journey, error) {
	var out *journal.Journey
	err := s.read(ctx, func(st *journal.State) { out = st.ActiveJourney().Clone() })
	return out, err
}

// AddRoutePoint appends c, stamped now, to the active journey's route.
func (s *Service) AddRoutePoint(ctx context.Context, c journal.Coordinates) error {
	return s.AddRoutePointAt(ctx, journal.RoutePoint{Coordinates: c, Timestamp: journal.At(s.now())})
}

// AddRoutePointAt appends p as recorded; replayed tracks keep their own
// timestamps.
func (s *Service) AddRoutePointAt(ctx context.Context, p journal.RoutePoint) error {
	return s.update(ctx, func(st *journal.State) error {
		j := st.ActiveJourney()
		if j == nil {
			return ErrNoActiveJourney
		}
		if p.Timestamp.IsZero() {
			p.Timestamp = journal.At(s.now())
		}
		j.Route = append(j.Route, p)
		return nil
	})
}

// AddSnapshot records a geotagged note on the active journey. Mood ratings
// outside 1-10 are dropped.
func (s *Service) AddSnapshot(ctx context.Context, d journal.SnapshotDraft) (*journal.Snapshot, error) {
	var out *journal.Snapshot
	err := s.update(ctx, func(st *journal.State) error {
		j := st.ActiveJourney()
		if j == nil {
			return ErrNoActiveJourney
		}
		snap := journal.Snapshot{
			Timestamp:   journal.At(s.now()),
			Coordinates: d.Coordinates,
			Address:     d.Address,
			Note:        d.Note,
		}
		if r := d.MoodRating; r != nil && *r >= journal.MinMoodRating && *r <= journal.MaxMoodRating {
			v := *r
			snap.MoodRating = &v
		}
		j.Snapshots = append(j.Snapshots, snap)
		out = &snap
		return nil
	})
	return out, err
}

// EndJourney closes the active journey with the caller-built summary and
// clears the active pointer.
func (s *Service) EndJourney(ctx context.Context, summary *journal.Summary) (*journal.Journey, error) {
	var out *journal.Journey
	err := s.update(ctx, func(st *journal.State) error {
		j := st.ActiveJourney()
		if j == nil {
			return ErrNoActiveJourney
		}
		end := journal.At(s.now())
		j.EndTime = &end
		j.IsActive = false
		if summary != nil {
			cp := *summary
			cp.ReflectiveQuestions = append([]string{}, summary.ReflectiveQuestions...)
			j.Summary = &cp
		}
		st.ActiveJourneyID = nil
		s.log().Infow("ended journey", "id", j.ID, "points", len(j.Route), "snapshots", len(j.Snapshots))
		out = j.Clone()
		return nil
	})
	return out, err
}

// ImportJourney stores an already finished journey, such as a recorded
// activity. It never becomes active.
func (s *Service) ImportJourney(ctx context.Context, j *journal.Journey) (*journal.Journey, error) {
	cp := j.Clone()
	if cp.ID == "" {
		cp.ID = s.newID()
	}
	cp.IsActive = false
	if cp.EndTime == nil {
		end := cp.StartTime
		if n := len(cp.Route); n > 0 {
			end = cp.Route[n-1].Timestamp
		}
		cp.EndTime = &end
	}
	err := s.update(ctx, func(st *journal.State) error {
		st.Journeys = append([]*journal.Journey{cp}, st.Journeys...)
		return nil
	})
	return cp.Clone(), err
}

// DeleteJourney removes the journey id and clears the active pointer when
// it was the active one.
func (s *Service) DeleteJourney(ctx context.Context, id string) error {
	return s.update(ctx, func(st *journal.State) error {
		var removed bool
		st.Journeys, removed = removeByID(st.Journeys, id, func(j *journal.Journey) string { return j.ID })
		if removed && st.ActiveJourneyID != nil && *st.ActiveJourneyID == id {
			st.ActiveJourneyID = nil
		}
		return nil
	})
}

// Journeys returns every journey, newest first.
func (s *Service) Journeys(ctx context.Context) ([]*journal.Journey, error) {
	out := make([]*journal.Journey, 0)
	err := s.read(ctx, func(st *journal.State) {
		for _, j := range st.Journeys {
			out = append(out, j.Clone())
		}
	})
	return out, err
}

// Journey returns the journey id, or nil.
func (s *Service) Journey(ctx context.Context, id string) (*journal.Journey, error) {
	var out *journal.Journey
	err := s.read(ctx, func(st *journal.State) { out = st.Journey(id).Clone() })
	return out, err
}

// FilteredJourneys returns ended journeys matching the journey search query.
func (s *Service) FilteredJourneys(ctx context.Context) ([]*journal.Journey, error) {
	out := make([]*journal.Journey, 0)
	err := s.read(ctx, func(st *journal.State) {
		q := s.view.JourneySearchQuery
		for _, j := range st.Journeys {
			if j.IsActive || !j.Matches(q) {
				continue
			}
			out = append(out, j.Clone())
		}
	})
	return out, err
}
