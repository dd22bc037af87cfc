package app

import (
	"context"
	"time"

	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/timeutil"
)

// AddEntry stores a new entry ahead of all others.
func (s *Service) AddEntry(ctx context.Context, d journal.EntryDraft) (*journal.Entry, error) {
	now := s.now()
	e := &journal.Entry{
		ID:        s.newID(),
		Date:      d.Date,
		Mood:      d.Mood,
		Content:   d.Content,
		Title:     d.Title,
		Photo:     d.Photo,
		Location:  d.Location,
		Weather:   d.Weather,
		Favorite:  d.Favorite,
		CreatedAt: journal.At(now),
	}
	if e.Date == "" {
		e.Date = journal.FormatTime(now)
	}
	if e.Mood == "" {
		e.Mood = journal.MoodNeutral
	}
	if d.Tags != nil {
		e.Tags = append([]string(nil), d.Tags...)
	}
	if d.Coordinates != nil {
		c := *d.Coordinates
		e.Coordinates = &c
	}

	err := s.update(ctx, func(st *journal.State) error {
		st.Entries = append([]*journal.Entry{e}, st.Entries...)
		s.log().Infow("added entry", "id", e.ID, "mood", e.Mood)
		return nil
	})
	return e.Clone(), err
}

// UpdateEntry merges p into the entry id. Unknown ids change nothing but the
// record is still saved.
func (s *Service) UpdateEntry(ctx context.Context, id string, p journal.EntryPatch) (*journal.Entry, error) {
	var out *journal.Entry
	err := s.update(ctx, func(st *journal.State) error {
		if e := st.Entry(id); e != nil {
			p.Apply(e)
			ts := journal.At(s.now())
			e.UpdatedAt = &ts
			out = e.Clone()
		}
		return nil
	})
	return out, err
}

// DeleteEntry removes the entry id, if present.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	return s.update(ctx, func(st *journal.State) error {
		st.Entries, _ = removeByID(st.Entries, id, func(e *journal.Entry) string { return e.ID })
		return nil
	})
}

// ToggleFavorite flips the favorite flag of the entry id.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (*journal.Entry, error) {
	var out *journal.Entry
	err := s.update(ctx, func(st *journal.State) error {
		if e := st.Entry(id); e != nil {
			e.Favorite = !e.Favorite
			out = e.Clone()
		}
		return nil
	})
	return out, err
}

// Entries returns every entry, newest first.
func (s *Service) Entries(ctx context.Context) ([]*journal.Entry, error) {
	return s.FilterEntries(ctx, "")
}

// Entry returns the entry id, or nil.
func (s *Service) Entry(ctx context.Context, id string) (*journal.Entry, error) {
	var out *journal.Entry
	err := s.read(ctx, func(st *journal.State) { out = st.Entry(id).Clone() })
	return out, err
}

// FilterEntries returns the entries whose content or title contains query,
// in collection order.
func (s *Service) FilterEntries(ctx context.Context, query string) ([]*journal.Entry, error) {
	out := make([]*journal.Entry, 0)
	err := s.read(ctx, func(st *journal.State) {
		for _, e := range st.Entries {
			if e.Matches(query) {
				out = append(out, e.Clone())
			}
		}
	})
	return out, err
}

// FilteredEntries applies the current view filters: search query, tags,
// favorites and the selected calendar day.
func (s *Service) FilteredEntries(ctx context.Context) ([]*journal.Entry, error) {
	out := make([]*journal.Entry, 0)
	err := s.read(ctx, func(st *journal.State) {
		v := s.view
		for _, e := range st.Entries {
			if !e.Matches(v.SearchQuery) || !e.HasAnyTag(v.SelectedTags) {
				continue
			}
			if v.FavoritesOnly && !e.Favorite {
				continue
			}
			if v.SelectedDate != "" && e.Day() != v.SelectedDate {
				continue
			}
			out = append(out, e.Clone())
		}
	})
	return out, err
}

// AllTags returns the distinct tags in first-seen order.
func (s *Service) AllTags(ctx context.Context) ([]string, error) {
	tags := make([]string, 0)
	err := s.read(ctx, func(st *journal.State) {
		seen := map[string]bool{}
		for _, e := range st.Entries {
			for _, t := range e.Tags {
				if !seen[t] {
					seen[t] = true
					tags = append(tags, t)
				}
			}
		}
	})
	return tags, err
}

// EntriesOn returns the entries written on day.
func (s *Service) EntriesOn(ctx context.Context, day timeutil.Day) ([]*journal.Entry, error) {
	out := make([]*journal.Entry, 0)
	err := s.read(ctx, func(st *journal.State) {
		for _, e := range st.Entries {
			if e.Day() == day {
				out = append(out, e.Clone())
			}
		}
	})
	return out, err
}

// MoodFor returns the mood of the most recent entry on day.
func (s *Service) MoodFor(ctx context.Context, day timeutil.Day) (journal.Mood, bool, error) {
	var (
		mood   journal.Mood
		found  bool
		latest time.Time
	)
	err := s.read(ctx, func(st *journal.State) {
		for _, e := range st.Entries {
			if e.Day() != day {
				continue
			}
			if !found || e.CreatedAt.After(latest) {
				mood, found, latest = e.Mood, true, e.CreatedAt.Time
			}
		}
	})
	return mood, found, err
}

// EntryStats summarises the collection.
type EntryStats struct {
	Total     int
	Favorites int
	ThisMonth int
	ByMood    map[journal.Mood]int
}

func (s *Service) EntryStats(ctx context.Context) (EntryStats, error) {
	stats := EntryStats{ByMood: make(map[journal.Mood]int)}
	now := s.now()
	err := s.read(ctx, func(st *journal.State) {
		for _, e := range st.Entries {
			stats.Total++
			if e.Favorite {
				stats.Favorites++
			}
			if e.CreatedAt.SameMonth(now) {
				stats.ThisMonth++
			}
			stats.ByMood[e.Mood]++
		}
	})
	return stats, err
}
