package app

import (
	"context"
	"strings"

	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/timeutil"
)

// View is the transient filter state of a UI session. It is never saved.
type View struct {
	SearchQuery        string
	SelectedTags       []string
	FavoritesOnly      bool
	SelectedDate       timeutil.Day
	GoalSearchQuery    string
	JourneySearchQuery string
}

// View returns a copy of the current view state.
func (s *Service) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view
	v.SelectedTags = append([]string(nil), s.view.SelectedTags...)
	return v
}

func (s *Service) setView(fn func(v *View)) {
	s.mu.Lock()
	fn(&s.view)
	s.mu.Unlock()
}

func (s *Service) SetSearchQuery(q string) {
	s.setView(func(v *View) { v.SearchQuery = q })
}

func (s *Service) SetSelectedTags(tags []string) {
	s.setView(func(v *View) { v.SelectedTags = append([]string(nil), tags...) })
}

func (s *Service) SetFavoritesOnly(on bool) {
	s.setView(func(v *View) { v.FavoritesOnly = on })
}

// SetSelectedDate limits FilteredEntries to day; an empty day clears it.
func (s *Service) SetSelectedDate(day timeutil.Day) {
	s.setView(func(v *View) { v.SelectedDate = day })
}

func (s *Service) SetGoalSearchQuery(q string) {
	s.setView(func(v *View) { v.GoalSearchQuery = q })
}

func (s *Service) SetJourneySearchQuery(q string) {
	s.setView(func(v *View) { v.JourneySearchQuery = q })
}

// Settings are the persisted user preferences.
type Settings struct {
	UserName   string
	IsDarkMode bool
}

func (s *Service) Settings(ctx context.Context) (Settings, error) {
	var out Settings
	err := s.read(ctx, func(st *journal.State) {
		out = Settings{UserName: st.UserName, IsDarkMode: st.IsDarkMode}
	})
	return out, err
}

// SetUserName renames the journal. A blank name restores the default.
func (s *Service) SetUserName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = journal.DefaultUserName
	}
	return s.update(ctx, func(st *journal.State) error {
		st.UserName = name
		return nil
	})
}

// ToggleTheme flips dark mode and returns the new value.
func (s *Service) ToggleTheme(ctx context.Context) (bool, error) {
	var dark bool
	err := s.update(ctx, func(st *journal.State) error {
		st.IsDarkMode = !st.IsDarkMode
		dark = st.IsDarkMode
		return nil
	})
	return dark, err
}
