package app

import (
	"context"

	"tableflip.dev/journal/pkg/journal"
)

// AddGoal creates a goal from seed ahead of all others.
func (s *Service) AddGoal(ctx context.Context, seed journal.GoalSeed) (*journal.Goal, error) {
	g := journal.NewGoal(s.newID(), seed, s.now())
	err := s.update(ctx, func(st *journal.State) error {
		st.Goals = append([]*journal.Goal{g}, st.Goals...)
		s.log().Infow("added goal", "id", g.ID, "target", g.TargetDays)
		return nil
	})
	return g.Clone(), err
}

// UpdateGoal merges p into the goal id. Unknown ids change nothing.
func (s *Service) UpdateGoal(ctx context.Context, id string, p journal.GoalPatch) (*journal.Goal, error) {
	var out *journal.Goal
	err := s.update(ctx, func(st *journal.State) error {
		if g := st.Goal(id); g != nil {
			p.Apply(g)
			out = g.Clone()
		}
		return nil
	})
	return out, err
}

func (s *Service) PauseGoal(ctx context.Context, id string) (*journal.Goal, error) {
	active := false
	return s.UpdateGoal(ctx, id, journal.GoalPatch{IsActive: &active})
}

func (s *Service) ResumeGoal(ctx context.Context, id string) (*journal.Goal, error) {
	active := true
	return s.UpdateGoal(ctx, id, journal.GoalPatch{IsActive: &active})
}

// DeleteGoal removes the goal id, if present.
func (s *Service) DeleteGoal(ctx context.Context, id string) error {
	return s.update(ctx, func(st *journal.State) error {
		st.Goals, _ = removeByID(st.Goals, id, func(g *journal.Goal) string { return g.ID })
		return nil
	})
}

// CheckIn records today's check-in for the goal id. The returned bool is
// false when the goal was already checked in today or does not exist; the
// record is only saved when something changed.
func (s *Service) CheckIn(ctx context.Context, id string) (*journal.Goal, bool, error) {
	today := s.today()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, false, err
	}
	g := s.state.Goal(id)
	if g == nil {
		return nil, false, nil
	}
	if !g.CheckIn(today) {
		return g.Clone(), false, nil
	}
	s.log().Infow("checked in", "goal", id, "day", today, "streak", g.CurrentStreak)
	return g.Clone(), true, s.saveLocked(ctx)
}

// Goals returns every goal, newest first.
func (s *Service) Goals(ctx context.Context) ([]*journal.Goal, error) {
	return s.filterGoals(ctx, "")
}

// Goal returns the goal id, or nil.
func (s *Service) Goal(ctx context.Context, id string) (*journal.Goal, error) {
	var out *journal.Goal
	err := s.read(ctx, func(st *journal.State) { out = st.Goal(id).Clone() })
	return out, err
}

// FilteredGoals applies the goal search query of the view.
func (s *Service) FilteredGoals(ctx context.Context) ([]*journal.Goal, error) {
	return s.filterGoals(ctx, s.View().GoalSearchQuery)
}

func (s *Service) filterGoals(ctx context.Context, query string) ([]*journal.Goal, error) {
	out := make([]*journal.Goal, 0)
	err := s.read(ctx, func(st *journal.State) {
		for _, g := range st.Goals {
			if g.Matches(query) {
				out = append(out, g.Clone())
			}
		}
	})
	return out, err
}

// GoalGroups splits goals by status.
type GoalGroups struct {
	Active    []*journal.Goal
	Paused    []*journal.Goal
	Completed []*journal.Goal
}

// GoalsByStatus groups the goals matching the view's goal query.
func (s *Service) GoalsByStatus(ctx context.Context) (GoalGroups, error) {
	goals, err := s.FilteredGoals(ctx)
	if err != nil {
		return GoalGroups{}, err
	}
	var groups GoalGroups
	for _, g := range goals {
		switch g.Status() {
		case journal.GoalCompleted:
			groups.Completed = append(groups.Completed, g)
		case journal.GoalPaused:
			groups.Paused = append(groups.Paused, g)
		default:
			groups.Active = append(groups.Active, g)
		}
	}
	return groups, nil
}
