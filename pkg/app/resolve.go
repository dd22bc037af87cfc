package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/journal/pkg/journal"
)

var (
	ErrNotFound  = errors.New("app: no such id")
	ErrAmbiguous = errors.New("app: id prefix is ambiguous")
)

// Kind selects the collection an id is resolved in.
type Kind int

const (
	KindEntry Kind = iota
	KindGoal
	KindJourney
)

func (k Kind) String() string {
	switch k {
	case KindGoal:
		return "goal"
	case KindJourney:
		return "journey"
	default:
		return "entry"
	}
}

// ResolveID expands prefix to the full id of exactly one item of kind. An
// exact match always wins.
func (s *Service) ResolveID(ctx context.Context, kind Kind, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: empty %s id", ErrNotFound, kind)
	}

	var ids []string
	err := s.read(ctx, func(st *journal.State) {
		switch kind {
		case KindGoal:
			for _, g := range st.Goals {
				ids = append(ids, g.ID)
			}
		case KindJourney:
			for _, j := range st.Journeys {
				ids = append(ids, j.ID)
			}
		default:
			for _, e := range st.Entries {
				ids = append(ids, e.ID)
			}
		}
	})
	if err != nil {
		return "", err
	}

	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s %q", ErrNotFound, kind, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s %q matches %d items", ErrAmbiguous, kind, prefix, len(matches))
	}
}
