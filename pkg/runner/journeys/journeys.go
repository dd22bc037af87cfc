// Package journeys provides the runners behind `journal journey`.
package journeys

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/geo"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/recap"
)

var (
	errNoJournal = errors.New("can not run, no journal service")
	errNoLocator = errors.New("no position source, set location.static or location.replay")
)

// Start begins a journey.
type Start struct {
	App   *app.Service
	Theme string

	JSON bool
	Out  io.Writer
}

func (n *Start) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	j, err := n.App.StartJourney(ctx, n.Theme)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(j)
	}
	pp.Done("started %q at %s", j.Theme, j.StartTime.Local().Format("15:04"))
	return nil
}

// Point adds one route point to the active journey. Without explicit
// coordinates the locator is asked for the current position.
type Point struct {
	App         *app.Service
	Coordinates *journal.Coordinates
	Locator     geo.Locator

	Out io.Writer
}

func (n *Point) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	c, err := position(ctx, n.Coordinates, n.Locator)
	if err != nil {
		return err
	}
	if err := n.App.AddRoutePoint(ctx, c); err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Done("recorded %s", c)
	return nil
}

func position(ctx context.Context, c *journal.Coordinates, l geo.Locator) (journal.Coordinates, error) {
	if c != nil {
		return *c, nil
	}
	if l == nil {
		return journal.Coordinates{}, errNoLocator
	}
	fix, err := l.Current(ctx)
	if err != nil {
		return journal.Coordinates{}, fmt.Errorf("current position: %w", err)
	}
	return fix.Coordinates, nil
}

// Snap records a snapshot on the active journey. The position is, in
// order: the given coordinates, the locator, the last route point. Without
// any of them nothing is recorded.
type Snap struct {
	App         *app.Service
	Note        string
	MoodRating  int
	Coordinates *journal.Coordinates
	Locator     geo.Locator
	Geocoder    geo.Geocoder

	JSON bool
	Out  io.Writer
}

func (n *Snap) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	active, err := n.App.ActiveJourney(ctx)
	if err != nil {
		return err
	}
	if active == nil {
		return app.ErrNoActiveJourney
	}

	d := journal.SnapshotDraft{Note: n.Note}
	if n.MoodRating != 0 {
		if n.MoodRating < journal.MinMoodRating || n.MoodRating > journal.MaxMoodRating {
			return fmt.Errorf("mood must be between %d and %d", journal.MinMoodRating, journal.MaxMoodRating)
		}
		r := n.MoodRating
		d.MoodRating = &r
	}

	c, err := position(ctx, n.Coordinates, n.Locator)
	switch {
	case err == nil:
		d.Coordinates = c
		d.Address = geo.ReverseOr(ctx, n.Geocoder, c, geo.UnknownLocation)
	case len(active.Route) > 0:
		zap.S().Debugw("snapshot at last route point", "error", err)
		d.Coordinates = active.Route[len(active.Route)-1].Coordinates
		d.Address = geo.ReverseOr(ctx, n.Geocoder, d.Coordinates, geo.UnknownLocation)
	default:
		return fmt.Errorf("no position for the snapshot: %w", err)
	}

	s, err := n.App.AddSnapshot(ctx, d)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(s)
	}
	pp.Done("snapshot at %s", s.Address)
	return nil
}

// End finishes the active journey with a recap.
type End struct {
	App   *app.Service
	Recap *recap.Builder

	JSON bool
	Out  io.Writer
}

func (n *End) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	b := n.Recap
	if b == nil {
		b = &recap.Builder{}
	}
	j, err := b.End(ctx, n.App)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(j)
	}
	pp.Journey(j)
	return nil
}

// Remove deletes a journey, active or not.
type Remove struct {
	App *app.Service
	ID  string

	Out io.Writer
}

func (n *Remove) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	id, err := n.App.ResolveID(ctx, app.KindJourney, n.ID)
	if err != nil {
		return err
	}
	j, err := n.App.Journey(ctx, id)
	if err != nil {
		return err
	}
	if err := n.App.DeleteJourney(ctx, id); err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Done("removed %q", j.Theme)
	return nil
}

// List prints the active journey, if any, and the finished ones that match
// Query.
type List struct {
	App   *app.Service
	Query string

	ShowID bool
	JSON   bool
	Out    io.Writer
}

func (n *List) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	n.App.SetJourneySearchQuery(n.Query)
	done, err := n.App.FilteredJourneys(ctx)
	if err != nil {
		return err
	}
	active, err := n.App.ActiveJourney(ctx)
	if err != nil {
		return err
	}
	all := done
	if active != nil {
		all = append([]*journal.Journey{active}, done...)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	if n.JSON {
		return pp.JSON(all)
	}
	pp.TitleWithCount("Journeys", len(all), "journey", "journeys")
	pp.Journeys(all...)
	return nil
}

// Show prints one journey. An empty ID shows the active journey.
type Show struct {
	App *app.Service
	ID  string

	JSON bool
	Out  io.Writer
}

func (n *Show) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	var j *journal.Journey
	if n.ID == "" {
		active, err := n.App.ActiveJourney(ctx)
		if err != nil {
			return err
		}
		if active == nil {
			return app.ErrNoActiveJourney
		}
		j = active
	} else {
		id, err := n.App.ResolveID(ctx, app.KindJourney, n.ID)
		if err != nil {
			return err
		}
		if j, err = n.App.Journey(ctx, id); err != nil {
			return err
		}
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(j)
	}
	pp.Journey(j)
	return nil
}
