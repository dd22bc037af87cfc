// Package recap writes the summary stored on a journey when it ends.
package recap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/geo"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/timeutil"
)

// Builder assembles a journey summary. Geocoder and Locator are optional.
type Builder struct {
	Geocoder geo.Geocoder
	// Locator supplies a final fix when the journey has no route yet.
	Locator geo.Locator
	Now     func() time.Time
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// FinalFix returns a position to record before ending a journey that has
// no route points, or false when none is available.
func (b *Builder) FinalFix(ctx context.Context, j *journal.Journey) (journal.Coordinates, bool) {
	if b.Locator == nil || len(j.Route) > 0 {
		return journal.Coordinates{}, false
	}
	f, err := b.Locator.Current(ctx)
	if err != nil {
		zap.S().Debugw("no final fix for journey", "journey", j.ID, "error", err)
		return journal.Coordinates{}, false
	}
	return f.Coordinates, true
}

// Build summarises j as of now, or as of its end for a finished journey
// such as an imported track. Start and end come from the first and last
// snapshot addresses, falling back to geocoding the route ends.
func (b *Builder) Build(ctx context.Context, j *journal.Journey) *journal.Summary {
	start, end := geo.UnknownLocation, geo.UnknownLocation

	var addresses, notes []string
	for _, s := range j.Snapshots {
		if s.Address != "" {
			addresses = append(addresses, s.Address)
		}
		if s.Note != "" {
			notes = append(notes, s.Note)
		}
	}

	switch {
	case len(addresses) > 0:
		start, end = addresses[0], addresses[len(addresses)-1]
	case len(j.Route) > 0:
		first, last := j.Route[0], j.Route[len(j.Route)-1]
		start = geo.ReverseOr(ctx, b.Geocoder, first.Coordinates, geo.UnknownLocation)
		end = geo.ReverseOr(ctx, b.Geocoder, last.Coordinates, geo.UnknownLocation)
	}

	until := b.now()
	if j.EndTime != nil {
		until = j.EndTime.Time
	}
	return &journal.Summary{
		Physicality:         Physicality(start, end, until.Sub(j.StartTime.Time)),
		Memory:              strings.Join(notes, "; "),
		ReflectiveQuestions: []string{},
	}
}

// Journeys is the part of the journal service that ending a journey needs.
type Journeys interface {
	ActiveJourney(ctx context.Context) (*journal.Journey, error)
	AddRoutePoint(ctx context.Context, c journal.Coordinates) error
	EndJourney(ctx context.Context, summary *journal.Summary) (*journal.Journey, error)
}

// End records a final fix if the route is empty, then ends the active
// journey with a freshly built summary.
func (b *Builder) End(ctx context.Context, svc Journeys) (*journal.Journey, error) {
	j, err := svc.ActiveJourney(ctx)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, app.ErrNoActiveJourney
	}
	if c, ok := b.FinalFix(ctx, j); ok {
		if err := svc.AddRoutePoint(ctx, c); err != nil {
			zap.S().Warnw("record final fix", "journey", j.ID, "error", err)
		}
		if cur, err := svc.ActiveJourney(ctx); err == nil && cur != nil {
			j = cur
		}
	}
	return svc.EndJourney(ctx, b.Build(ctx, j))
}

// Physicality is the three line where-and-how-long description.
func Physicality(start, end string, d time.Duration) string {
	return fmt.Sprintf("Started: %s\nEnded: %s\nDuration: %s", start, end, timeutil.FormatElapsed(d))
}
