package journeys

import (
	"context"
	"io"
	"sync"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/geo"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/recap"
	"tableflip.dev/journal/pkg/tracker"
)

// Track follows the locator into the active journey until ctx is done or
// the locator runs dry. A Theme starts a journey first when none is active.
type Track struct {
	App         *app.Service
	Theme       string
	Locator     geo.Locator
	Geocoder    geo.Geocoder
	MinDistance float64
	// End finishes the journey with a recap when tracking stops.
	End   bool
	Recap *recap.Builder

	Out io.Writer
}

func (n *Track) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	if n.Locator == nil {
		return errNoLocator
	}
	active, err := n.App.ActiveJourney(ctx)
	if err != nil {
		return err
	}
	if active == nil {
		if n.Theme == "" {
			return app.ErrNoActiveJourney
		}
		if active, err = n.App.StartJourney(ctx, n.Theme); err != nil {
			return err
		}
	}

	var mu sync.Mutex
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Done("tracking %q, interrupt to stop", active.Theme)

	t := &tracker.Tracker{
		Locator:     n.Locator,
		Geocoder:    n.Geocoder,
		Recorder:    n.App,
		MinDistance: n.MinDistance,
		OnFix: func(f geo.Fix) {
			mu.Lock()
			defer mu.Unlock()
			pp.Note("%s  %s", f.Time.Local().Format("15:04:05"), f.Coordinates)
		},
		OnAddress: func(addr string) {
			mu.Lock()
			defer mu.Unlock()
			pp.Note("          %s", addr)
		},
	}
	if err := t.Run(ctx); err != nil {
		return err
	}

	mu.Lock()
	pp.Done("recorded %d points", t.Points())
	mu.Unlock()

	if !n.End {
		return nil
	}
	// Tracking usually stops on interrupt; the recap must still be saved.
	end := End{App: n.App, Recap: n.Recap, Out: n.Out}
	return end.Do(context.WithoutCancel(ctx))
}
