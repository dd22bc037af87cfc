package journeys

import (
	"context"
	"io"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/geo"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/recap"
)

// Export writes a journey as GPX to W.
type Export struct {
	App *app.Service
	ID  string
	W   io.Writer
}

func (n *Export) Do(ctx context.Context) error {
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
	return geo.WriteGPX(n.W, j)
}

// Import stores a recorded GPX or FIT activity as a finished journey with
// a recap.
type Import struct {
	App   *app.Service
	Path  string
	Theme string
	Recap *recap.Builder

	JSON bool
	Out  io.Writer
}

func (n *Import) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	t, err := geo.OpenTrack(n.Path)
	if err != nil {
		return err
	}
	j := t.Journey(n.Theme)
	b := n.Recap
	if b == nil {
		b = &recap.Builder{}
	}
	j.Summary = b.Build(ctx, j)

	saved, err := n.App.ImportJourney(ctx, j)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(saved)
	}
	pp.Done("imported %q with %d points", saved.Theme, len(saved.Route))
	pp.Journey(saved)
	return nil
}
