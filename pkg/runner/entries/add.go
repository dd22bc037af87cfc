// Package entries provides the runners behind `journal entry`.
package entries

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/geo"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/printers"
)

var errNoJournal = errors.New("can not run, no journal service")

// Add writes a new entry.
type Add struct {
	App   *app.Service
	Draft journal.EntryDraft

	// Here stamps the entry with the current position, its address and the
	// weather there.
	Here     bool
	Locator  geo.Locator
	Geocoder geo.Geocoder
	Weather  *geo.OpenMeteo

	JSON bool
	Out  io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	d := n.Draft
	if n.Here {
		n.locate(ctx, &d)
	}

	e, err := n.App.AddEntry(ctx, d)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(e)
	}
	pp.Done("added entry %s", printers.ShortID(e.ID))
	pp.Entries(e)
	return nil
}

func (n *Add) locate(ctx context.Context, d *journal.EntryDraft) {
	if n.Locator == nil {
		zap.S().Debug("no locator configured, entry has no position")
		if d.Location == "" {
			d.Location = geo.UnknownLocation
		}
		return
	}
	fix, err := n.Locator.Current(ctx)
	if err != nil {
		zap.S().Warnw("no position for entry", "error", err)
		if d.Location == "" {
			d.Location = geo.UnknownLocation
		}
		return
	}
	c := fix.Coordinates
	d.Coordinates = &c
	if d.Location == "" {
		d.Location = geo.ReverseOr(ctx, n.Geocoder, c, geo.UnknownLocation)
	}
	if d.Weather == "" {
		d.Weather = geo.CurrentOr(ctx, n.Weather, c)
	}
}
