package entries

import (
	"context"
	"io"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/timeutil"
)

// List prints the entries that pass the given filters, newest first.
type List struct {
	App       *app.Service
	Query     string
	Tags      []string
	Favorites bool
	On        timeutil.Day
	// Limit caps the output; zero shows everything.
	Limit int

	ShowID bool
	JSON   bool
	Out    io.Writer
}

func (n *List) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	n.App.SetSearchQuery(n.Query)
	n.App.SetSelectedTags(n.Tags)
	n.App.SetFavoritesOnly(n.Favorites)
	n.App.SetSelectedDate(n.On)

	all, err := n.App.FilteredEntries(ctx)
	if err != nil {
		return err
	}
	if n.Limit > 0 && len(all) > n.Limit {
		all = all[:n.Limit]
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	if n.JSON {
		return pp.JSON(all)
	}
	title := "Entries"
	if n.On != "" {
		title = n.On.Time().Format("Monday, January 2, 2006")
	}
	pp.TitleWithCount(title, len(all), "entry", "entries")
	pp.Entries(all...)
	return nil
}

// Show prints one entry in full.
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
	id, err := n.App.ResolveID(ctx, app.KindEntry, n.ID)
	if err != nil {
		return err
	}
	e, err := n.App.Entry(ctx, id)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(e)
	}
	pp.Entry(e)
	return nil
}

// Tags prints every tag in use.
type Tags struct {
	App *app.Service

	JSON bool
	Out  io.Writer
}

func (n *Tags) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	tags, err := n.App.AllTags(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(tags)
	}
	pp.Tags(tags)
	return nil
}

// Stats prints entry totals and the mood breakdown.
type Stats struct {
	App *app.Service

	JSON bool
	Out  io.Writer
}

func (n *Stats) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	s, err := n.App.EntryStats(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(s)
	}
	pp.Stats(s)
	return nil
}
