package entries

import (
	"context"
	"io"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/printers"
)

// Edit patches an entry. ID may be a unique prefix.
type Edit struct {
	App   *app.Service
	ID    string
	Patch journal.EntryPatch

	JSON bool
	Out  io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	id, err := n.App.ResolveID(ctx, app.KindEntry, n.ID)
	if err != nil {
		return err
	}
	e, err := n.App.UpdateEntry(ctx, id, n.Patch)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(e)
	}
	pp.Done("updated entry %s", printers.ShortID(id))
	pp.Entry(e)
	return nil
}

// Remove deletes an entry.
type Remove struct {
	App *app.Service
	ID  string

	Out io.Writer
}

func (n *Remove) Do(ctx context.Context) error {
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
	if err := n.App.DeleteEntry(ctx, id); err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Done("removed %s", printers.Headline(e))
	return nil
}

// Favorite toggles the star of an entry.
type Favorite struct {
	App *app.Service
	ID  string

	JSON bool
	Out  io.Writer
}

func (n *Favorite) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	id, err := n.App.ResolveID(ctx, app.KindEntry, n.ID)
	if err != nil {
		return err
	}
	e, err := n.App.ToggleFavorite(ctx, id)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(e)
	}
	if e.Favorite {
		pp.Done("starred %s", printers.Headline(e))
	} else {
		pp.Done("unstarred %s", printers.Headline(e))
	}
	return nil
}
