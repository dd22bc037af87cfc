// Package goals provides the runners behind `journal goal`.
package goals

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/printers"
)

var errNoJournal = errors.New("can not run, no journal service")

// Add creates a goal.
type Add struct {
	App  *app.Service
	Seed journal.GoalSeed

	JSON bool
	Out  io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	g, err := n.App.AddGoal(ctx, n.Seed)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(g)
	}
	pp.Done("added goal %s", printers.ShortID(g.ID))
	pp.Goal(g)
	return nil
}

// Edit patches a goal. ID may be a unique prefix.
type Edit struct {
	App   *app.Service
	ID    string
	Patch journal.GoalPatch

	JSON bool
	Out  io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	id, err := n.App.ResolveID(ctx, app.KindGoal, n.ID)
	if err != nil {
		return err
	}
	g, err := n.App.UpdateGoal(ctx, id, n.Patch)
	if err != nil {
		return err
	}
	return n.print(g, "updated")
}

func (n *Edit) print(g *journal.Goal, verb string) error {
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(g)
	}
	pp.Done("%s %s", verb, g.Title)
	pp.Goal(g)
	return nil
}

// SetActive pauses or resumes a goal.
type SetActive struct {
	App    *app.Service
	ID     string
	Active bool

	JSON bool
	Out  io.Writer
}

func (n *SetActive) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	id, err := n.App.ResolveID(ctx, app.KindGoal, n.ID)
	if err != nil {
		return err
	}
	var g *journal.Goal
	verb := "paused"
	if n.Active {
		verb = "resumed"
		g, err = n.App.ResumeGoal(ctx, id)
	} else {
		g, err = n.App.PauseGoal(ctx, id)
	}
	if err != nil {
		return err
	}
	e := Edit{JSON: n.JSON, Out: n.Out}
	return e.print(g, verb)
}

// Remove deletes a goal.
type Remove struct {
	App *app.Service
	ID  string

	Out io.Writer
}

func (n *Remove) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	id, err := n.App.ResolveID(ctx, app.KindGoal, n.ID)
	if err != nil {
		return err
	}
	g, err := n.App.Goal(ctx, id)
	if err != nil {
		return err
	}
	if err := n.App.DeleteGoal(ctx, id); err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Done("removed %s", g.Title)
	return nil
}

// CheckIn records today's check-in. Checking in twice on one day is not an
// error; the second call just says so.
type CheckIn struct {
	App *app.Service
	ID  string

	JSON bool
	Out  io.Writer
}

func (n *CheckIn) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	id, err := n.App.ResolveID(ctx, app.KindGoal, n.ID)
	if err != nil {
		return err
	}
	g, changed, err := n.App.CheckIn(ctx, id)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(struct {
			Goal      *journal.Goal `json:"goal"`
			CheckedIn bool          `json:"checkedIn"`
		}{g, changed})
	}
	switch {
	case !changed:
		pp.Note("already checked in to %s today", g.Title)
	case g.Completed():
		pp.Done("checked in to %s, goal complete after %d days", g.Title, g.CompletedDays)
	default:
		pp.Done("checked in to %s, streak %d", g.Title, g.CurrentStreak)
	}
	pp.Goal(g)
	return nil
}

// List prints goals grouped by status.
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
	n.App.SetGoalSearchQuery(n.Query)
	groups, err := n.App.GoalsByStatus(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	if n.JSON {
		return pp.JSON(groups)
	}
	pp.Goals(groups)
	return nil
}

// Show prints one goal with its check-in history.
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
	id, err := n.App.ResolveID(ctx, app.KindGoal, n.ID)
	if err != nil {
		return err
	}
	g, err := n.App.Goal(ctx, id)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(g)
	}
	pp.Goal(g)
	return nil
}
