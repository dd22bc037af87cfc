// Package report summarises recent journal activity.
package report

import (
	"context"
	"errors"
	"io"
	"time"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/timeutil"
)

type Report struct {
	App *app.Service
	// Window is a look-back such as "3d" or "1w2d".
	Window string

	JSON bool
	Out  io.Writer
	Now  func() time.Time
}

func (n *Report) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not run, no journal service")
	}
	window, label, err := timeutil.ParseWindow(n.Window)
	if err != nil {
		return err
	}
	until := time.Now()
	if n.Now != nil {
		until = n.Now()
	}
	since := until.Add(-window)

	result, err := n.App.Report(ctx, since, until)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out, Now: n.Now}
	if n.JSON {
		return pp.JSON(result)
	}
	pp.Report(result, label)
	return nil
}
