package ui

import (
	"context"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/recap"
	"tableflip.dev/journal/pkg/tui"
)

// UI launches the full-screen dashboard.
type UI struct {
	App   *app.Service
	Recap *recap.Builder
}

func (u *UI) Do(ctx context.Context) error {
	if err := u.App.Load(ctx); err != nil {
		return err
	}
	return tui.Run(ctx, u.App, u.Recap)
}
