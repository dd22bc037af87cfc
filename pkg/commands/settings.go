package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/runner/settings"
)

func addSettings(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the journal name and theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				s := settings.Show{App: rt.App, Auth: rt.Auth, JSON: output.JSON}
				return s.Do(cmd.Context())
			})
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the settings",
		Args:  cobra.NoArgs,
		RunE:  cmd.RunE,
	}

	name := &cobra.Command{
		Use:   "name [name]",
		Short: "Rename the journal; no name restores the default",
		Example: `
journal settings name Ana's journal
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				n := settings.Name{App: rt.App, Auth: rt.Auth, Name: strings.Join(args, " ")}
				return n.Do(cmd.Context())
			})
		},
	}

	theme := &cobra.Command{
		Use:   "theme",
		Short: "Toggle dark mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				t := settings.Theme{App: rt.App}
				return t.Do(cmd.Context())
			})
		},
	}

	cmd.AddCommand(show, name, theme)
	topLevel.AddCommand(cmd)
}
