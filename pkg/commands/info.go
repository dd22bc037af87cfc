package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Where the journal is stored and which records it holds.",
		Example: `
journal info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				s := info.Info{
					Config:      rt.Config,
					Persistence: rt.Store,
					Key:         rt.App.Key(),
					JSON:        output.JSON,
				}
				return s.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}
