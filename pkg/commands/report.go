package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/runner/report"
	"tableflip.dev/journal/pkg/timeutil"
)

func addReport(topLevel *cobra.Command) {
	var last string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise recent entries, check-ins and journeys",
		Long: `Report lists what happened within the specified time window: entries by
mood, goal check-ins and journeys.

Examples:
  journal report
  journal report --last 3d
  journal report --last 1w2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				r := report.Report{App: rt.App, Window: last, JSON: output.JSON}
				return r.Do(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&last, "last", timeutil.DefaultWindow, "time window to include (for example 3d, 1w)")
	cmd.Flags().StringVar(&last, "window", timeutil.DefaultWindow, "alias of --last")
	topLevel.AddCommand(cmd)
}
