package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/runner/calendar"
)

func addCalendar(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	on := &options.OnOptions{}
	var month string

	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show a month coloured by the mood of each day",
		Example: `
journal calendar
journal calendar --month 2025-03
journal calendar --on yesterday
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := on.GetOn()
			if err != nil {
				return err
			}
			var m time.Time
			switch {
			case month != "":
				if m, err = time.ParseInLocation("2006-01", month, time.Local); err != nil {
					return fmt.Errorf("bad month %q, want 2006-01", month)
				}
			case day != "":
				m = day.Time()
			}
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				c := calendar.Calendar{
					App:    rt.App,
					Month:  m,
					Day:    day,
					ShowID: io.ShowID,
					JSON:   output.JSON,
				}
				return c.Do(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to show, 2006-01. Defaults to this month.")
	options.AddOnArgs(cmd, on, "Also list the entries of this day.")
	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}
