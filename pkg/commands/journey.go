package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/geo"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/runner/journeys"
)

func addJourney(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "journey",
		Aliases: []string{"journeys", "j"},
		Short:   "Record journeys: a route, snapshots along the way and a recap",
		Example: `
journal journey start Morning walk
journal journey snap --rating 8 Fog over the river
journal journey end
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addJourneyStart(cmd)
	addJourneyPoint(cmd)
	addJourneySnap(cmd)
	addJourneyEnd(cmd)
	addJourneyRemove(cmd)
	addJourneyList(cmd)
	addJourneyShow(cmd)
	addJourneyTrack(cmd)
	addJourneyExport(cmd)
	addJourneyImport(cmd)

	topLevel.AddCommand(cmd)
}

// atFlag parses an optional --at "lat,lon".
func atFlag(at string) (*journal.Coordinates, error) {
	if strings.TrimSpace(at) == "" {
		return nil, nil
	}
	c, err := geo.ParseCoordinates(at)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func addJourneyStart(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "start <theme>",
		Short: "Start a journey; only one can be active",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a theme")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				s := journeys.Start{App: rt.App, Theme: strings.Join(args, " "), JSON: output.JSON}
				return s.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addJourneyPoint(topLevel *cobra.Command) {
	var at string

	cmd := &cobra.Command{
		Use:   "point",
		Short: "Append the current position to the active journey's route",
		Example: `
journal journey point --at 38.7223,-9.1393
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := atFlag(at)
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				p := journeys.Point{App: rt.App, Coordinates: c, Locator: rt.Locator}
				return p.Do(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "",
		options.Wrap80(`Position as "lat,lon". Defaults to location.static or location.replay.`))
	topLevel.AddCommand(cmd)
}

func addJourneySnap(topLevel *cobra.Command) {
	var (
		at     string
		rating int
	)
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "snap [note]",
		Short: "Take a snapshot: where you are, how you feel and a note",
		Example: `
journal journey snap --rating 7 Crossed the bridge
journal journey snap --at 41.1579,-8.6291
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := content(i, args)
			if err != nil {
				return err
			}
			c, err := atFlag(at)
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				s := journeys.Snap{
					App:         rt.App,
					Note:        note,
					MoodRating:  rating,
					Coordinates: c,
					Locator:     rt.Locator,
					Geocoder:    rt.Geocoder,
					JSON:        output.JSON,
				}
				return s.Do(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", `Position as "lat,lon".`)
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "Mood from 1 to 10; 0 leaves it out.")
	options.InteractiveArgs(cmd, i)
	topLevel.AddCommand(cmd)
}

func addJourneyEnd(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "end",
		Short: "End the active journey and print its recap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				e := journeys.End{App: rt.App, Recap: rt.Recap, JSON: output.JSON}
				return e.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addJourneyRemove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:               "rm <id>",
		Aliases:           []string{"delete"},
		Short:             "Delete a journey",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: idCompletions(kindJourney),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				r := journeys.Remove{App: rt.App, ID: args[0]}
				return r.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addJourneyList(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "ls [search]",
		Aliases: []string{"list"},
		Short:   "List journeys, the active one first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				l := journeys.List{
					App:    rt.App,
					Query:  strings.Join(args, " "),
					ShowID: io.ShowID,
					JSON:   output.JSON,
				}
				return l.Do(cmd.Context())
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}

func addJourneyShow(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:               "show [id]",
		Short:             "Show a journey; without an id, the active one",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: idCompletions(kindJourney),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				s := journeys.Show{App: rt.App, ID: id, JSON: output.JSON}
				return s.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addJourneyTrack(topLevel *cobra.Command) {
	var (
		minDistance float64
		end         bool
	)

	cmd := &cobra.Command{
		Use:   "track [theme]",
		Short: "Follow the position source and record the route until interrupted",
		Long: options.Wrap80(`Track records a route point whenever the position moves more than
--min-distance meters. Positions come from location.replay (a .gpx or .fit
file) or location.static in the config. A theme starts a new journey;
without one the active journey is continued. Stop with Ctrl-C.`),
		Example: `
JOURNAL_LOCATION_REPLAY=ride.fit journal journey track --end Sunday ride
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withRuntime(ctx, func(rt *runtime) error {
				t := journeys.Track{
					App:         rt.App,
					Theme:       strings.Join(args, " "),
					Locator:     rt.Locator,
					Geocoder:    rt.Geocoder,
					MinDistance: minDistance,
					End:         end,
					Recap:       rt.Recap,
				}
				return t.Do(ctx)
			})
		},
	}

	cmd.Flags().Float64Var(&minDistance, "min-distance", 50, "Meters to move before a point is recorded.")
	cmd.Flags().BoolVar(&end, "end", false, "End the journey with a recap when tracking stops.")
	topLevel.AddCommand(cmd)
}

func addJourneyExport(topLevel *cobra.Command) {
	var out string

	cmd := &cobra.Command{
		Use:               "export <id>",
		Short:             "Write a journey as GPX",
		Example:           "\njournal journey export 5d0c -o walk.gpx\n",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: idCompletions(kindJourney),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				w := cmd.OutOrStdout()
				if out != "" && out != "-" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				e := journeys.Export{App: rt.App, ID: args[0], W: w}
				if err := e.Do(cmd.Context()); err != nil {
					return err
				}
				if out != "" && out != "-" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "-", "File to write, - for stdout.")
	topLevel.AddCommand(cmd)
}

func addJourneyImport(topLevel *cobra.Command) {
	var theme string

	cmd := &cobra.Command{
		Use:   "import <file.gpx|file.fit>",
		Short: "Import a recorded track as a finished journey",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				i := journeys.Import{
					App:   rt.App,
					Path:  args[0],
					Theme: theme,
					Recap: rt.Recap,
					JSON:  output.JSON,
				}
				return i.Do(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "Theme of the journey. Defaults to the track name.")
	topLevel.AddCommand(cmd)
}
