package commands

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/runner/entries"
)

func addEntry(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "entry",
		Aliases: []string{"entries", "e"},
		Short:   "Write, find and edit journal entries",
		Example: `
journal entry add --mood happy --tag family Lunch at grandma's
journal entry ls --on yesterday
journal entry fav 3f2a
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addEntryAdd(cmd)
	addEntryEdit(cmd)
	addEntryRemove(cmd)
	addEntryFavorite(cmd)
	addEntryList(cmd)
	addEntryShow(cmd)
	addEntryTags(cmd)
	addEntryStats(cmd)

	topLevel.AddCommand(cmd)
}

// content joins args, or reads stdin in interactive mode.
func content(i *options.InteractiveOptions, args []string) (string, error) {
	if i.Interactive {
		return i.ReadAll(os.Stdin)
	}
	return strings.TrimSpace(strings.Join(args, " ")), nil
}

func pickMood() (string, error) {
	moods := journal.Moods()
	choices := make([]options.Choice, 0, len(moods))
	for _, m := range moods {
		choices = append(choices, options.Choice{Label: m.Emoji() + " " + string(m)})
	}
	i, err := options.Pick("How are you feeling", choices)
	if err != nil {
		return "", err
	}
	return string(moods[i]), nil
}

func addEntryAdd(topLevel *cobra.Command) {
	eo := &options.EntryOptions{}
	i := &options.InteractiveOptions{}
	var here bool

	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Write a new entry",
		Example: `
journal entry add --mood amazing Finished the marathon!
journal entry add -i --title "Long day" < notes.md
journal entry add --here Coffee on the square
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := content(i, args)
			if err != nil {
				return err
			}
			if text == "" {
				return errors.New("requires some content")
			}
			if !cmd.Flags().Changed("mood") && !i.Interactive && options.CanPrompt() {
				if eo.Mood, err = pickMood(); err != nil {
					return err
				}
			}
			draft, err := eo.Draft(text)
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				a := entries.Add{
					App:      rt.App,
					Draft:    draft,
					Here:     here,
					Locator:  rt.Locator,
					Geocoder: rt.Geocoder,
					Weather:  rt.Weather,
					JSON:     output.JSON,
				}
				return a.Do(cmd.Context())
			})
		},
	}

	options.AddEntryArgs(cmd, eo)
	options.InteractiveArgs(cmd, i)
	cmd.Flags().BoolVar(&here, "here", false,
		options.Wrap80("Stamp the entry with the current location and weather, unless --location or --weather are given."))
	_ = cmd.RegisterFlagCompletionFunc("mood", moodCompletions)
	_ = cmd.RegisterFlagCompletionFunc("tag", tagCompletions)

	topLevel.AddCommand(cmd)
}

func addEntryEdit(topLevel *cobra.Command) {
	eo := &options.EntryOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id> [content]",
		Short: "Change an entry; only the given flags are updated",
		Example: `
journal entry edit 3f2a --mood sad
journal entry edit 3f2a --tag= Rewritten text
`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: idCompletions(kindEntry),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := content(i, args[1:])
			if err != nil {
				return err
			}
			patch, err := eo.Patch(cmd, text)
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				e := entries.Edit{App: rt.App, ID: args[0], Patch: patch, JSON: output.JSON}
				return e.Do(cmd.Context())
			})
		},
	}

	options.AddEntryArgs(cmd, eo)
	options.InteractiveArgs(cmd, i)
	_ = cmd.RegisterFlagCompletionFunc("mood", moodCompletions)
	_ = cmd.RegisterFlagCompletionFunc("tag", tagCompletions)

	topLevel.AddCommand(cmd)
}

func addEntryRemove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:               "rm <id>",
		Aliases:           []string{"delete"},
		Short:             "Delete an entry",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: idCompletions(kindEntry),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				r := entries.Remove{App: rt.App, ID: args[0]}
				return r.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addEntryFavorite(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:               "fav <id>",
		Aliases:           []string{"favorite"},
		Short:             "Toggle the favorite flag of an entry",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: idCompletions(kindEntry),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				f := entries.Favorite{App: rt.App, ID: args[0], JSON: output.JSON}
				return f.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addEntryList(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	on := &options.OnOptions{}
	var (
		tags      []string
		favorites bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:     "ls [search]",
		Aliases: []string{"list"},
		Short:   "List entries, newest first",
		Example: `
journal entry ls
journal entry ls river --tag outdoors
journal entry ls --favorites --on 3/14
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := on.GetOn()
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				l := entries.List{
					App:       rt.App,
					Query:     strings.Join(args, " "),
					Tags:      tags,
					Favorites: favorites,
					On:        day,
					Limit:     limit,
					ShowID:    io.ShowID,
					JSON:      output.JSON,
				}
				return l.Do(cmd.Context())
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOnArgs(cmd, on, "Only entries written on this day.")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Only entries with any of these tags.")
	cmd.Flags().BoolVarP(&favorites, "favorites", "f", false, "Only favorites.")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many entries.")
	_ = cmd.RegisterFlagCompletionFunc("tag", tagCompletions)

	topLevel.AddCommand(cmd)
}

func addEntryShow(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:               "show <id>",
		Short:             "Show one entry in full",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: idCompletions(kindEntry),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				s := entries.Show{App: rt.App, ID: args[0], JSON: output.JSON}
				return s.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addEntryTags(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				t := entries.Tags{App: rt.App, JSON: output.JSON}
				return t.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addEntryStats(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count entries by mood",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				s := entries.Stats{App: rt.App, JSON: output.JSON}
				return s.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}
