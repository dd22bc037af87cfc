package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/printers"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generates shell completion scripts",
		Long: `To load completion run

. <(journal completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(journal completion)
`,
		ValidArgs: []string{"bash", "zsh", "fish"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := "bash"
			if len(args) == 1 {
				shell = args[0]
			}
			switch shell {
			case "zsh":
				return topLevel.GenZshCompletion(os.Stdout)
			case "fish":
				return topLevel.GenFishCompletion(os.Stdout, true)
			default:
				return topLevel.GenBashCompletion(os.Stdout)
			}
		},
	}

	topLevel.AddCommand(cmd)
}

const (
	kindEntry   = app.KindEntry
	kindGoal    = app.KindGoal
	kindJourney = app.KindJourney
)

// idCompletions offers the short ids of one kind, described by their title.
func idCompletions(kind app.Kind) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		rt, err := setup(ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer rt.Close()

		var out []string
		add := func(id, title string) {
			short := printers.ShortID(id)
			if strings.HasPrefix(short, toComplete) {
				out = append(out, fmt.Sprintf("%s\t%s", short, title))
			}
		}
		switch kind {
		case app.KindEntry:
			entries, _ := rt.App.Entries(ctx)
			for _, e := range entries {
				add(e.ID, printers.Headline(e))
			}
		case app.KindGoal:
			goals, _ := rt.App.Goals(ctx)
			for _, g := range goals {
				add(g.ID, g.Title)
			}
		case app.KindJourney:
			journeys, _ := rt.App.Journeys(ctx)
			for _, j := range journeys {
				add(j.ID, j.Theme)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

func tagCompletions(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := setup(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer rt.Close()
	tags, _ := rt.App.AllTags(ctx)
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if strings.HasPrefix(t, toComplete) {
			out = append(out, t)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func moodCompletions(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, 0, len(journal.Moods()))
	for _, m := range journal.Moods() {
		out = append(out, fmt.Sprintf("%s\t%s", m, m.Emoji()))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func soundCompletions(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, 0, len(journal.AlarmSounds()))
	for _, s := range journal.AlarmSounds() {
		out = append(out, string(s))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
