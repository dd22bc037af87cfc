package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/runner/goals"
)

func addGoal(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"goals", "g"},
		Short:   "Track habits with daily check-ins and streaks",
		Example: `
journal goal add --days 21 Meditate every morning
journal goal checkin 9c1e
journal goal ls
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addGoalAdd(cmd)
	addGoalEdit(cmd)
	addGoalActive(cmd, "pause", "Pause a goal", false)
	addGoalActive(cmd, "resume", "Resume a paused goal", true)
	addGoalRemove(cmd)
	addGoalCheckIn(cmd)
	addGoalList(cmd)
	addGoalShow(cmd)

	topLevel.AddCommand(cmd)
}

func addGoalAdd(topLevel *cobra.Command) {
	gol := &options.GoalOptions{}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a goal",
		Example: `
journal goal add --days 30 --remind --remind-at 07:30 Run
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := gol.Seed(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				a := goals.Add{App: rt.App, Seed: seed, JSON: output.JSON}
				return a.Do(cmd.Context())
			})
		},
	}

	options.AddGoalArgs(cmd, gol)
	options.AddPausedArg(cmd, gol)
	_ = cmd.RegisterFlagCompletionFunc("sound", soundCompletions)

	topLevel.AddCommand(cmd)
}

func addGoalEdit(topLevel *cobra.Command) {
	gol := &options.GoalOptions{}

	cmd := &cobra.Command{
		Use:               "edit <id> [title]",
		Short:             "Change a goal; only the given flags are updated",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: idCompletions(kindGoal),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				ctx := cmd.Context()
				id, err := rt.App.ResolveID(ctx, app.KindGoal, args[0])
				if err != nil {
					return err
				}
				cur, err := rt.App.Goal(ctx, id)
				if err != nil {
					return err
				}
				if cur == nil {
					return app.ErrNotFound
				}
				patch, err := gol.Patch(cmd, strings.Join(args[1:], " "), cur.Reminder)
				if err != nil {
					return err
				}
				e := goals.Edit{App: rt.App, ID: id, Patch: patch, JSON: output.JSON}
				return e.Do(ctx)
			})
		},
	}

	options.AddGoalArgs(cmd, gol)
	_ = cmd.RegisterFlagCompletionFunc("sound", soundCompletions)

	topLevel.AddCommand(cmd)
}

func addGoalActive(topLevel *cobra.Command, use, short string, active bool) {
	cmd := &cobra.Command{
		Use:               use + " <id>",
		Short:             short,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: idCompletions(kindGoal),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				s := goals.SetActive{App: rt.App, ID: args[0], Active: active, JSON: output.JSON}
				return s.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addGoalRemove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:               "rm <id>",
		Aliases:           []string{"delete"},
		Short:             "Delete a goal",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: idCompletions(kindGoal),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				r := goals.Remove{App: rt.App, ID: args[0]}
				return r.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addGoalCheckIn(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:               "checkin [id]",
		Aliases:           []string{"check-in", "ci"},
		Short:             "Check in to a goal for today; without an id, pick one",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: idCompletions(kindGoal),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				id := ""
				if len(args) == 1 {
					id = args[0]
				} else {
					var err error
					if id, err = pickGoal(cmd.Context(), rt.App); err != nil {
						return err
					}
				}
				c := goals.CheckIn{App: rt.App, ID: id, JSON: output.JSON}
				return c.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}

// pickGoal offers the goals still in progress.
func pickGoal(ctx context.Context, svc *app.Service) (string, error) {
	groups, err := svc.GoalsByStatus(ctx)
	if err != nil {
		return "", err
	}
	if len(groups.Active) == 0 {
		return "", errors.New("no goals in progress")
	}
	choices := make([]options.Choice, 0, len(groups.Active))
	for _, g := range groups.Active {
		choices = append(choices, options.Choice{
			Label:  g.Title,
			Detail: fmt.Sprintf("%d/%d, streak %d", g.CompletedDays, g.TargetDays, g.CurrentStreak),
		})
	}
	i, err := options.Pick("Check in to", choices)
	if err != nil {
		return "", err
	}
	return groups.Active[i].ID, nil
}

func addGoalList(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "ls [search]",
		Aliases: []string{"list"},
		Short:   "List goals by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				l := goals.List{
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

func addGoalShow(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:               "show <id>",
		Short:             "Show a goal with its check-in history",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: idCompletions(kindGoal),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				s := goals.Show{App: rt.App, ID: args[0], JSON: output.JSON}
				return s.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}
