package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/timeutil"
)

// GoalOptions are the flags of a goal.
type GoalOptions struct {
	Description string
	TargetDays  int
	Paused      bool
	Start       string
	End         string
	Reminder    bool
	At          string
	Sound       string
}

func AddGoalArgs(cmd *cobra.Command, o *GoalOptions) {
	cmd.Flags().StringVarP(&o.Description, "description", "d", "", "What the goal is about.")
	cmd.Flags().IntVar(&o.TargetDays, "days", journal.DefaultTargetDays, "Number of check-ins to complete the goal.")
	cmd.Flags().StringVar(&o.Start, "start", "", "First day, 2006-01-02. Defaults to today.")
	cmd.Flags().StringVar(&o.End, "end", "", "Last day, 2006-01-02. Defaults to start plus --days.")
	cmd.Flags().BoolVar(&o.Reminder, "remind", false, "Enable the daily reminder.")
	cmd.Flags().StringVar(&o.At, "remind-at", journal.DefaultReminderTime, "Reminder time of day, HH:MM.")
	cmd.Flags().StringVar(&o.Sound, "sound", string(journal.SoundDefault), "Reminder sound.")
}

func AddPausedArg(cmd *cobra.Command, o *GoalOptions) {
	cmd.Flags().BoolVar(&o.Paused, "paused", false, "Create the goal paused.")
}

func (o *GoalOptions) reminder() (*journal.Reminder, error) {
	at, err := journal.ParseReminderTime(o.At)
	if err != nil {
		return nil, err
	}
	sound, err := journal.ParseAlarmSound(o.Sound)
	if err != nil {
		return nil, err
	}
	return &journal.Reminder{Enabled: o.Reminder, Time: at, Sound: sound}, nil
}

func parseDayFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := timeutil.ParseDay(s)
	if err != nil {
		return nil, err
	}
	t := d.Time()
	local := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	return &local, nil
}

// Seed builds a new goal titled title.
func (o *GoalOptions) Seed(title string) (journal.GoalSeed, error) {
	seed := journal.GoalSeed{
		Title:       title,
		Description: o.Description,
		TargetDays:  o.TargetDays,
		IsActive:    !o.Paused,
	}
	var err error
	if seed.StartDate, err = parseDayFlag(o.Start); err != nil {
		return seed, err
	}
	if seed.EndDate, err = parseDayFlag(o.End); err != nil {
		return seed, err
	}
	if seed.Reminder, err = o.reminder(); err != nil {
		return seed, err
	}
	return seed, nil
}

// Patch builds an update from the flags that were set. The reminder is
// merged into cur since goals store it as one value.
func (o *GoalOptions) Patch(cmd *cobra.Command, title string, cur journal.Reminder) (journal.GoalPatch, error) {
	var p journal.GoalPatch
	changed := cmd.Flags().Changed
	if title != "" {
		p.Title = &title
	}
	if changed("description") {
		p.Description = &o.Description
	}
	if changed("days") {
		p.TargetDays = &o.TargetDays
	}
	var err error
	if changed("start") {
		if p.StartDate, err = parseDayFlag(o.Start); err != nil {
			return p, err
		}
	}
	if changed("end") {
		if p.EndDate, err = parseDayFlag(o.End); err != nil {
			return p, err
		}
	}
	if changed("remind") || changed("remind-at") || changed("sound") {
		r := cur
		if changed("remind") {
			r.Enabled = o.Reminder
		}
		if changed("remind-at") {
			if r.Time, err = journal.ParseReminderTime(o.At); err != nil {
				return p, err
			}
		}
		if changed("sound") {
			if r.Sound, err = journal.ParseAlarmSound(o.Sound); err != nil {
				return p, err
			}
		}
		p.Reminder = &r
	}
	return p, nil
}
