package options

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/timeutil"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// OnOptions selects a calendar day.
type OnOptions struct {
	OnString string
	// Now defaults to time.Now.
	Now func() time.Time
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions, usage string) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		Wrap80(usage+` Example: --on="2020-2-28", --on="2/28" or --on=yesterday.`))
}

func (o *OnOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// GetOn returns the selected day, or "" when the flag was not set.
func (o *OnOptions) GetOn() (timeutil.Day, error) {
	now := o.now()
	switch strings.ToLower(strings.TrimSpace(o.OnString)) {
	case "":
		return "", nil
	case "today":
		return timeutil.DayOf(now), nil
	case "yesterday":
		return timeutil.DayOf(now.AddDate(0, 0, -1)), nil
	}
	t, err := time.ParseInLocation(layoutISO, o.OnString, now.Location())
	if err != nil {
		// Let the year be the same.
		t, err = time.ParseInLocation(layoutISOShort, o.OnString, now.Location())
		if err != nil {
			return "", err
		}
		t = t.AddDate(now.Year(), 0, 0)
		// Journals look back: 12/30 said on 1/3 means last December.
		if t.After(now) {
			t = t.AddDate(-1, 0, 0)
		}
	}
	return timeutil.DayOf(t), nil
}
