package options

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/journal/pkg/journal"
)

func entryCmd(t *testing.T, args ...string) (*cobra.Command, *EntryOptions) {
	t.Helper()
	o := &EntryOptions{}
	cmd := &cobra.Command{Use: "test"}
	AddEntryArgs(cmd, o)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, o
}

func goalCmd(t *testing.T, args ...string) (*cobra.Command, *GoalOptions) {
	t.Helper()
	o := &GoalOptions{}
	cmd := &cobra.Command{Use: "test"}
	AddGoalArgs(cmd, o)
	AddPausedArg(cmd, o)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, o
}

func TestEntryDraftDefaults(t *testing.T) {
	_, o := entryCmd(t)
	d, err := o.Draft("hello")
	require.NoError(t, err)
	assert.Equal(t, journal.MoodNeutral, d.Mood)
	assert.Equal(t, "hello", d.Content)
	assert.Empty(t, d.Date)
	assert.False(t, d.Favorite)
}

func TestEntryDraftFlags(t *testing.T) {
	_, o := entryCmd(t, "--mood", "happy", "-t", "Lunch", "--tag", "family,food", "--favorite", "--date", "2025-03-14T08:30:00Z")
	d, err := o.Draft("at grandma's")
	require.NoError(t, err)
	assert.Equal(t, journal.MoodHappy, d.Mood)
	assert.Equal(t, "Lunch", d.Title)
	assert.Equal(t, []string{"family", "food"}, d.Tags)
	assert.True(t, d.Favorite)
	assert.Equal(t, "2025-03-14T08:30:00Z", d.Date)
}

func TestEntryDraftBadMood(t *testing.T) {
	_, o := entryCmd(t, "--mood", "grumpy")
	_, err := o.Draft("x")
	assert.Error(t, err)
}

func TestNormalizeDate(t *testing.T) {
	got, err := normalizeDate("2025-03-14")
	require.NoError(t, err)
	ts, err := journal.ParseTime(got)
	require.NoError(t, err)
	local := ts.Local()
	assert.Equal(t, 14, local.Day())
	assert.Equal(t, time.March, local.Month())
	assert.Equal(t, 12, local.Hour())

	got, err = normalizeDate("  ")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = normalizeDate("last tuesday")
	assert.Error(t, err)
}

func TestEntryPatchOnlyChanged(t *testing.T) {
	cmd, o := entryCmd(t, "--mood", "sad", "--tag=")
	p, err := o.Patch(cmd, "")
	require.NoError(t, err)
	require.NotNil(t, p.Mood)
	assert.Equal(t, journal.MoodSad, *p.Mood)
	assert.True(t, p.SetTags)
	assert.Empty(t, p.Tags)
	assert.Nil(t, p.Content)
	assert.Nil(t, p.Title)
	assert.Nil(t, p.Favorite)
	assert.Nil(t, p.Date)
}

func TestEntryPatchStrings(t *testing.T) {
	cmd, o := entryCmd(t, "--title", "New", "--weather", "12°C")
	p, err := o.Patch(cmd, "rewritten")
	require.NoError(t, err)
	require.NotNil(t, p.Content)
	assert.Equal(t, "rewritten", *p.Content)
	require.NotNil(t, p.Title)
	assert.Equal(t, "New", *p.Title)
	require.NotNil(t, p.Weather)
	assert.Equal(t, "12°C", *p.Weather)
	assert.Nil(t, p.Location)
	assert.Nil(t, p.Photo)
	assert.False(t, p.SetTags)
}

func TestGoalSeed(t *testing.T) {
	_, o := goalCmd(t, "--days", "21", "--remind", "--remind-at", "7:30", "--sound", "chime", "--paused", "--start", "2025-03-01")
	s, err := o.Seed("Run")
	require.NoError(t, err)
	assert.Equal(t, "Run", s.Title)
	assert.Equal(t, 21, s.TargetDays)
	assert.False(t, s.IsActive)
	require.NotNil(t, s.StartDate)
	assert.Equal(t, 1, s.StartDate.Day())
	assert.Nil(t, s.EndDate)
	require.NotNil(t, s.Reminder)
	assert.Equal(t, journal.Reminder{Enabled: true, Time: "07:30", Sound: journal.SoundChime}, *s.Reminder)
}

func TestGoalSeedDefaults(t *testing.T) {
	_, o := goalCmd(t)
	s, err := o.Seed("Read")
	require.NoError(t, err)
	assert.Equal(t, journal.DefaultTargetDays, s.TargetDays)
	assert.True(t, s.IsActive)
	assert.Equal(t, journal.Reminder{Time: journal.DefaultReminderTime, Sound: journal.SoundDefault}, *s.Reminder)
}

func TestGoalSeedBadReminder(t *testing.T) {
	_, o := goalCmd(t, "--remind-at", "25:99")
	_, err := o.Seed("Read")
	assert.Error(t, err)

	_, o = goalCmd(t, "--sound", "klaxon")
	_, err = o.Seed("Read")
	assert.Error(t, err)
}

func TestGoalPatchMergesReminder(t *testing.T) {
	cur := journal.Reminder{Enabled: true, Time: "06:00", Sound: journal.SoundBell}

	cmd, o := goalCmd(t, "--sound", "gentle")
	p, err := o.Patch(cmd, "", cur)
	require.NoError(t, err)
	require.NotNil(t, p.Reminder)
	assert.Equal(t, journal.Reminder{Enabled: true, Time: "06:00", Sound: journal.SoundGentle}, *p.Reminder)
	assert.Nil(t, p.Title)
	assert.Nil(t, p.TargetDays)

	cmd, o = goalCmd(t, "--days", "10")
	p, err = o.Patch(cmd, "Walk", cur)
	require.NoError(t, err)
	assert.Nil(t, p.Reminder)
	require.NotNil(t, p.TargetDays)
	assert.Equal(t, 10, *p.TargetDays)
	require.NotNil(t, p.Title)
	assert.Equal(t, "Walk", *p.Title)
}
