package journal

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/journal/pkg/timeutil"
)

// AlarmSound selects the sound of a goal reminder.
type AlarmSound string

const (
	SoundDefault AlarmSound = "default"
	SoundBell    AlarmSound = "bell"
	SoundChime   AlarmSound = "chime"
	SoundGentle  AlarmSound = "gentle"
	SoundUrgent  AlarmSound = "urgent"
)

// AlarmSounds lists the accepted reminder sounds.
func AlarmSounds() []AlarmSound {
	return []AlarmSound{SoundDefault, SoundBell, SoundChime, SoundGentle, SoundUrgent}
}

// ParseAlarmSound matches s case-insensitively; empty means default.
func ParseAlarmSound(s string) (AlarmSound, error) {
	want := AlarmSound(strings.ToLower(strings.TrimSpace(s)))
	if want == "" {
		return SoundDefault, nil
	}
	for _, a := range AlarmSounds() {
		if a == want {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown alarm sound %q", s)
}

// DefaultReminderTime is used when a goal is created without one.
const DefaultReminderTime = "09:00"

// DefaultTargetDays is the target offered when none is given.
const DefaultTargetDays = 30

// ParseReminderTime validates an HH:MM time of day.
func ParseReminderTime(s string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid reminder time %q, want HH:MM", s)
	}
	return t.Format("15:04"), nil
}

// Reminder is the reminder configuration of a goal.
type Reminder struct {
	Enabled bool       `json:"reminderEnabled"`
	Time    string     `json:"reminderTime"`
	Sound   AlarmSound `json:"alarmSound"`
}

// Goal is a multi-day habit target tracked by daily check-ins.
type Goal struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	TargetDays    int       `json:"targetDays"`
	CompletedDays int       `json:"completedDays"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     Timestamp `json:"createdAt"`
	StartDate     Timestamp `json:"startDate"`
	EndDate       Timestamp `json:"endDate"`
	Reminder

	CheckInHistory []timeutil.Day `json:"checkInHistory"`
	CurrentStreak  int            `json:"currentStreak"`
	LongestStreak  int            `json:"longestStreak"`
	LastCheckIn    *timeutil.Day  `json:"lastCheckIn"`
}

// GoalSeed is what a caller supplies to create a goal.
type GoalSeed struct {
	Title       string
	Description string
	TargetDays  int
	IsActive    bool
	StartDate   *time.Time
	EndDate     *time.Time
	Reminder    *Reminder
}

// GoalPatch carries the fields of a partial update; nil means unchanged.
type GoalPatch struct {
	Title       *string
	Description *string
	TargetDays  *int
	IsActive    *bool
	StartDate   *time.Time
	EndDate     *time.Time
	Reminder    *Reminder
}

// Apply shallow-merges p into g. A lowered target clamps CompletedDays so
// the completed <= target invariant survives edits.
func (p GoalPatch) Apply(g *Goal) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.TargetDays != nil && *p.TargetDays >= 1 {
		g.TargetDays = *p.TargetDays
		if g.CompletedDays > g.TargetDays {
			g.CompletedDays = g.TargetDays
		}
	}
	if p.IsActive != nil {
		g.IsActive = *p.IsActive
	}
	if p.StartDate != nil {
		g.StartDate = At(*p.StartDate)
	}
	if p.EndDate != nil {
		g.EndDate = At(*p.EndDate)
	}
	if p.Reminder != nil {
		g.Reminder = *p.Reminder
	}
}

// NewGoal builds a goal from seed at now. Start defaults to now and end to
// start plus TargetDays days.
func NewGoal(id string, seed GoalSeed, now time.Time) *Goal {
	target := seed.TargetDays
	if target < 1 {
		target = 1
	}
	start := now
	if seed.StartDate != nil {
		start = *seed.StartDate
	}
	end := start.Add(time.Duration(target) * 24 * time.Hour)
	if seed.EndDate != nil {
		end = *seed.EndDate
	}
	reminder := Reminder{Time: DefaultReminderTime, Sound: SoundDefault}
	if seed.Reminder != nil {
		reminder.Enabled = seed.Reminder.Enabled
		if seed.Reminder.Time != "" {
			reminder.Time = seed.Reminder.Time
		}
		if seed.Reminder.Sound != "" {
			reminder.Sound = seed.Reminder.Sound
		}
	}
	return &Goal{
		ID:             id,
		Title:          seed.Title,
		Description:    seed.Description,
		TargetDays:     target,
		IsActive:       seed.IsActive,
		CreatedAt:      At(now),
		StartDate:      At(start),
		EndDate:        At(end),
		Reminder:       reminder,
		CheckInHistory: []timeutil.Day{},
	}
}

// CheckIn records a check-in for today and reports whether anything
// changed. A second check-in on the same day is a no-op. The streak
// continues only when today is exactly one calendar day after the last
// check-in; every other gap restarts it at 1.
func (g *Goal) CheckIn(today timeutil.Day) bool {
	if g.LastCheckIn != nil && *g.LastCheckIn == today {
		return false
	}

	streak := 1
	if g.LastCheckIn != nil && timeutil.DaysBetween(*g.LastCheckIn, today) == 1 {
		streak = g.CurrentStreak + 1
	}

	g.CurrentStreak = streak
	if streak > g.LongestStreak {
		g.LongestStreak = streak
	}
	g.CompletedDays++
	if g.CompletedDays > g.TargetDays {
		g.CompletedDays = g.TargetDays
	}
	g.CheckInHistory = append(g.CheckInHistory, today)
	last := today
	g.LastCheckIn = &last
	return true
}

// CheckedIn reports whether the goal already has a check-in on day.
func (g *Goal) CheckedIn(day timeutil.Day) bool {
	return g.LastCheckIn != nil && *g.LastCheckIn == day
}

// Completed reports whether every target day has been checked in.
func (g *Goal) Completed() bool {
	return g.CompletedDays >= g.TargetDays
}

// Progress is the completion percentage, capped at 100.
func (g *Goal) Progress() float64 {
	if g.TargetDays <= 0 {
		return 0
	}
	p := float64(g.CompletedDays) / float64(g.TargetDays) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// Matches reports whether the lowercased query is in the title or description.
func (g *Goal) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(g.Title), q) ||
		strings.Contains(strings.ToLower(g.Description), q)
}

// GoalStatus is the bucket a goal is listed under.
type GoalStatus string

const (
	GoalInProgress GoalStatus = "in-progress"
	GoalPaused     GoalStatus = "paused"
	GoalCompleted  GoalStatus = "completed"
)

// Status classifies g: completed wins over paused.
func (g *Goal) Status() GoalStatus {
	switch {
	case g.Completed():
		return GoalCompleted
	case g.IsActive:
		return GoalInProgress
	default:
		return GoalPaused
	}
}

// Clone returns a deep copy of g.
func (g *Goal) Clone() *Goal {
	if g == nil {
		return nil
	}
	cp := *g
	if g.CheckInHistory != nil {
		cp.CheckInHistory = append([]timeutil.Day{}, g.CheckInHistory...)
	}
	if g.LastCheckIn != nil {
		d := *g.LastCheckIn
		cp.LastCheckIn = &d
	}
	return &cp
}
