package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/store"
	"tableflip.dev/journal/pkg/timeutil"
)

type memoryPersistence struct {
	mu      sync.Mutex
	records map[string][]byte
	saves   int
	failErr error
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{records: make(map[string][]byte)}
}

func (m *memoryPersistence) Load(_ context.Context, key string) (*journal.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.records[key]
	if !ok {
		return journal.DefaultState(), nil
	}
	return store.Decode(data)
}

func (m *memoryPersistence) Save(_ context.Context, key string, st *journal.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	data, err := store.Encode(st)
	if err != nil {
		return err
	}
	m.records[key] = data
	m.saves++
	return nil
}

func (m *memoryPersistence) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

func (m *memoryPersistence) Keys(context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return nil, store.ErrWatchUnsupported
}

func (m *memoryPersistence) Close() error { return nil }

func (m *memoryPersistence) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// clock is a settable fake for Service.Now.
type clock struct {
	t time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, time.March, 1, 9, 0, 0, 0, time.Local)}
}

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }
func (c *clock) AdvanceDays(n int)       { c.t = c.t.AddDate(0, 0, n) }
func (c *clock) Day() timeutil.Day       { return timeutil.DayOf(c.t) }

func newTestService() (*Service, *memoryPersistence, *clock) {
	mp := newMemoryPersistence()
	clk := newClock()
	n := 0
	svc := &Service{
		Persistence: mp,
		Now:         clk.Now,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
	return svc, mp, clk
}

func TestServiceRequiresPersistence(t *testing.T) {
	svc := &Service{}
	if _, err := svc.AddEntry(context.Background(), journal.EntryDraft{Content: "x"}); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("expected ErrNoPersistence, got %v", err)
	}
}

func TestAddEntryPrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	svc, mp, clk := newTestService()

	first, err := svc.AddEntry(ctx, journal.EntryDraft{Content: "first", Mood: journal.MoodHappy})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	clk.Advance(time.Minute)
	if _, err := svc.AddEntry(ctx, journal.EntryDraft{Content: ""}); err != nil {
		t.Fatalf("add empty content: %v", err)
	}

	entries, err := svc.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 2 || entries[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", entries)
	}
	if !first.CreatedAt.Equal(newClock().t) {
		t.Fatalf("unexpected createdAt %v", first.CreatedAt)
	}
	if mp.saveCount() != 2 {
		t.Fatalf("expected 2 saves, got %d", mp.saveCount())
	}

	reloaded := &Service{Persistence: mp}
	got, err := reloaded.Entries(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got) != 2 || got[1].Content != "first" {
		t.Fatalf("entries not persisted: %+v", got)
	}
}

func TestUpdateEntryUnknownIDStillSaves(t *testing.T) {
	ctx := context.Background()
	svc, mp, _ := newTestService()
	content := "changed"
	out, err := svc.UpdateEntry(ctx, "missing", journal.EntryPatch{Content: &content})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil entry, got %+v", out)
	}
	if mp.saveCount() != 1 {
		t.Fatalf("expected a save, got %d", mp.saveCount())
	}
}

func TestUpdateEntrySetsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	svc, _, clk := newTestService()
	e, _ := svc.AddEntry(ctx, journal.EntryDraft{Content: "a"})
	clk.Advance(time.Hour)
	title := "Title"
	out, err := svc.UpdateEntry(ctx, e.ID, journal.EntryPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.Title != "Title" || out.UpdatedAt == nil || !out.UpdatedAt.Equal(clk.Now()) {
		t.Fatalf("unexpected entry %+v", out)
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	var ids []string
	for i := 0; i < 4; i++ {
		e, _ := svc.AddEntry(ctx, journal.EntryDraft{Content: fmt.Sprint(i)})
		g, _ := svc.AddGoal(ctx, journal.GoalSeed{Title: fmt.Sprint(i), TargetDays: 3})
		ids = append(ids, e.ID, g.ID)
	}
	if err := svc.DeleteEntry(ctx, ids[2]); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	if err := svc.DeleteGoal(ctx, ids[3]); err != nil {
		t.Fatalf("delete goal: %v", err)
	}
	if err := svc.DeleteEntry(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}

	entries, _ := svc.Entries(ctx)
	goals, _ := svc.Goals(ctx)
	if len(entries) != 3 || len(goals) != 3 {
		t.Fatalf("expected 3 entries and 3 goals, got %d and %d", len(entries), len(goals))
	}
	for _, e := range entries {
		if e.ID == ids[2] {
			t.Fatal("deleted entry still present")
		}
	}
	for _, g := range goals {
		if g.ID == ids[3] {
			t.Fatal("deleted goal still present")
		}
	}
}

func TestToggleFavoriteAndFilters(t *testing.T) {
	ctx := context.Background()
	svc, _, clk := newTestService()
	a, _ := svc.AddEntry(ctx, journal.EntryDraft{Content: "Walk by the river", Tags: []string{"outdoors", "calm"}})
	clk.AdvanceDays(1)
	b, _ := svc.AddEntry(ctx, journal.EntryDraft{Title: "Work", Content: "long day", Tags: []string{"work"}})

	if e, err := svc.ToggleFavorite(ctx, a.ID); err != nil || !e.Favorite {
		t.Fatalf("toggle: %+v %v", e, err)
	}

	got, _ := svc.FilterEntries(ctx, "RIVER")
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("query filter: %+v", got)
	}
	got, _ = svc.FilterEntries(ctx, "")
	if len(got) != 2 || got[0].ID != b.ID {
		t.Fatalf("empty query should return all in order: %+v", got)
	}

	svc.SetSelectedTags([]string{"work"})
	got, _ = svc.FilteredEntries(ctx)
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("tag filter: %+v", got)
	}
	svc.SetSelectedTags(nil)
	svc.SetFavoritesOnly(true)
	got, _ = svc.FilteredEntries(ctx)
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("favorites filter: %+v", got)
	}
	svc.SetFavoritesOnly(false)
	svc.SetSelectedDate(clk.Day())
	got, _ = svc.FilteredEntries(ctx)
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("date filter: %+v", got)
	}

	tags, _ := svc.AllTags(ctx)
	if !reflect.DeepEqual(tags, []string{"work", "outdoors", "calm"}) {
		t.Fatalf("unexpected tags %v", tags)
	}
}

func TestMoodForUsesLatestEntry(t *testing.T) {
	ctx := context.Background()
	svc, _, clk := newTestService()
	svc.AddEntry(ctx, journal.EntryDraft{Mood: journal.MoodSad})
	clk.Advance(time.Hour)
	svc.AddEntry(ctx, journal.EntryDraft{Mood: journal.MoodAmazing})

	mood, ok, err := svc.MoodFor(ctx, clk.Day())
	if err != nil || !ok || mood != journal.MoodAmazing {
		t.Fatalf("got %v %v %v", mood, ok, err)
	}
	if _, ok, _ := svc.MoodFor(ctx, clk.Day().AddDays(1)); ok {
		t.Fatal("no entries tomorrow")
	}
}

func TestGoalCheckInScenario(t *testing.T) {
	ctx := context.Background()
	svc, mp, clk := newTestService()
	g, err := svc.AddGoal(ctx, journal.GoalSeed{Title: "Meditate", TargetDays: 3, IsActive: true})
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}

	g, changed, err := svc.CheckIn(ctx, g.ID)
	if err != nil || !changed || g.CompletedDays != 1 || g.CurrentStreak != 1 {
		t.Fatalf("day 1: %+v changed=%v err=%v", g, changed, err)
	}
	saves := mp.saveCount()
	if _, changed, _ := svc.CheckIn(ctx, g.ID); changed {
		t.Fatal("second check-in on day 1 should be a no-op")
	}
	if mp.saveCount() != saves {
		t.Fatal("no-op check-in should not save")
	}

	clk.AdvanceDays(1)
	g, _, _ = svc.CheckIn(ctx, g.ID)
	if g.CompletedDays != 2 || g.CurrentStreak != 2 {
		t.Fatalf("day 2: %+v", g)
	}

	clk.AdvanceDays(2)
	g, _, _ = svc.CheckIn(ctx, g.ID)
	if g.CompletedDays != 3 || g.CurrentStreak != 1 || g.LongestStreak != 2 {
		t.Fatalf("day 4: completed=%d streak=%d longest=%d", g.CompletedDays, g.CurrentStreak, g.LongestStreak)
	}

	groups, err := svc.GoalsByStatus(ctx)
	if err != nil || len(groups.Completed) != 1 {
		t.Fatalf("expected goal completed: %+v %v", groups, err)
	}

	if g, changed, err := svc.CheckIn(ctx, "missing"); g != nil || changed || err != nil {
		t.Fatalf("unknown goal should be a silent no-op: %v %v %v", g, changed, err)
	}
}

func TestPauseResumeGoal(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	g, _ := svc.AddGoal(ctx, journal.GoalSeed{Title: "Run", Description: "5k loop", TargetDays: 10, IsActive: true})
	if g, _ := svc.PauseGoal(ctx, g.ID); g.IsActive {
		t.Fatal("expected paused")
	}
	groups, _ := svc.GoalsByStatus(ctx)
	if len(groups.Paused) != 1 || len(groups.Active) != 0 {
		t.Fatalf("unexpected groups %+v", groups)
	}
	if g, _ := svc.ResumeGoal(ctx, g.ID); !g.IsActive {
		t.Fatal("expected resumed")
	}
	svc.SetGoalSearchQuery("5K")
	if goals, _ := svc.FilteredGoals(ctx); len(goals) != 1 {
		t.Fatalf("description should match, got %d", len(goals))
	}
	svc.SetGoalSearchQuery("swim")
	if goals, _ := svc.FilteredGoals(ctx); len(goals) != 0 {
		t.Fatalf("expected no match, got %d", len(goals))
	}
}

func TestJourneyScenario(t *testing.T) {
	ctx := context.Background()
	svc, mp, clk := newTestService()

	j, err := svc.StartJourney(ctx, "  Morning Walk ")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if j.Theme != "Morning Walk" || !j.IsActive {
		t.Fatalf("unexpected journey %+v", j)
	}
	clk.Advance(time.Minute)
	if err := svc.AddRoutePoint(ctx, journal.Coordinates{Latitude: 51.50, Longitude: -0.12}); err != nil {
		t.Fatalf("point 1: %v", err)
	}
	clk.Advance(time.Minute)
	if err := svc.AddRoutePoint(ctx, journal.Coordinates{Latitude: 51.51, Longitude: -0.13}); err != nil {
		t.Fatalf("point 2: %v", err)
	}
	rating := 8
	if _, err := svc.AddSnapshot(ctx, journal.SnapshotDraft{Note: "nice view", MoodRating: &rating}); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	summary := &journal.Summary{
		Physicality:         "Started: A\nEnded: B\nDuration: 2m",
		Memory:              "nice view",
		ReflectiveQuestions: []string{"What did you notice?"},
		Narrative:           "A short walk",
	}
	clk.Advance(time.Minute)
	ended, err := svc.EndJourney(ctx, summary)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.IsActive || len(ended.Route) != 2 || len(ended.Snapshots) != 1 {
		t.Fatalf("unexpected ended journey %+v", ended)
	}
	if !reflect.DeepEqual(ended.Summary, summary) {
		t.Fatalf("summary mismatch: %+v", ended.Summary)
	}
	if ended.EndTime == nil || !ended.EndTime.Equal(clk.Now()) {
		t.Fatalf("unexpected end time %v", ended.EndTime)
	}

	st, _ := mp.Load(ctx, store.KeyFor(""))
	if st.ActiveJourneyID != nil {
		t.Fatal("active pointer should be cleared in the saved record")
	}
	if active, _ := svc.ActiveJourney(ctx); active != nil {
		t.Fatal("no journey should be active")
	}
	if err := svc.AddRoutePoint(ctx, journal.Coordinates{}); !errors.Is(err, ErrNoActiveJourney) {
		t.Fatalf("expected ErrNoActiveJourney, got %v", err)
	}
}

func TestStartJourneyWhileActiveIsRejected(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	first, err := svc.StartJourney(ctx, "One")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.StartJourney(ctx, "Two"); !errors.Is(err, ErrJourneyActive) {
		t.Fatalf("expected ErrJourneyActive, got %v", err)
	}
	if _, err := svc.StartJourney(ctx, "   "); !errors.Is(err, ErrThemeRequired) {
		t.Fatalf("expected ErrThemeRequired, got %v", err)
	}
	all, _ := svc.Journeys(ctx)
	if len(all) != 1 {
		t.Fatalf("expected one journey, got %d", len(all))
	}
	active, _ := svc.ActiveJourney(ctx)
	if active == nil || active.ID != first.ID {
		t.Fatalf("first journey should stay active, got %+v", active)
	}
}

func TestDeleteActiveJourneyClearsPointer(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	j, _ := svc.StartJourney(ctx, "Walk")
	if err := svc.DeleteJourney(ctx, j.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	st, _ := svc.Snapshot(ctx)
	if st.ActiveJourneyID != nil || len(st.Journeys) != 0 {
		t.Fatalf("unexpected state %+v", st)
	}
	if _, err := svc.StartJourney(ctx, "Again"); err != nil {
		t.Fatalf("start after delete: %v", err)
	}
}

func TestFilteredJourneysSkipsActive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	svc.StartJourney(ctx, "Harbour loop")
	svc.EndJourney(ctx, &journal.Summary{Narrative: "gulls"})
	svc.StartJourney(ctx, "Harbour again")

	svc.SetJourneySearchQuery("harbour")
	got, _ := svc.FilteredJourneys(ctx)
	if len(got) != 1 || got[0].Theme != "Harbour loop" {
		t.Fatalf("unexpected journeys %+v", got)
	}
	svc.SetJourneySearchQuery("GULLS")
	if got, _ := svc.FilteredJourneys(ctx); len(got) != 1 {
		t.Fatalf("narrative should match, got %d", len(got))
	}
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	svc, mp, _ := newTestService()
	mp.failErr = errors.New("disk full")

	e, err := svc.AddEntry(ctx, journal.EntryDraft{Content: "kept"})
	if err == nil || !errors.Is(err, mp.failErr) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
	if e == nil {
		t.Fatal("entry should still be returned")
	}
	entries, _ := svc.Entries(ctx)
	if len(entries) != 1 {
		t.Fatalf("in-memory state should keep the entry, got %d", len(entries))
	}
}

func TestSwitchUserAndClear(t *testing.T) {
	ctx := context.Background()
	svc, mp, _ := newTestService()
	svc.AddEntry(ctx, journal.EntryDraft{Content: "anonymous"})

	if err := svc.SwitchUser(ctx, "u1", "Ada"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if svc.Key() != "journal_app_data_u1" {
		t.Fatalf("unexpected key %s", svc.Key())
	}
	if entries, _ := svc.Entries(ctx); len(entries) != 0 {
		t.Fatalf("new user should start empty, got %d", len(entries))
	}
	settings, _ := svc.Settings(ctx)
	if settings.UserName != "Ada" {
		t.Fatalf("display name not synced: %+v", settings)
	}
	svc.AddEntry(ctx, journal.EntryDraft{Content: "ada's"})

	svc.Clear()
	if entries, _ := svc.Entries(ctx); len(entries) != 0 {
		t.Fatalf("clear should empty memory, got %d", len(entries))
	}
	if !reflect.DeepEqual(mp.Keys(ctx), []string{"journal_app_data", "journal_app_data_u1"}) {
		t.Fatalf("records should survive clear: %v", mp.Keys(ctx))
	}

	if err := svc.SwitchUser(ctx, "u1", ""); err != nil {
		t.Fatalf("switch back: %v", err)
	}
	if entries, _ := svc.Entries(ctx); len(entries) != 1 || entries[0].Content != "ada's" {
		t.Fatalf("user record not restored: %+v", entries)
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	dark, err := svc.ToggleTheme(ctx)
	if err != nil || dark {
		t.Fatalf("expected light mode after toggle, got %v %v", dark, err)
	}
	if err := svc.SetUserName(ctx, "  "); err != nil {
		t.Fatalf("set name: %v", err)
	}
	s, _ := svc.Settings(ctx)
	if s.UserName != journal.DefaultUserName || s.IsDarkMode {
		t.Fatalf("unexpected settings %+v", s)
	}
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	svc, mp, _ := newTestService()
	svc.AddEntry(ctx, journal.EntryDraft{Content: "mine"})

	other := &Service{Persistence: mp}
	other.AddEntry(ctx, journal.EntryDraft{Content: "theirs"})

	if changed, _ := svc.Reload(ctx, store.Event{Key: "journal_app_data_x"}); changed {
		t.Fatal("events for other keys should be ignored")
	}
	changed, err := svc.Reload(ctx, store.Event{Key: store.KeyFor("")})
	if err != nil || !changed {
		t.Fatalf("reload: %v %v", changed, err)
	}
	if entries, _ := svc.Entries(ctx); len(entries) != 2 {
		t.Fatalf("expected 2 entries after reload, got %d", len(entries))
	}
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	svc, _, clk := newTestService()
	start := clk.Now()
	svc.AddEntry(ctx, journal.EntryDraft{Content: "d1", Mood: journal.MoodHappy})
	g, _ := svc.AddGoal(ctx, journal.GoalSeed{Title: "Read", TargetDays: 5, IsActive: true})
	svc.CheckIn(ctx, g.ID)
	clk.AdvanceDays(1)
	svc.AddEntry(ctx, journal.EntryDraft{Content: "d2", Mood: journal.MoodSad})
	svc.AddEntry(ctx, journal.EntryDraft{Content: "d2b", Mood: journal.MoodHappy})
	clk.AdvanceDays(10)
	svc.AddEntry(ctx, journal.EntryDraft{Content: "later"})

	res, err := svc.Report(ctx, start.AddDate(0, 0, 1), start)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if res.Total != 3 || len(res.Sections) != 2 {
		t.Fatalf("unexpected report %+v", res)
	}
	if res.Sections[0].Day != timeutil.DayOf(start).AddDays(1) {
		t.Fatalf("newest day should come first, got %s", res.Sections[0].Day)
	}
	if res.Moods[journal.MoodHappy] != 2 || len(res.CheckIns) != 1 {
		t.Fatalf("unexpected moods/check-ins %+v %+v", res.Moods, res.CheckIns)
	}
}
