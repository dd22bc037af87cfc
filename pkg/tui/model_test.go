package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/store"
)

var testNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *app.Service, string) {
	t.Helper()
	dir := t.TempDir()
	p, err := store.NewDiskv(dir)
	if err != nil {
		t.Fatalf("NewDiskv() = %v", err)
	}
	svc := &app.Service{Persistence: p, Now: func() time.Time { return testNow }}
	m := New(svc, nil)
	m.now = func() time.Time { return testNow }
	m.termWidth = 110
	m.termHeight = 32
	m.applySizes()
	return m, svc, dir
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func refresh(t *testing.T, m Model) Model {
	t.Helper()
	return update(t, m, m.load()())
}

func keyMsg(key string) tea.KeyPressMsg {
	switch key {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "ctrl+t":
		return tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl}
	}
	r := []rune(key)[0]
	return tea.KeyPressMsg{Text: key, Code: r}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = update(t, m, tea.KeyPressMsg{Text: string(r), Code: r})
	}
	return m
}

func TestAddEntryWithMood(t *testing.T) {
	ctx := context.Background()
	m, svc, _ := newTestModel(t)

	m = press(t, m, "a")
	if m.mode != modeAdd {
		t.Fatalf("mode = %v, want add", m.mode)
	}
	m = typeText(t, m, "Sunny walk by the river")
	m = press(t, m, "ctrl+t")
	if !strings.Contains(stripANSI(m.View()), "New entry "+journal.MoodNeutral.Emoji()) {
		t.Fatalf("expected the cycled mood in the prompt; view=%q", stripANSI(m.View()))
	}
	m = press(t, m, "enter")
	if m.mode != modeNormal || m.status != "entry added" {
		t.Fatalf("mode=%v status=%q err=%v", m.mode, m.status, m.err)
	}

	entries, err := svc.Entries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Mood != journal.MoodNeutral {
		t.Fatalf("entries = %+v", entries)
	}

	m = refresh(t, m)
	view := stripANSI(m.View())
	if !strings.Contains(view, "Sunny walk by the river") {
		t.Fatalf("expected the entry in the list; view=%q", view)
	}
}

func TestAddCancelled(t *testing.T) {
	m, svc, _ := newTestModel(t)
	m = press(t, m, "a")
	m = typeText(t, m, "never mind")
	m = press(t, m, "esc")
	if m.status != "add cancelled" {
		t.Fatalf("status = %q", m.status)
	}
	entries, _ := svc.Entries(context.Background())
	if len(entries) != 0 {
		t.Fatalf("len(entries) = %d, want 0", len(entries))
	}
}

func TestSearchFiltersLive(t *testing.T) {
	ctx := context.Background()
	m, svc, _ := newTestModel(t)
	for _, c := range []string{"Coffee with Ana", "Rainy river walk"} {
		if _, err := svc.AddEntry(ctx, journal.EntryDraft{Mood: journal.MoodHappy, Content: c}); err != nil {
			t.Fatal(err)
		}
	}
	m = refresh(t, m)
	if n := len(m.list.Items()); n != 2 {
		t.Fatalf("items = %d, want 2", n)
	}

	m = press(t, m, "/")
	m = typeText(t, m, "river")
	m = refresh(t, m)
	if n := len(m.list.Items()); n != 1 {
		t.Fatalf("items after search = %d, want 1", n)
	}
	view := stripANSI(m.View())
	if strings.Contains(view, "Coffee with Ana") || !strings.Contains(view, "Rainy river walk") {
		t.Fatalf("unexpected search result; view=%q", view)
	}

	m = press(t, m, "enter")
	if m.queries[tabEntries] != "river" {
		t.Fatalf("query = %q, want kept after enter", m.queries[tabEntries])
	}
	m = press(t, m, "/", "esc")
	m = refresh(t, m)
	if n := len(m.list.Items()); n != 2 {
		t.Fatalf("items after clearing = %d, want 2", n)
	}
}

func TestFavoriteAndFavoritesOnly(t *testing.T) {
	ctx := context.Background()
	m, svc, _ := newTestModel(t)
	for _, c := range []string{"first", "second"} {
		if _, err := svc.AddEntry(ctx, journal.EntryDraft{Mood: journal.MoodHappy, Content: c}); err != nil {
			t.Fatal(err)
		}
	}
	m = refresh(t, m)
	m = press(t, m, "f")
	if m.status != "favorite on" {
		t.Fatalf("status = %q err = %v", m.status, m.err)
	}
	m = press(t, m, "F")
	m = refresh(t, m)
	if n := len(m.list.Items()); n != 1 {
		t.Fatalf("favorites = %d, want 1", n)
	}
	if !strings.Contains(stripANSI(m.View()), "★") {
		t.Fatalf("expected the favorite marker")
	}
}

func TestGoalCheckInAndPause(t *testing.T) {
	ctx := context.Background()
	m, svc, _ := newTestModel(t)
	g, err := svc.AddGoal(ctx, journal.GoalSeed{Title: "Meditate", TargetDays: 3, IsActive: true})
	if err != nil {
		t.Fatal(err)
	}

	m = press(t, m, "2")
	if m.tab != tabGoals {
		t.Fatalf("tab = %v, want goals", m.tab)
	}
	m = refresh(t, m)

	m = press(t, m, "c")
	if m.status != "checked in, streak 1" {
		t.Fatalf("status = %q err = %v", m.status, m.err)
	}
	m = press(t, m, "c")
	if m.status != "already checked in today" {
		t.Fatalf("status = %q", m.status)
	}

	m = refresh(t, m)
	if !strings.Contains(stripANSI(m.View()), "✓ Meditate") {
		t.Fatalf("expected the checked-in marker; view=%q", stripANSI(m.View()))
	}

	m = press(t, m, "p")
	got, err := svc.Goal(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsActive {
		t.Fatalf("goal still active after pause")
	}
	m = refresh(t, m)
	m = press(t, m, "p")
	if got, _ = svc.Goal(ctx, g.ID); !got.IsActive {
		t.Fatalf("goal still paused after resume")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	m, svc, _ := newTestModel(t)
	if _, err := svc.AddEntry(ctx, journal.EntryDraft{Mood: journal.MoodSad, Content: "delete me"}); err != nil {
		t.Fatal(err)
	}
	m = refresh(t, m)

	m = press(t, m, "D")
	if m.mode != modeConfirm {
		t.Fatalf("mode = %v, want confirm", m.mode)
	}
	m = press(t, m, "n")
	if entries, _ := svc.Entries(ctx); len(entries) != 1 {
		t.Fatalf("entry deleted without confirmation")
	}

	m = press(t, m, "D", "y")
	if m.status != "deleted" {
		t.Fatalf("status = %q err = %v", m.status, m.err)
	}
	if entries, _ := svc.Entries(ctx); len(entries) != 0 {
		t.Fatalf("entry not deleted")
	}
}

func TestJourneyStartAndEnd(t *testing.T) {
	ctx := context.Background()
	m, svc, _ := newTestModel(t)

	m = press(t, m, "3", "a")
	m = typeText(t, m, "Alfama loop")
	m = press(t, m, "enter")
	if m.err != nil {
		t.Fatalf("start: %v", m.err)
	}
	m = refresh(t, m)
	if !strings.Contains(stripANSI(m.View()), "● Alfama loop") {
		t.Fatalf("expected the active journey; view=%q", stripANSI(m.View()))
	}

	m = press(t, m, "a")
	m = typeText(t, m, "second")
	m = press(t, m, "enter")
	if m.err == nil {
		t.Fatalf("expected an error starting a second journey")
	}

	m = press(t, m, "e")
	if m.status != "ended Alfama loop" {
		t.Fatalf("status = %q err = %v", m.status, m.err)
	}
	active, err := svc.ActiveJourney(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if active != nil {
		t.Fatalf("journey still active")
	}
	m = refresh(t, m)
	if strings.Contains(stripANSI(m.View()), "● ") {
		t.Fatalf("ended journey still marked active")
	}
}

func TestTabsCycle(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "tab")
	if m.tab != tabGoals {
		t.Fatalf("tab = %v", m.tab)
	}
	m = press(t, m, "tab", "tab")
	if m.tab != tabEntries {
		t.Fatalf("tab = %v, want wrap to entries", m.tab)
	}
	m = update(t, m, tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if m.tab != tabJourneys {
		t.Fatalf("tab = %v, want journeys", m.tab)
	}
	if !strings.Contains(stripANSI(m.View()), "no journeys yet") {
		t.Fatalf("expected the empty hint")
	}
}

func TestThemeToggle(t *testing.T) {
	m, svc, _ := newTestModel(t)
	m = press(t, m, "t")
	if !m.theme.Dark {
		t.Fatalf("theme not dark after toggle")
	}
	s, err := svc.Settings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsDarkMode {
		t.Fatalf("dark mode not persisted")
	}
}

func TestReloadOnStoreChange(t *testing.T) {
	ctx := context.Background()
	m, svc, dir := newTestModel(t)
	if err := svc.Load(ctx); err != nil {
		t.Fatal(err)
	}

	// Another process writes the same record.
	p, err := store.NewDiskv(dir)
	if err != nil {
		t.Fatal(err)
	}
	other := &app.Service{Persistence: p, Now: func() time.Time { return testNow }}
	if _, err := other.AddEntry(ctx, journal.EntryDraft{Mood: journal.MoodAmazing, Content: "from elsewhere"}); err != nil {
		t.Fatal(err)
	}

	events := make(chan store.Event)
	m = update(t, m, changedMsg{ev: store.Event{Key: svc.Key()}, events: events})
	if m.status != "reloaded" {
		t.Fatalf("status = %q err = %v", m.status, m.err)
	}
	m = refresh(t, m)
	if !strings.Contains(stripANSI(m.View()), "from elsewhere") {
		t.Fatalf("expected the reloaded entry; view=%q", stripANSI(m.View()))
	}

	m.status = ""
	m = update(t, m, changedMsg{ev: store.Event{Key: "someone-else"}, events: events})
	if m.status == "reloaded" {
		t.Fatalf("reloaded for another user's record")
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "?")
	if !strings.Contains(stripANSI(m.View()), "toggle dark mode") {
		t.Fatalf("expected the help text")
	}
	m = press(t, m, "esc")
	if m.mode != modeNormal {
		t.Fatalf("mode = %v", m.mode)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
