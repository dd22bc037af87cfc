// Package tui is the full-screen journal dashboard: entries, goals and
// journeys in tabs, with the selected item rendered beside the list.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/recap"
	"tableflip.dev/journal/pkg/store"
	"tableflip.dev/journal/pkg/timeutil"
	"tableflip.dev/journal/pkg/tui/theme"
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeAdd
	modeConfirm
	modeHelp
)

const normalHelp = "tab switch · / search · a add · D delete · t theme · ? help · q quit"

// Model is the dashboard state.
type Model struct {
	svc   *app.Service
	recap *recap.Builder
	ctx   context.Context
	now   func() time.Time

	mode mode
	tab  tab

	list  list.Model
	input textinput.Model
	theme theme.Theme

	userName      string
	queries       [3]string
	favoritesOnly bool
	addMood       journal.Mood
	pendingDelete string

	status string
	err    error

	termWidth  int
	termHeight int
}

// New creates a dashboard backed by svc. rb ends journeys; nil uses a
// builder without geocoding.
func New(svc *app.Service, rb *recap.Builder) Model {
	if rb == nil {
		rb = &recap.Builder{}
	}
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)

	l := list.New([]list.Item{}, d, 40, 20)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowTitle(false)

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Prompt = ""
	ti.Styles.Cursor.Color = lipgloss.Color("218")
	ti.Styles.Cursor.Shape = tea.CursorUnderline

	return Model{
		svc:     svc,
		recap:   rb,
		ctx:     context.Background(),
		now:     time.Now,
		list:    l,
		input:   ti,
		theme:   theme.For(false),
		addMood: journal.MoodHappy,
		status:  normalHelp,
	}
}

// Run launches the dashboard and blocks until the user quits.
func Run(ctx context.Context, svc *app.Service, rb *recap.Builder) error {
	m := New(svc, rb)
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// messages
type errMsg struct{ err error }
type itemsLoadedMsg struct {
	tab   tab
	items []list.Item
}
type settingsLoadedMsg struct{ settings app.Settings }
type watchingMsg struct{ events <-chan store.Event }
type watchErrMsg struct{ err error }
type changedMsg struct {
	ev     store.Event
	events <-chan store.Event
}

// Init loads the settings and the first tab, and starts watching the store.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSettings(), m.load(), m.watch())
}

func (m *Model) loadSettings() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		s, err := svc.Settings(ctx)
		if err != nil {
			return errMsg{err}
		}
		return settingsLoadedMsg{s}
	}
}

// load fetches the current tab through the service's view filters.
func (m *Model) load() tea.Cmd {
	svc, ctx, t := m.svc, m.ctx, m.tab
	q, fav, now := m.queries[t], m.favoritesOnly, m.now()
	return func() tea.Msg {
		var items []list.Item
		switch t {
		case tabEntries:
			svc.SetSearchQuery(q)
			svc.SetFavoritesOnly(fav)
			entries, err := svc.FilteredEntries(ctx)
			if err != nil {
				return errMsg{err}
			}
			for _, e := range entries {
				items = append(items, entryItem{e: e})
			}
		case tabGoals:
			svc.SetGoalSearchQuery(q)
			goals, err := svc.FilteredGoals(ctx)
			if err != nil {
				return errMsg{err}
			}
			today := timeutil.DayOf(now)
			for _, g := range goals {
				items = append(items, goalItem{g: g, today: today})
			}
		case tabJourneys:
			svc.SetJourneySearchQuery(q)
			active, err := svc.ActiveJourney(ctx)
			if err != nil {
				return errMsg{err}
			}
			if active != nil && active.Matches(q) {
				items = append(items, journeyItem{j: active, now: now})
			}
			journeys, err := svc.FilteredJourneys(ctx)
			if err != nil {
				return errMsg{err}
			}
			for _, j := range journeys {
				items = append(items, journeyItem{j: j, now: now})
			}
		}
		return itemsLoadedMsg{tab: t, items: items}
	}
}

func (m *Model) watch() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		events, err := svc.Watch(ctx)
		if err != nil {
			return watchErrMsg{err}
		}
		return watchingMsg{events}
	}
}

func waitForChange(events <-chan store.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return changedMsg{ev: ev, events: events}
	}
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	skipListRouting := false

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case errMsg:
		m.err = msg.err
	case settingsLoadedMsg:
		m.userName = msg.settings.UserName
		m.theme = theme.For(msg.settings.IsDarkMode)
	case itemsLoadedMsg:
		if msg.tab == m.tab {
			cmds = append(cmds, m.list.SetItems(msg.items))
			if m.list.Index() >= len(msg.items) && len(msg.items) > 0 {
				m.list.Select(len(msg.items) - 1)
			}
		}
	case watchingMsg:
		cmds = append(cmds, waitForChange(msg.events))
	case watchErrMsg:
		if !errors.Is(msg.err, app.ErrNoPersistence) {
			m.err = fmt.Errorf("live reload off: %w", msg.err)
		}
	case changedMsg:
		changed, err := m.svc.Reload(m.ctx, msg.ev)
		switch {
		case err != nil:
			m.err = err
		case changed:
			m.status = "reloaded"
			cmds = append(cmds, m.loadSettings(), m.load())
		}
		cmds = append(cmds, waitForChange(msg.events))
	case tea.KeyPressMsg:
		skipListRouting = true
		switch m.mode {
		case modeHelp:
			switch msg.String() {
			case "q", "esc", "?":
				m.mode = modeNormal
			}
		case modeConfirm:
			m.confirmDelete(&cmds, msg.String())
		case modeSearch:
			m.updateSearch(&cmds, msg)
		case modeAdd:
			m.updateAdd(&cmds, msg)
		case modeNormal:
			skipListRouting = m.updateNormal(&cmds, msg)
		}
	}

	if m.mode == modeNormal && !skipListRouting {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateNormal handles a key in normal mode. It reports whether the key was
// consumed; unconsumed keys move the list.
func (m *Model) updateNormal(cmds *[]tea.Cmd, msg tea.KeyPressMsg) bool {
	m.err = nil
	switch msg.String() {
	case "q", "ctrl+c":
		*cmds = append(*cmds, tea.Quit)
	case "tab":
		m.switchTab(cmds, m.tab.next())
	case "shift+tab":
		m.switchTab(cmds, m.tab.prev())
	case "1", "2", "3":
		m.switchTab(cmds, tab(msg.String()[0]-'1'))
	case "?":
		m.mode = modeHelp
	case "/":
		m.mode = modeSearch
		m.input.Placeholder = "search " + strings.ToLower(m.tab.String())
		m.input.SetValue(m.queries[m.tab])
		m.input.CursorEnd()
		m.focusInput(cmds)
	case "a":
		m.mode = modeAdd
		m.input.Reset()
		switch m.tab {
		case tabEntries:
			m.input.Placeholder = "what happened today?"
		case tabGoals:
			m.input.Placeholder = "goal title"
		case tabJourneys:
			m.input.Placeholder = "journey theme"
		}
		m.focusInput(cmds)
	case "D":
		if id, kind := m.selectedID(); id != "" {
			m.mode = modeConfirm
			m.pendingDelete = id
			m.status = fmt.Sprintf("delete this %s? y/n", kind)
		}
	case "t":
		dark, err := m.svc.ToggleTheme(m.ctx)
		if err != nil {
			m.err = err
			break
		}
		m.theme = theme.For(dark)
	case "r":
		if err := m.svc.Load(m.ctx); err != nil {
			m.err = err
			break
		}
		m.status = "reloaded"
		*cmds = append(*cmds, m.loadSettings(), m.load())
	case "f":
		if it, ok := m.list.SelectedItem().(entryItem); ok {
			e, err := m.svc.ToggleFavorite(m.ctx, it.e.ID)
			m.done(cmds, err, "favorite "+onOff(e != nil && e.Favorite))
		}
	case "F":
		if m.tab == tabEntries {
			m.favoritesOnly = !m.favoritesOnly
			m.status = "favorites only " + onOff(m.favoritesOnly)
			*cmds = append(*cmds, m.load())
		}
	case "c":
		if it, ok := m.list.SelectedItem().(goalItem); ok {
			g, first, err := m.svc.CheckIn(m.ctx, it.g.ID)
			switch {
			case err != nil:
				m.done(cmds, err, "")
			case !first:
				m.status = "already checked in today"
			default:
				m.done(cmds, nil, fmt.Sprintf("checked in, streak %d", g.CurrentStreak))
			}
		}
	case "p":
		if it, ok := m.list.SelectedItem().(goalItem); ok {
			var err error
			if it.g.IsActive {
				_, err = m.svc.PauseGoal(m.ctx, it.g.ID)
				m.done(cmds, err, "paused "+it.g.Title)
			} else {
				_, err = m.svc.ResumeGoal(m.ctx, it.g.ID)
				m.done(cmds, err, "resumed "+it.g.Title)
			}
		}
	case "e":
		if m.tab == tabJourneys {
			j, err := m.recap.End(m.ctx, m.svc)
			if err == nil {
				m.done(cmds, nil, "ended "+j.Theme)
			} else {
				m.done(cmds, err, "")
			}
		}
	default:
		return false
	}
	return true
}

func (m *Model) updateSearch(cmds *[]tea.Cmd, msg tea.KeyPressMsg) {
	switch msg.String() {
	case "enter":
		m.leaveInput()
	case "esc":
		m.queries[m.tab] = ""
		m.leaveInput()
		*cmds = append(*cmds, m.load())
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		*cmds = append(*cmds, cmd)
		if q := strings.TrimSpace(m.input.Value()); q != m.queries[m.tab] {
			m.queries[m.tab] = q
			*cmds = append(*cmds, m.load())
		}
	}
}

func (m *Model) updateAdd(cmds *[]tea.Cmd, msg tea.KeyPressMsg) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.leaveInput()
		if text == "" {
			m.status = "nothing added"
			return
		}
		m.add(cmds, text)
	case "esc":
		m.leaveInput()
		m.status = "add cancelled"
	case "ctrl+t":
		if m.tab == tabEntries {
			m.addMood = nextMood(m.addMood)
		}
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) add(cmds *[]tea.Cmd, text string) {
	switch m.tab {
	case tabEntries:
		_, err := m.svc.AddEntry(m.ctx, journal.EntryDraft{Mood: m.addMood, Content: text})
		m.done(cmds, err, "entry added")
	case tabGoals:
		_, err := m.svc.AddGoal(m.ctx, journal.GoalSeed{Title: text, TargetDays: journal.DefaultTargetDays, IsActive: true})
		m.done(cmds, err, "goal added")
	case tabJourneys:
		_, err := m.svc.StartJourney(m.ctx, text)
		m.done(cmds, err, "journey started")
	}
}

func (m *Model) confirmDelete(cmds *[]tea.Cmd, key string) {
	id := m.pendingDelete
	m.pendingDelete = ""
	m.mode = modeNormal
	if key != "y" && key != "Y" {
		m.status = "delete cancelled"
		return
	}
	var err error
	switch m.tab {
	case tabEntries:
		err = m.svc.DeleteEntry(m.ctx, id)
	case tabGoals:
		err = m.svc.DeleteGoal(m.ctx, id)
	case tabJourneys:
		err = m.svc.DeleteJourney(m.ctx, id)
	}
	m.done(cmds, err, "deleted")
}

// done reports the outcome of a mutation and reloads the tab on success.
func (m *Model) done(cmds *[]tea.Cmd, err error, status string) {
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = status
	*cmds = append(*cmds, m.load())
}

func (m *Model) switchTab(cmds *[]tea.Cmd, t tab) {
	if t == m.tab {
		return
	}
	m.tab = t
	m.status = normalHelp
	*cmds = append(*cmds, m.list.SetItems(nil), m.load())
	m.list.Select(0)
}

func (m *Model) focusInput(cmds *[]tea.Cmd) {
	if cmd := m.input.Focus(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
	*cmds = append(*cmds, textinput.Blink)
}

func (m *Model) leaveInput() {
	m.mode = modeNormal
	m.input.Reset()
	m.input.Blur()
}

// selectedID returns the id and kind of the highlighted item.
func (m *Model) selectedID() (string, string) {
	switch it := m.list.SelectedItem().(type) {
	case entryItem:
		return it.e.ID, "entry"
	case goalItem:
		return it.g.ID, "goal"
	case journeyItem:
		return it.j.ID, "journey"
	}
	return "", ""
}

// applySizes splits the terminal between the list and the detail pane.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	left := m.termWidth * 2 / 5
	if left < 30 {
		left = 30
	}
	// header, tabs and a two line footer
	height := m.termHeight - 6
	if height < 5 {
		height = 5
	}
	m.list.SetSize(left, height)
}

func (m *Model) detailWidth() int {
	w := m.termWidth - m.list.Width() - 6
	if w < 20 {
		w = 20
	}
	return w
}

func nextMood(cur journal.Mood) journal.Mood {
	moods := journal.Moods()
	for i, mood := range moods {
		if mood == cur {
			return moods[(i+1)%len(moods)]
		}
	}
	return moods[0]
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
