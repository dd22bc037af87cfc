package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/journal/pkg/printers"
)

const fullHelp = `Keys
  tab / shift+tab / 1-3   switch entries, goals, journeys
  ↑/↓ or j/k              move
  /                       search the current tab (esc clears)
  a                       add an entry, goal or journey (ctrl+t cycles the mood)
  f / F                   favorite the entry / show favorites only
  c / p                   check in / pause or resume the goal
  e                       end the active journey
  D                       delete the selection
  t                       toggle dark mode
  r                       reload from disk
  q                       quit`

// View renders the header, tabs, list with detail pane, and the footer.
func (m Model) View() string {
	th := m.theme

	name := m.userName
	if name == "" {
		name = "Journal"
	}
	header := th.Header.Title.Render(name) + "  " +
		th.Header.Meta.Render(m.now().Format("Monday, January 2"))

	tabs := make([]string, 0, len(tabNames))
	for i, n := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, n)
		if tab(i) == m.tab {
			tabs = append(tabs, th.Tabs.Active.Render(label))
		} else {
			tabs = append(tabs, th.Tabs.Inactive.Render(label))
		}
	}

	var body string
	if m.mode == modeHelp {
		body = th.Panel.Frame.Render(th.Panel.Body.Render(fullHelp))
	} else {
		left := m.list.View()
		if len(m.list.Items()) == 0 {
			left = lipgloss.NewStyle().Width(m.list.Width()).Render(th.Footer.Help.Render(m.emptyText()))
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.detail())
	}

	return strings.Join([]string{
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		body,
		"",
		m.footer(),
	}, "\n")
}

func (m Model) emptyText() string {
	if q := m.queries[m.tab]; q != "" {
		return fmt.Sprintf("nothing matches %q", q)
	}
	switch m.tab {
	case tabGoals:
		return "no goals yet, press a to add one"
	case tabJourneys:
		return "no journeys yet, press a to start one"
	}
	if m.favoritesOnly {
		return "no favorites yet"
	}
	return "no entries yet, press a to write one"
}

// detail renders the selected item with the same printers as the CLI.
func (m Model) detail() string {
	var b bytes.Buffer
	pp := printers.PrettyPrint{Out: &b, Width: m.detailWidth(), Now: m.now}
	switch it := m.list.SelectedItem().(type) {
	case entryItem:
		pp.Entry(it.e)
	case goalItem:
		pp.Goal(it.g)
	case journeyItem:
		pp.Journey(it.j)
	default:
		return ""
	}
	text := strings.TrimRight(b.String(), "\n")
	if e, ok := m.list.SelectedItem().(entryItem); ok {
		text = m.theme.Mood(e.e.Mood, e.e.Mood.Emoji()+" "+string(e.e.Mood)) + "\n\n" + text
	}
	return m.theme.Panel.Frame.Width(m.detailWidth()).Render(text)
}

func (m Model) footer() string {
	th := m.theme
	switch m.mode {
	case modeSearch:
		return th.Footer.Prompt.Render("/") + m.input.View()
	case modeAdd:
		prompt := "New " + strings.ToLower(strings.TrimSuffix(m.tab.String(), "s"))
		if m.tab == tabEntries {
			prompt += " " + m.addMood.Emoji()
		}
		return th.Footer.Prompt.Render(prompt+": ") + m.input.View() + "\n" +
			th.Footer.Help.Render("enter save · esc cancel"+moodHint(m.tab))
	}
	if m.err != nil {
		return th.Footer.Error.Render("error: " + m.err.Error())
	}
	return th.Footer.Status.Render(m.status)
}

func moodHint(t tab) string {
	if t == tabEntries {
		return " · ctrl+t mood"
	}
	return ""
}
