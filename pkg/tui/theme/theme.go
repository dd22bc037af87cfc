package theme

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/printers"
)

// Theme centralizes Lip Gloss styles for the dashboard.
type Theme struct {
	Dark   bool
	Header HeaderTheme
	Tabs   TabsTheme
	Footer FooterTheme
	Panel  PanelTheme
}

// HeaderTheme styles the journal name line.
type HeaderTheme struct {
	Title lipgloss.Style
	Meta  lipgloss.Style
}

// TabsTheme styles the entries/goals/journeys switcher.
type TabsTheme struct {
	Active   lipgloss.Style
	Inactive lipgloss.Style
}

// FooterTheme groups styles used by the bottom status/input bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Prompt lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// For returns the dark or light theme. The accent is the journal teal.
func For(dark bool) Theme {
	accent := lipgloss.Color("#0F766E")
	text := lipgloss.Color("236")
	faint := lipgloss.Color("244")
	if dark {
		accent = lipgloss.Color("#5EEAD4")
		text = lipgloss.Color("252")
		faint = lipgloss.Color("241")
	}

	return Theme{
		Dark: dark,
		Header: HeaderTheme{
			Title: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Meta:  lipgloss.NewStyle().Foreground(faint),
		},
		Tabs: TabsTheme{
			Active: lipgloss.NewStyle().
				Foreground(accent).
				Bold(true).
				Underline(true).
				Padding(0, 1),
			Inactive: lipgloss.NewStyle().Foreground(faint).Padding(0, 1),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(faint),
			Status: lipgloss.NewStyle().Foreground(text),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
			Prompt: lipgloss.NewStyle().Foreground(accent),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(faint).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle().Foreground(text),
		},
	}
}

// Mood renders s on the mood's calendar colours.
func (t Theme) Mood(m journal.Mood, s string) string {
	bg, fg := printers.MoodColors(m)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).
		Padding(0, 1).
		Render(s)
}
