package tui

import "github.com/charmbracelet/lipgloss"

// Theme bundles the lipgloss styles used by the viewer.
type Theme struct {
	Title   lipgloss.Style
	Help    lipgloss.Style
	Sidebar lipgloss.Style
	Error   lipgloss.Style

	ZoneGreen lipgloss.Style
	ZoneAmber lipgloss.Style
	ZoneRed   lipgloss.Style
	EmptyHex  lipgloss.Style

	Route   lipgloss.Style
	Origin  lipgloss.Style
	Referee lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title: lipgloss.NewStyle().Bold(true),
		Help:  lipgloss.NewStyle().Faint(true),
		Sidebar: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),

		ZoneGreen: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		ZoneAmber: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		ZoneRed:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		EmptyHex:  lipgloss.NewStyle().Faint(true),

		Route:   lipgloss.NewStyle().Underline(true),
		Origin:  lipgloss.NewStyle().Bold(true),
		Referee: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201")),
	}
}
