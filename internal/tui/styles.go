package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title       lipgloss.Style
	tab         lipgloss.Style
	activeTab   lipgloss.Style
	accent      lipgloss.Style
	muted       lipgloss.Style
	err         lipgloss.Style
	tableHeader lipgloss.Style
	selected    lipgloss.Style
}

// newStyles binds every style to r so colors follow the SSH client's
// terminal profile rather than the server's.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		tab:       r.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245")),
		activeTab: r.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")),
		accent:    r.NewStyle().Foreground(lipgloss.Color("86")),
		muted:     r.NewStyle().Foreground(lipgloss.Color("241")),
		err:       r.NewStyle().Foreground(lipgloss.Color("203")),
		tableHeader: r.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240")),
		selected: r.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
	}
}
