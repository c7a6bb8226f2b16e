package tui

import "github.com/charmbracelet/lipgloss"

// Theme groups the styles used by the browser.
type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Help      lipgloss.Style
	Card      lipgloss.Style
	Cursor    lipgloss.Style
	Selected  lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Status    lipgloss.Style
}

// DefaultTheme returns the default styles.
func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Cursor:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Highlight: lipgloss.NewStyle().Reverse(true),
		Muted:     lipgloss.NewStyle().Faint(true),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}
