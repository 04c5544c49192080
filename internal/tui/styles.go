package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the lipgloss styles shared by every view.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Card     lipgloss.Style
	Locked   lipgloss.Style
	Help     lipgloss.Style
}

// DefaultTheme returns the planner's color scheme.
func DefaultTheme() *Theme {
	return &Theme{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2),
		Locked: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}
