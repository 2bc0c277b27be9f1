// Package themes holds the visual styles of the job browser.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Bold        lipgloss.Style
	Selected    lipgloss.Style
	Muted       lipgloss.Style
	StatusError lipgloss.Style
	BorderedBox lipgloss.Style
	Primary     lipgloss.Color
	Border      lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary: lipgloss.Color("#4a90d9"),
	Border:  lipgloss.Color("#404040"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#4a90d9")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
}

// Plain renders without colors, for terminals that do not support them.
var Plain = Theme{
	Title:       lipgloss.NewStyle().Bold(true).MarginBottom(1),
	Subtitle:    lipgloss.NewStyle(),
	Normal:      lipgloss.NewStyle(),
	Bold:        lipgloss.NewStyle().Bold(true),
	Selected:    lipgloss.NewStyle().Reverse(true),
	Muted:       lipgloss.NewStyle().Faint(true),
	StatusError: lipgloss.NewStyle().Bold(true),
	BorderedBox: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
}
