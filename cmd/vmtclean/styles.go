package main

import "github.com/charmbracelet/lipgloss"

// Color palette for terminal output, tuned for dark backgrounds.
const (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorAccent  = lipgloss.Color("#3B82F6")
)

var (
	// titleStyle is for headers.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// labelStyle is for field names in summaries.
	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	// pathStyle is for file paths and texture references.
	pathStyle = lipgloss.NewStyle().
			Foreground(colorAccent)
)

// countStyle picks a style for a problem counter: success when zero.
func countStyle(n int, bad lipgloss.Style) lipgloss.Style {
	if n == 0 {
		return successStyle
	}
	return bad
}
