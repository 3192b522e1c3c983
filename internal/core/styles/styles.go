// Package styles provides shared lipgloss styles for CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

// Semantic colors used by status and doctor rendering.
var (
	ColorPrimary = lipgloss.Color("#7aa2f7")
	ColorMuted   = lipgloss.Color("#565f89")
	ColorSuccess = lipgloss.Color("#9ece6a")
	ColorWarning = lipgloss.Color("#e0af68")
	ColorError   = lipgloss.Color("#f7768e")
)

var (
	// HeaderStyle renders section headers.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// PassStyle, WarnStyle, and FailStyle render doctor check outcomes.
	PassStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarnStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	FailStyle = lipgloss.NewStyle().Foreground(ColorError)

	// MutedStyle renders secondary detail text.
	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
)
