// Package cli holds the lipgloss styling shared by tally's commands:
// status-line helpers, a box renderer for summaries, and the styles
// the table report reuses.
package cli

import "github.com/charmbracelet/lipgloss"

// Palette. Amber is the duckbill brand color; the rest follow the
// usual success/warning/error semantics.
const (
	amber  = lipgloss.Color("#F4A259")
	teal   = lipgloss.Color("#4ECDC4")
	yellow = lipgloss.Color("#FFE66D")
	red    = lipgloss.Color("#FF6B6B")
	mint   = lipgloss.Color("#95E1D3")
	gray   = lipgloss.Color("#666666")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(amber).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().Foreground(teal)
	warningStyle = lipgloss.NewStyle().Foreground(yellow)
	errorStyle   = lipgloss.NewStyle().Foreground(red)

	// InfoStyle is for neutral status lines, SubtleStyle for
	// de-emphasized detail such as report metadata.
	InfoStyle   = lipgloss.NewStyle().Foreground(mint)
	SubtleStyle = lipgloss.NewStyle().Foreground(gray)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)
)

// FormatTitle renders a duck-branded heading line.
func FormatTitle(title string) string {
	return titleStyle.Render("🦆 " + title)
}

// FormatSuccess renders message behind a check mark.
func FormatSuccess(message string) string {
	return successStyle.Render("✓ " + message)
}

// FormatWarning renders message behind a warning sign.
func FormatWarning(message string) string {
	return warningStyle.Render("⚠️ " + message)
}

// FormatError renders message behind a cross.
func FormatError(message string) string {
	return errorStyle.Render("✗ " + message)
}

// StyleSuccess colors text without attaching an icon.
func StyleSuccess(text string) string {
	return successStyle.Render(text)
}

// RenderBox draws a titled, rounded-border box around content.
func RenderBox(title, content string) string {
	heading := titleStyle.UnsetMargins().Render(title)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
