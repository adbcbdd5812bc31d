package ui

import "github.com/charmbracelet/lipgloss"

const (
	accent    = "#2E86AB"
	highlight = "#F6AE2D"
	muted     = "#6B7280"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(accent)).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)).
			MarginBottom(1)

	CheckedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(highlight)).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4757")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F26419"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(highlight)).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(accent)).
			Padding(1, 2)
)
