package ui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#A89CFF"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
	warningColor = lipgloss.AdaptiveColor{Light: "#B7791F", Dark: "#F6C177"}
	successColor = lipgloss.AdaptiveColor{Light: "#2F855A", Dark: "#9CCFD8"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(primaryColor)

	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	selectedStyle = lipgloss.NewStyle().
			Underline(true)

	checkedStyle = lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(mutedColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	bannerStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	toastStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	invalidInputStyle = inputStyle.
				BorderForeground(errorColor)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)
)
