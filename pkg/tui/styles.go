package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	colorSubtext = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	colorBar     = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	colorWarn    = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}

	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	detailHeaderStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Bold(true).
				MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	barStyle = lipgloss.NewStyle().
			Foreground(colorBar)

	sparkStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorWarn)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			MarginTop(1)
)
