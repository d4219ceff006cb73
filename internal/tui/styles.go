package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#818cf8")). // indigo
			Bold(true).
			MarginBottom(1)

	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")).Bold(true)

	boldStyle = lipgloss.NewStyle().Bold(true)

	userBubbleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#4f46e5")).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1)

	botBubbleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(lipgloss.Color("#f3f4f6")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			Width(30).
			Align(lipgloss.Center)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	sendReadyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6366f1")).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true).
			Padding(0, 1)

	sendIdleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Foreground(lipgloss.Color("244")).
			Padding(0, 1)

	uploadBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)
