package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Diagnostic lines printed with --debug
	DebugStyle = lipgloss.NewStyle().Foreground(Overlay1)

	ErrorStyle     = lipgloss.NewStyle().Bold(true).Foreground(Red)
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(Mauve)
	TimestampStyle = lipgloss.NewStyle().Foreground(Subtext0)

	TXStyle = lipgloss.NewStyle().Bold(true).Foreground(Peach)
	RXStyle = lipgloss.NewStyle().Bold(true).Foreground(Sky)
)
