package ui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha color palette
var (
	Surface1 = lipgloss.Color("#45475a")
	Overlay1 = lipgloss.Color("#7f849c")
	Subtext0 = lipgloss.Color("#a6adc8")

	Sky   = lipgloss.Color("#89dceb")
	Peach = lipgloss.Color("#fab387")
	Red   = lipgloss.Color("#f38ba8")
	Mauve = lipgloss.Color("#cba6f7")
)
