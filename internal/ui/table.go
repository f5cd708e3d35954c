package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// RenderTable draws a static, unfocused table with a styled header row.
func RenderTable(columns []table.Column, rows []table.Row) string {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Surface1).
		BorderBottom(true).
		Bold(true).
		Foreground(Mauve)
	// The cursor row must look like every other row
	s.Selected = lipgloss.NewStyle()

	width := 0
	for _, col := range columns {
		width += col.Width + s.Cell.GetHorizontalFrameSize()
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithWidth(width),
		table.WithStyles(s),
	)
	// Header height depends on the border, so size after styling
	t.SetHeight(len(rows) + lipgloss.Height(s.Header.Render("")))

	return t.View()
}
