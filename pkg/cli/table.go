package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// renderTable aligns rows into columns padded to the widest visible cell.
// The last column is never padded. Each line starts with indent.
func renderTable(indent string, rows [][]string) string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(indent)
		for i, cell := range row {
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+colGap))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
