package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Table renders rows as aligned columns without borders.
type Table struct {
	Headers    []string
	Rows       [][]string
	MaxWidths  []int  // per column cap, 0 = auto
	RightAlign []bool // per column
	Separator  bool   // draw a rule under the header
}

// ColumnWidths calculates column widths from content, capped by MaxWidths.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}
	for i, limit := range t.MaxWidths {
		if i < len(widths) && limit > 0 && widths[i] > limit {
			widths[i] = limit
		}
	}
	return widths
}

// Render outputs the table to a string. Cells wider than their column are cut
// with an ellipsis.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.ColumnWidths()
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	cellStyle := lipgloss.NewStyle().Foreground(ColorText)
	dimStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	headerCells := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		headerCells[i] = headerStyle.Render(t.pad(i, fit(h, widths[i]), widths[i]))
	}
	sb.WriteString(strings.TrimRight(strings.Join(headerCells, "  "), " ") + "\n")

	if t.Separator {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = dimStyle.Render(strings.Repeat("─", w))
		}
		sb.WriteString(strings.Join(parts, "──") + "\n")
	}

	for _, row := range t.Rows {
		cells := make([]string, len(t.Headers))
		for i := range t.Headers {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			cells[i] = cellStyle.Render(t.pad(i, fit(val, widths[i]), widths[i]))
		}
		sb.WriteString(strings.TrimRight(strings.Join(cells, "  "), " ") + "\n")
	}

	return sb.String()
}

func (t *Table) pad(col int, s string, width int) string {
	if col < len(t.RightAlign) && t.RightAlign[col] {
		return padLeft(s, width)
	}
	return padRight(s, width)
}

// fit cuts s to width display cells.
func fit(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width, "…")
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func padLeft(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}
