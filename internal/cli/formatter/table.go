package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// Align positions a cell inside its column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table is an aligned plain-text table. Widths are measured on visible
// characters so styled cells line up.
type Table struct {
	Headers []string
	Rows    [][]string
	// Align holds per-column alignment; missing entries are left aligned.
	Align []Align
}

// RenderTable renders headers and rows with every column left aligned.
func RenderTable(headers []string, rows [][]string) string {
	return Table{Headers: headers, Rows: rows}.Render()
}

func (t Table) align(col int) Align {
	if col < len(t.Align) {
		return t.Align[col]
	}
	return AlignLeft
}

func (t Table) widths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	return widths
}

func (t Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}
	widths := t.widths()
	last := len(widths) - 1

	var b strings.Builder
	writeCell := func(i int, cell, styled string) {
		pad := max(widths[i]-lipgloss.Width(cell), 0)
		if t.align(i) == AlignRight {
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(styled)
			pad = 0
		} else {
			b.WriteString(styled)
		}
		if i < last {
			b.WriteString(strings.Repeat(" ", pad+colGap))
		}
	}

	for i, h := range t.Headers {
		writeCell(i, h, StyleHeader.Render(h))
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < last {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range t.Rows {
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			writeCell(i, cell, cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}
