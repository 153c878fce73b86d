package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static rows for the non-interactive commands.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string

	// RightAlign marks numeric columns by index.
	RightAlign map[int]bool
}

// NewTable creates a table with the given title and headers.
func NewTable(title string, headers ...string) *Table {
	return &Table{
		Title:      title,
		Headers:    headers,
		RightAlign: make(map[int]bool),
	}
}

// AlignRight marks columns to be right-aligned.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.RightAlign[c] = true
	}
	return t
}

// AddRow appends a row; missing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) widths() []int {
	w := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		w[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(w) && i < len(row); i++ {
			if cw := lipgloss.Width(row[i]); cw > w[i] {
				w[i] = cw
			}
		}
	}
	return w
}

// View renders the table with styles. Headers are shown even with no rows.
func (t *Table) View(styles Styles) string {
	widths := t.widths()
	sep := styles.Muted.Render(" │ ")

	cell := func(style lipgloss.Style, col int, text string) string {
		align := lipgloss.Left
		if t.RightAlign[col] {
			align = lipgloss.Right
		}
		return style.Width(widths[col]).Align(align).Render(text)
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	head := make([]string, len(widths))
	for i, h := range t.Headers {
		head[i] = cell(styles.Bold, i, h)
	}
	sb.WriteString(strings.Join(head, sep))
	sb.WriteString("\n")

	total := 3 * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	if total < 0 {
		total = 0
	}
	sb.WriteString(styles.Muted.Render(strings.Repeat("─", total)))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		cells := make([]string, len(widths))
		for i := range widths {
			text := ""
			if i < len(row) {
				text = row[i]
			}
			cells[i] = cell(styles.Body, i, text)
		}
		sb.WriteString(strings.Join(cells, sep))
		sb.WriteString("\n")
	}
	return sb.String()
}
