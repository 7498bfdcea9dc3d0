package logger

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

type Table struct {
	headers     []string
	rows        [][]string
	columnWidth []int
	out         io.Writer
}

func NewTable(headers []string, out io.Writer) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}

	return &Table{
		headers:     headers,
		columnWidth: widths,
		out:         out,
	}
}

func (t *Table) AddRow(cells ...string) {
	if len(cells) > len(t.headers) {
		cells = cells[:len(t.headers)]
	} else if len(cells) < len(t.headers) {
		padded := make([]string, len(t.headers))
		copy(padded, cells)
		cells = padded
	}

	for i, cell := range cells {
		if n := utf8.RuneCountInString(cell); n > t.columnWidth[i] {
			t.columnWidth[i] = n
		}
	}

	t.rows = append(t.rows, cells)
}

func (t *Table) writeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("│")
	for i, cell := range cells {
		pad := t.columnWidth[i] - utf8.RuneCountInString(cell)
		sb.WriteString(" " + cell + strings.Repeat(" ", pad) + " │")
	}
	sb.WriteString("\n")
}

func (t *Table) Print() {
	var sb strings.Builder

	top := "┌"
	separator := "├"
	footer := "└"
	for i, width := range t.columnWidth {
		line := strings.Repeat("─", width+2)
		top += line
		separator += line
		footer += line
		if i < len(t.columnWidth)-1 {
			top += "┬"
			separator += "┼"
			footer += "┴"
		}
	}
	top += "┐"
	separator += "┤"
	footer += "┘"

	sb.WriteString(top + "\n")
	t.writeRow(&sb, t.headers)
	sb.WriteString(separator + "\n")
	for _, row := range t.rows {
		t.writeRow(&sb, row)
	}
	sb.WriteString(footer)

	fmt.Fprintln(t.out, sb.String())
}
