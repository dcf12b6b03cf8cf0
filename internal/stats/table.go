package stats

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// historyColumn describes one column of the plain history table. A
// positive limit caps the cell width; longer values keep their tail.
type historyColumn struct {
	title string
	right bool
	limit int
}

var historyColumns = []historyColumn{
	{title: "ID", right: true},
	{title: "Started"},
	{title: "Mode"},
	{title: "Video", limit: 32},
	{title: "Grid"},
	{title: "FPS", right: true},
	{title: "Frames", right: true},
	{title: "Late", right: true},
	{title: "Avg FPS", right: true},
}

func historyHeaders() []string {
	headers := make([]string, len(historyColumns))
	for i, col := range historyColumns {
		headers[i] = col.title
	}
	return headers
}

// writeHistoryTable prints rows under the history headers with every column
// padded to its widest cell.
func writeHistoryTable(w io.Writer, rows [][]string) error {
	cells := make([][]string, len(rows))
	widths := make([]int, len(historyColumns))
	for i, col := range historyColumns {
		widths[i] = runewidth.StringWidth(col.title)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(historyColumns))
		for i, col := range historyColumns {
			if i >= len(row) {
				continue
			}
			cell := row[i]
			if col.limit > 0 {
				cell = truncateCell(cell, col.limit)
			}
			cells[r][i] = cell
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var b strings.Builder
	writeLine := func(line []string) error {
		b.Reset()
		for i, col := range historyColumns {
			if i > 0 {
				b.WriteByte(' ')
			}
			pad := strings.Repeat(" ", widths[i]-runewidth.StringWidth(line[i]))
			if col.right {
				b.WriteString(pad + line[i])
			} else {
				b.WriteString(line[i] + pad)
			}
		}
		b.WriteByte('\n')
		_, err := io.WriteString(w, b.String())
		return err
	}
	if err := writeLine(historyHeaders()); err != nil {
		return err
	}
	for _, line := range cells {
		if err := writeLine(line); err != nil {
			return err
		}
	}
	return nil
}

// truncateCell keeps the tail of long values; for paths the file name is
// the useful part.
func truncateCell(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	runes := []rune(value)
	for i := range runes {
		tail := "..." + string(runes[i:])
		if runewidth.StringWidth(tail) <= width {
			return tail
		}
	}
	return runewidth.Truncate(value, width, "")
}
