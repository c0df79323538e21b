package render

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"logstat/domain/stats"
	"logstat/ports"
)

// TextRenderer writes a fixed-width, pipe-delimited table for terminals
type TextRenderer struct{}

var _ ports.ReportRendererPort = TextRenderer{}

// Render writes a header row, a -/+ separator and one line per report row
func (TextRenderer) Render(w io.Writer, header []string, report *stats.AlignedReport) error {
	head, body, numeric := grid(header, report)

	widths := make([]int, len(head))
	for _, line := range append([][]string{head}, body...) {
		for i, cell := range line {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	bw := bufio.NewWriter(w)
	writeLine(bw, head, widths, numeric)

	dashes := make([]string, len(widths))
	for i, width := range widths {
		dashes[i] = strings.Repeat("-", width)
	}
	bw.WriteString(strings.Join(dashes, "-+-"))
	bw.WriteByte('\n')

	for _, line := range body {
		writeLine(bw, line, widths, numeric)
	}
	return bw.Flush()
}

func writeLine(w *bufio.Writer, cells []string, widths []int, numeric []bool) {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		gap := strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
		if numeric[i] {
			padded[i] = gap + cell
		} else {
			padded[i] = cell + gap
		}
	}
	w.WriteString(strings.Join(padded, " | "))
	w.WriteByte('\n')
}
