package render

import (
	"math"
	"strconv"
	"strings"

	"logstat/domain/stats"
)

// FormatValue renders a statistic for display. Magnitudes below 0.1 or at
// least 100000 use scientific notation with 3 significant digits; everything
// else uses up to 3 decimals with trailing zeros dropped.
func FormatValue(x float64) string {
	if a := math.Abs(x); a < 0.1 || a >= 100000 {
		return strconv.FormatFloat(x, 'e', 2, 64)
	}
	s := strconv.FormatFloat(x, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatESS renders an effective sample size as a plain integer
func FormatESS(x float64) string {
	return strconv.FormatInt(int64(x), 10)
}

// FormatRow renders the six statistics of a row in header order
func FormatRow(row stats.StatsRow) []string {
	values := row.Values()
	cells := make([]string, len(values))
	cells[0] = FormatESS(values[0])
	for i, v := range values[1:] {
		cells[i+1] = FormatValue(v)
	}
	return cells
}

// grid turns a report into display cells: a label column, a run column for
// multi-run reports, then the statistics
func grid(header []string, report *stats.AlignedReport) (head []string, body [][]string, numeric []bool) {
	multi := report.Runs > 1
	head = []string{""}
	numeric = []bool{false}
	if multi {
		head = append(head, "run")
		numeric = append(numeric, true)
	}
	head = append(head, header...)
	for range header {
		numeric = append(numeric, true)
	}

	for _, row := range report.Rows {
		cells := []string{row.Label}
		if multi {
			cells = append(cells, strconv.Itoa(row.Run+1))
		}
		body = append(body, append(cells, FormatRow(row.Stats)...))
	}
	return head, body, numeric
}
