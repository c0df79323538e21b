package render

import (
	"encoding/json"
	"io"

	"logstat/domain/stats"
	"logstat/ports"
)

// JSONRenderer writes the report with raw, unformatted numbers
type JSONRenderer struct{}

var _ ports.ReportRendererPort = JSONRenderer{}

// Document is the JSON shape of a rendered report
type Document struct {
	Header []string          `json:"header"`
	Runs   int               `json:"runs"`
	Shared bool              `json:"shared"`
	Rows   []stats.ReportRow `json:"rows"`
}

func (JSONRenderer) Render(w io.Writer, header []string, report *stats.AlignedReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(header, report))
}

// NewDocument pairs a report with its header labels
func NewDocument(header []string, report *stats.AlignedReport) Document {
	rows := report.Rows
	if rows == nil {
		rows = []stats.ReportRow{}
	}
	return Document{Header: header, Runs: report.Runs, Shared: report.Shared, Rows: rows}
}
