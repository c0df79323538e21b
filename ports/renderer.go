package ports

import (
	"io"

	"logstat/domain/stats"
)

// ReportRendererPort writes an aligned report under the given header labels
type ReportRendererPort interface {
	Render(w io.Writer, header []string, report *stats.AlignedReport) error
}
