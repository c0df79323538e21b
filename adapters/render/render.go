package render

import (
	"logstat/internal/config"
	"logstat/internal/errors"
	"logstat/ports"
)

// New returns the renderer for a configured output format
func New(format string) (ports.ReportRendererPort, error) {
	switch format {
	case config.FormatText, "":
		return TextRenderer{}, nil
	case config.FormatMarkdown:
		return MarkdownRenderer{}, nil
	case config.FormatHTML:
		return HTMLRenderer{}, nil
	case config.FormatJSON:
		return JSONRenderer{}, nil
	default:
		return nil, errors.InvalidArgument("unknown output format %q", format)
	}
}
