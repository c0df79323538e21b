package render

import (
	"bytes"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"logstat/domain/stats"
	"logstat/ports"
)

// MarkdownRenderer writes a GitHub-flavoured markdown table
type MarkdownRenderer struct{}

var _ ports.ReportRendererPort = MarkdownRenderer{}

func (MarkdownRenderer) Render(w io.Writer, header []string, report *stats.AlignedReport) error {
	_, err := w.Write(markdownTable(header, report))
	return err
}

func markdownTable(header []string, report *stats.AlignedReport) []byte {
	head, body, numeric := grid(header, report)

	var buf bytes.Buffer
	writeMarkdownRow(&buf, head)
	align := make([]string, len(head))
	for i := range align {
		align[i] = "---"
		if numeric[i] {
			align[i] = "--:"
		}
	}
	writeMarkdownRow(&buf, align)
	for _, line := range body {
		writeMarkdownRow(&buf, line)
	}
	return buf.Bytes()
}

func writeMarkdownRow(buf *bytes.Buffer, cells []string) {
	buf.WriteString("|")
	for _, cell := range cells {
		buf.WriteString(" ")
		buf.WriteString(strings.ReplaceAll(cell, "|", `\|`))
		buf.WriteString(" |")
	}
	buf.WriteString("\n")
}

// HTMLRenderer writes a standalone HTML page holding the markdown table
type HTMLRenderer struct {
	Title string
}

var _ ports.ReportRendererPort = HTMLRenderer{}

func (r HTMLRenderer) Render(w io.Writer, header []string, report *stats.AlignedReport) error {
	title := r.Title
	if title == "" {
		title = "MCMC summary"
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: title,
	})
	_, err := w.Write(markdown.ToHTML(markdownTable(header, report), p, renderer))
	return err
}
