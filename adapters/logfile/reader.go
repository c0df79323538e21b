package logfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"logstat/domain/stats"
	"logstat/internal"
	"logstat/internal/errors"
	"logstat/ports"
)

const maxLineBytes = 16 << 20

// Reader turns delimited MCMC log files (or .xlsx workbooks) into sample matrices
type Reader struct {
	opts   Options
	logger *internal.Logger
}

var _ ports.SampleReaderPort = (*Reader)(nil)

// NewReader creates a reader; a nil logger discards records
func NewReader(opts Options, logger *internal.Logger) (*Reader, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.Discard()
	}
	return &Reader{opts: opts, logger: logger}, nil
}

// ReadRun loads source from memory when it carries data, otherwise from disk
func (r *Reader) ReadRun(ctx context.Context, source ports.RunSource) (*stats.SampleMatrix, error) {
	name := source.Name
	if name == "" {
		name = source.Path
	}
	if source.Data != nil {
		if isWorkbook(name) {
			return r.readWorkbook(ctx, name, bytes.NewReader(source.Data), source.SkipRows)
		}
		return r.Read(ctx, name, bytes.NewReader(source.Data), source.SkipRows)
	}
	return r.ReadFile(ctx, source.Path, source.SkipRows)
}

// ReadFile loads the log at path
func (r *Reader) ReadFile(ctx context.Context, path string, skipRows int) (*stats.SampleMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	if isWorkbook(path) {
		return r.readWorkbook(ctx, path, f, skipRows)
	}
	return r.Read(ctx, path, f, skipRows)
}

// Read parses delimited text from src. The first skipRows physical lines are
// dropped, then comment and blank lines; the next line is the header.
func (r *Reader) Read(ctx context.Context, name string, src io.Reader, skipRows int) (*stats.SampleMatrix, error) {
	start := time.Now()

	var kept []string
	var lineNos []int
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= skipRows {
			continue
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if r.skippable(line) {
			continue
		}
		kept = append(kept, line)
		lineNos = append(lineNos, lineNo)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}

	cr := csv.NewReader(strings.NewReader(strings.Join(kept, "\n")))
	cr.Comma, _ = utf8.DecodeRuneInString(r.opts.Sep)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	// a whitespace delimiter would be swallowed as leading space
	cr.TrimLeadingSpace = !unicode.IsSpace(cr.Comma)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), fmt.Sprintf("parse %s", name))
	}

	m, err := r.build(ctx, name, records, lineNos)
	if err != nil {
		return nil, err
	}
	n, k := m.Dims()
	r.logger.Debug("read log", "file", name, "rows", n, "columns", k, "elapsed", time.Since(start))
	return m, nil
}

func (r *Reader) readWorkbook(ctx context.Context, name string, src io.Reader, skipRows int) (*stats.SampleMatrix, error) {
	start := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", name)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.EmptyInput("workbook %s has no sheets", name)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q of %s", sheets[0], name)
	}

	var records [][]string
	var lineNos []int
	for i, row := range rows {
		if i < skipRows {
			continue
		}
		if len(row) == 0 || r.skippable(strings.Join(row, "")) {
			continue
		}
		records = append(records, row)
		lineNos = append(lineNos, i+1)
	}

	m, err := r.build(ctx, name, records, lineNos)
	if err != nil {
		return nil, err
	}
	n, k := m.Dims()
	r.logger.Debug("read workbook", "file", name, "sheet", sheets[0], "rows", n, "columns", k, "elapsed", time.Since(start))
	return m, nil
}

func (r *Reader) skippable(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	return r.opts.Comment != "" && strings.HasPrefix(trimmed, r.opts.Comment)
}

// build converts header + data records into a matrix of the selected columns
func (r *Reader) build(ctx context.Context, name string, records [][]string, lineNos []int) (*stats.SampleMatrix, error) {
	if len(records) == 0 {
		return nil, errors.EmptyInput("%s has no header line", name)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	// samplers often end every line with the delimiter
	if len(header) > 1 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}
	columns, err := r.opts.selectColumns(header)
	if err != nil {
		return nil, errors.Wrapf(err, "select columns of %s", name)
	}

	names := make([]stats.VariableName, len(columns))
	for i, c := range columns {
		names[i] = stats.VariableName(header[c])
	}
	r.logger.Trace("selected columns", "file", name, "header", len(header), "kept", names)

	rows := make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line := lineNos[i+1]
		if len(record) == len(header)+1 && strings.TrimSpace(record[len(header)]) == "" {
			record = record[:len(header)]
		}
		if len(record) != len(header) {
			return nil, errors.InvalidInput(fmt.Sprintf("%s:%d: %d fields, header has %d", name, line, len(record), len(header)))
		}
		row := make([]float64, len(columns))
		for j, c := range columns {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[c]), 64)
			if err != nil {
				return nil, errors.InvalidInput(fmt.Sprintf("%s:%d: column %q: %q is not a number", name, line, header[c], record[c]))
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	m, err := stats.NewSampleMatrix(names, rows)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", name)
	}
	return m, nil
}

func isWorkbook(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}
