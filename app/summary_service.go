package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"logstat/adapters/stats/mcmc"
	"logstat/domain/stats"
	"logstat/internal"
	"logstat/internal/errors"
	"logstat/ports"
)

// SummaryService runs the read -> burn-in -> summarise -> align pipeline
type SummaryService struct {
	reader ports.SampleReaderPort
	logger *internal.Logger
}

// SummaryRequest describes one invocation over one or more runs
type SummaryRequest struct {
	Sources        []ports.RunSource
	Proportion     float64   // HPD coverage, 0 < p < 1
	BurnIn         []float64 // per run; padded with the last value
	SkipRows       []int     // per run; padded with the last value
	Workers        int       // runs read and summarised concurrently; <= 1 is sequential
	SkipFailedRuns bool      // report the remaining runs instead of aborting
}

// RunFailure records a run left out of the report
type RunFailure struct {
	Run    int    `json:"run"`
	Source string `json:"source"`
	Code   string `json:"code"`
	Error  string `json:"error"`
}

// SummaryResult is the aligned report plus the per-run tables it came from
type SummaryResult struct {
	ID       string               `json:"id"`
	Header   []string             `json:"header"`
	Report   *stats.AlignedReport `json:"report"`
	Tables   []*stats.StatsTable  `json:"-"`
	Sources  []string             `json:"sources"`
	Failures []RunFailure         `json:"failures,omitempty"`
	Elapsed  time.Duration        `json:"elapsed"`
}

// NewSummaryService creates a summary service; a nil logger discards records
func NewSummaryService(reader ports.SampleReaderPort, logger *internal.Logger) *SummaryService {
	if logger == nil {
		logger = internal.Discard()
	}
	return &SummaryService{reader: reader, logger: logger}
}

type runOutcome struct {
	table *stats.StatsTable
	err   error
}

// Summarize processes every source and aligns the resulting tables. Without
// SkipFailedRuns the first failing run (in run order) aborts the request.
func (s *SummaryService) Summarize(ctx context.Context, req SummaryRequest) (*SummaryResult, error) {
	start := time.Now()
	if len(req.Sources) == 0 {
		return nil, errors.EmptyInput("no log files given")
	}
	if !(req.Proportion > 0 && req.Proportion < 1) {
		return nil, errors.InvalidArgument("HPD proportion must be in (0, 1), got %v", req.Proportion)
	}
	burnIns, err := stats.PadBurnIn(req.BurnIn, len(req.Sources))
	if err != nil {
		return nil, err
	}
	skips, err := stats.PadSkipRows(req.SkipRows, len(req.Sources))
	if err != nil {
		return nil, err
	}

	// runs never cancel each other; errors are inspected in run order below
	outcomes := make([]runOutcome, len(req.Sources))
	var g errgroup.Group
	g.SetLimit(max(1, req.Workers))
	for i, source := range req.Sources {
		source.SkipRows = skips[i]
		g.Go(func() error {
			table, err := s.summarizeRun(ctx, i, source, burnIns[i], req.Proportion)
			outcomes[i] = runOutcome{table: table, err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &SummaryResult{
		ID:     uuid.NewString(),
		Header: mcmc.HeaderLabels(req.Proportion),
	}
	var inputs []int // input index of each table
	for i, outcome := range outcomes {
		name := sourceName(req.Sources[i])
		if outcome.err != nil {
			if !req.SkipFailedRuns {
				return nil, errors.Wrapf(outcome.err, "run %d (%s)", i+1, name)
			}
			s.logger.Warn("skipping run", "run", i+1, "source", name, "error", outcome.err)
			result.Failures = append(result.Failures, RunFailure{
				Run:    i + 1,
				Source: name,
				Code:   errors.GetCode(outcome.err),
				Error:  outcome.err.Error(),
			})
			continue
		}
		result.Tables = append(result.Tables, outcome.table)
		result.Sources = append(result.Sources, name)
		inputs = append(inputs, i)
	}
	if len(result.Tables) == 0 {
		return nil, errors.EmptyInput("all %d runs failed", len(req.Sources))
	}

	result.Report, err = mcmc.Align(result.Tables)
	if err != nil {
		return nil, err
	}
	// rows refer to runs by input position, so skipped runs leave gaps
	for j := range result.Report.Rows {
		result.Report.Rows[j].Run = inputs[result.Report.Rows[j].Run]
	}
	result.Elapsed = time.Since(start)
	s.logger.Debug("summary complete", "id", result.ID, "runs", len(result.Tables),
		"rows", len(result.Report.Rows), "shared", result.Report.Shared, "elapsed", result.Elapsed)
	return result, nil
}

func (s *SummaryService) summarizeRun(ctx context.Context, i int, source ports.RunSource, burnIn, proportion float64) (*stats.StatsTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := s.reader.ReadRun(ctx, source)
	if err != nil {
		return nil, err
	}
	trimmed, err := mcmc.TrimBurnIn(m, burnIn)
	if err != nil {
		return nil, err
	}
	table, _, err := mcmc.Compute(trimmed, proportion)
	if err != nil {
		return nil, err
	}

	n, k := trimmed.Dims()
	logger := s.logger.With("run", i+1, "source", sourceName(source))
	logger.Debug("run summarised", "burnin", burnIn, "iterations", n, "variables", k)
	for j, name := range table.Names {
		logger.Trace("variable summary", "variable", name, "ess", table.Rows[j].ESS, "mean", table.Rows[j].Mean)
	}
	return table, nil
}

func sourceName(source ports.RunSource) string {
	if source.Name != "" {
		return source.Name
	}
	if source.Path != "" {
		return source.Path
	}
	return fmt.Sprintf("<%d bytes>", len(source.Data))
}
