package ports

import (
	"context"

	"logstat/domain/stats"
)

// RunSource identifies one run's sample file, either on disk or in memory
type RunSource struct {
	Name     string // display name, usually the path
	Path     string // read from disk when Data is nil
	Data     []byte // in-memory log contents (API uploads)
	SkipRows int    // physical lines dropped before the header
}

// SampleReaderPort loads the posterior samples of one run
type SampleReaderPort interface {
	ReadRun(ctx context.Context, source RunSource) (*stats.SampleMatrix, error)
}
