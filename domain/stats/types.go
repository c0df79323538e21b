package stats

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"logstat/internal/errors"
)

// ============================================================================
// SAMPLES
// ============================================================================

// VariableName labels one column of a sample matrix
type VariableName string

// SampleMatrix holds N iterations x K variables of posterior draws.
// It is immutable once built; accessors hand out copies.
type SampleMatrix struct {
	names  []VariableName
	values *mat.Dense // nil when N or K is zero
	rows   int
}

// NewSampleMatrix builds a matrix from row-major draws. Every row must have
// len(names) finite values and names must be unique.
func NewSampleMatrix(names []VariableName, rows [][]float64) (*SampleMatrix, error) {
	seen := make(map[VariableName]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return nil, errors.InvalidInput(fmt.Sprintf("duplicate variable name %q", name))
		}
		seen[name] = struct{}{}
	}

	k := len(names)
	m := &SampleMatrix{names: slices.Clone(names), rows: len(rows)}
	if k == 0 || len(rows) == 0 {
		return m, nil
	}

	data := make([]float64, 0, len(rows)*k)
	for i, row := range rows {
		if len(row) != k {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d has %d values, want %d", i, len(row), k))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.InvalidInput(fmt.Sprintf("row %d, column %q: non-finite value %v", i, names[j], v))
			}
		}
		data = append(data, row...)
	}
	m.values = mat.NewDense(len(rows), k, data)
	return m, nil
}

// Dims returns the number of iterations and variables
func (m *SampleMatrix) Dims() (n, k int) {
	return m.rows, len(m.names)
}

// Names returns the column names in declared order
func (m *SampleMatrix) Names() []VariableName {
	return slices.Clone(m.names)
}

// Column returns a copy of column j
func (m *SampleMatrix) Column(j int) []float64 {
	if m.values == nil {
		return []float64{}
	}
	return mat.Col(nil, j, m.values)
}

// Columns returns a copy of every column
func (m *SampleMatrix) Columns() [][]float64 {
	cols := make([][]float64, len(m.names))
	for j := range cols {
		cols[j] = m.Column(j)
	}
	return cols
}

// TrimLeading drops the first n iterations
func (m *SampleMatrix) TrimLeading(n int) *SampleMatrix {
	if n <= 0 {
		return m
	}
	trimmed := &SampleMatrix{names: m.names}
	if n >= m.rows {
		return trimmed
	}
	trimmed.rows = m.rows - n
	if m.values != nil {
		r, c := m.values.Dims()
		trimmed.values = mat.DenseCopyOf(m.values.Slice(n, r, 0, c))
	}
	return trimmed
}

// SortedColumns returns a matrix whose columns are each sorted ascending
func (m *SampleMatrix) SortedColumns() *SampleMatrix {
	sorted := &SampleMatrix{names: m.names, rows: m.rows}
	if m.values == nil {
		return sorted
	}
	sorted.values = mat.DenseCopyOf(m.values)
	for j := range m.names {
		col := m.Column(j)
		slices.Sort(col)
		sorted.values.SetCol(j, col)
	}
	return sorted
}

// ============================================================================
// STATISTICS
// ============================================================================

// StatsRow is the summary of one variable in one run
type StatsRow struct {
	ESS      float64 `json:"ess"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	HPDLower float64 `json:"hpd_lower"`
	HPDUpper float64 `json:"hpd_upper"`
	StdDev   float64 `json:"stdev"`
}

// Values returns the row in header order: ESS, mean, median, lower, upper, stdev
func (r StatsRow) Values() []float64 {
	return []float64{r.ESS, r.Mean, r.Median, r.HPDLower, r.HPDUpper, r.StdDev}
}

// StatsTable holds one StatsRow per variable of a run
type StatsTable struct {
	Names []VariableName
	Rows  []StatsRow
}

// Lookup returns the row for name
func (t *StatsTable) Lookup(name VariableName) (StatsRow, bool) {
	i := slices.Index(t.Names, name)
	if i < 0 {
		return StatsRow{}, false
	}
	return t.Rows[i], true
}

// ============================================================================
// REPORT
// ============================================================================

// ReportRow is one (variable, run) line of an aligned report
type ReportRow struct {
	Label    string       `json:"label"` // empty for the 2nd..nth run of a variable group
	Variable VariableName `json:"variable"`
	Run      int          `json:"run"`
	Stats    StatsRow     `json:"stats"`
}

// AlignedReport is the presentation-ready merge of one or more runs
type AlignedReport struct {
	Rows   []ReportRow `json:"rows"`
	Runs   int         `json:"runs"`
	Shared bool        `json:"shared"` // false when runs had no variable in common
}
