package mcmc

import (
	"math"
	"strconv"
	"strings"

	mstats "github.com/montanaflynn/stats"

	"logstat/domain/stats"
	"logstat/internal/errors"
)

// Fixed header labels around the two HPD bounds
const (
	LabelESS    = "ESS"
	LabelMean   = "mean"
	LabelMedian = "median"
	LabelStdDev = "stdev"
)

// HeaderLabels returns the column labels of a stats table for the given HPD
// proportion; the bounds are named by their percentiles, e.g. 0.95 gives
// "2.5%" and "97.5%".
func HeaderLabels(proportion float64) []string {
	lower := (1 - proportion) / 2 * 100
	upper := 100 - lower
	return []string{LabelESS, LabelMean, LabelMedian, percentLabel(lower), percentLabel(upper), LabelStdDev}
}

func percentLabel(p float64) string {
	s := strconv.FormatFloat(p, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s + "%"
}

// TrimBurnIn discards the leading floor(fraction*N) iterations
func TrimBurnIn(m *stats.SampleMatrix, fraction float64) (*stats.SampleMatrix, error) {
	if !(fraction >= 0 && fraction < 1) {
		return nil, errors.InvalidArgument("burn-in must be in [0, 1), got %v", fraction)
	}
	n, _ := m.Dims()
	return m.TrimLeading(int(math.Floor(fraction * float64(n)))), nil
}

// Compute summarises every column of m: ESS, mean, median, the HPD interval
// of the given proportion and the population standard deviation. It also
// returns the matching header labels.
func Compute(m *stats.SampleMatrix, proportion float64) (*stats.StatsTable, []string, error) {
	n, k := m.Dims()
	if k == 0 {
		return nil, nil, errors.EmptyInput("no variables to summarise")
	}
	if n < 2 {
		return nil, nil, errors.EmptyInput("need at least 2 iterations, got %d", n)
	}
	if err := checkProportion(proportion); err != nil {
		return nil, nil, err
	}

	sorted := m.SortedColumns()
	intervals, err := HPDIntervals(proportion, sorted, true)
	if err != nil {
		return nil, nil, err
	}
	ess, err := EffectiveSampleSizes(m)
	if err != nil {
		return nil, nil, err
	}

	names := m.Names()
	table := &stats.StatsTable{Names: names, Rows: make([]stats.StatsRow, k)}
	for j := range names {
		col := m.Column(j)
		mean, err := mstats.Mean(col)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "mean of %q", names[j])
		}
		// population deviation: divides by N
		stdev, err := mstats.StandardDeviationPopulation(col)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "standard deviation of %q", names[j])
		}

		table.Rows[j] = stats.StatsRow{
			ESS:      ess[j],
			Mean:     mean,
			Median:   sortedMedian(sorted.Column(j)),
			HPDLower: intervals[j].Lower,
			HPDUpper: intervals[j].Upper,
			StdDev:   stdev,
		}
	}
	return table, HeaderLabels(proportion), nil
}

// sortedMedian expects an ascending, non-empty slice
func sortedMedian(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
