package mcmc

import (
	"math"

	"logstat/domain/stats"
	"logstat/internal/errors"
)

// Interval is a closed credible interval
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Width returns Upper - Lower
func (iv Interval) Width() float64 {
	return iv.Upper - iv.Lower
}

// HPDWindow is the number of sorted draws an interval of the given coverage spans
func HPDWindow(proportion float64, n int) int {
	return max(1, int(math.RoundToEven(proportion*float64(n))))
}

// HPDInterval returns the narrowest window of HPDWindow(proportion, N)
// consecutive values of sorted, which must be ascending. When several windows
// share the minimal width the lowest one wins.
func HPDInterval(proportion float64, sorted []float64) (Interval, error) {
	if err := checkProportion(proportion); err != nil {
		return Interval{}, err
	}
	n := len(sorted)
	if n == 0 {
		return Interval{}, errors.EmptyInput("HPD interval of an empty series")
	}

	width := HPDWindow(proportion, n)
	best := 0
	bestRange := math.Inf(1)
	for i := 0; i+width <= n; i++ {
		if r := sorted[i+width-1] - sorted[i]; r < bestRange {
			bestRange = r
			best = i
		}
	}
	return Interval{Lower: sorted[best], Upper: sorted[best+width-1]}, nil
}

// HPDIntervals computes the HPD interval of every column of m. Set
// alreadySorted when m came from SortedColumns to skip the sort.
func HPDIntervals(proportion float64, m *stats.SampleMatrix, alreadySorted bool) ([]Interval, error) {
	if err := checkProportion(proportion); err != nil {
		return nil, err
	}
	if !alreadySorted {
		m = m.SortedColumns()
	}

	names := m.Names()
	intervals := make([]Interval, len(names))
	for j := range names {
		iv, err := HPDInterval(proportion, m.Column(j))
		if err != nil {
			return nil, errors.Wrapf(err, "HPD interval of %q", names[j])
		}
		intervals[j] = iv
	}
	return intervals, nil
}

func checkProportion(proportion float64) error {
	if !(proportion > 0 && proportion < 1) {
		return errors.InvalidArgument("HPD proportion must be in (0, 1), got %v", proportion)
	}
	return nil
}
