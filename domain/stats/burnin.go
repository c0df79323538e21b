package stats

import (
	"logstat/internal/errors"
)

// PadBurnIn returns exactly runs burn-in fractions. Missing trailing entries
// repeat the last supplied value; no values at all means no burn-in.
func PadBurnIn(values []float64, runs int) ([]float64, error) {
	for i, b := range values {
		if !(b >= 0 && b < 1) {
			return nil, errors.InvalidArgument("burn-in %d is %v, want 0 <= burn-in < 1", i, b)
		}
	}
	return padList(values, runs, 0), nil
}

// PadSkipRows returns exactly runs leading-row skip counts, padded like PadBurnIn
func PadSkipRows(values []int, runs int) ([]int, error) {
	for i, n := range values {
		if n < 0 {
			return nil, errors.InvalidArgument("skip rows %d is %d, want >= 0", i, n)
		}
	}
	return padList(values, runs, 0), nil
}

func padList[T any](values []T, n int, def T) []T {
	out := make([]T, n)
	for i := range out {
		switch {
		case i < len(values):
			out[i] = values[i]
		case len(values) > 0:
			out[i] = values[len(values)-1]
		default:
			out[i] = def
		}
	}
	return out
}
