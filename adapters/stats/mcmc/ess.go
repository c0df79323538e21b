package mcmc

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"logstat/domain/stats"
	"logstat/internal/errors"
)

// MaxLagCap bounds the autocovariance scan so a column costs at most O(N*MaxLagCap).
const MaxLagCap = 2000

// EffectiveSampleSize estimates the number of independent draws equivalent to
// samples, using Geyer's initial positive sequence over the un-centered
// autocovariances gamma[0..maxLag). Callers are expected to have de-meaned
// samples already.
//
// The variance inflation starts at gamma[0]; each even lag adds twice the sum
// of the adjacent pair gamma[lag-1]+gamma[lag] and the scan stops at the first
// non-positive pair. A series without positive variance (e.g. constant) has
// an ESS of 0.
func EffectiveSampleSize(samples []float64, maxLag int) (float64, error) {
	if maxLag <= 0 {
		return 0, errors.InvalidArgument("max lag must be positive, got %d", maxLag)
	}
	n := len(samples)
	if n <= maxLag {
		return 0, errors.InvalidArgument("need more than %d samples for max lag %d, got %d", maxLag, maxLag, n)
	}

	gamma := make([]float64, maxLag)
	variance := 0.0
	for lag := 0; lag < maxLag; lag++ {
		gamma[lag] = floats.Dot(samples[:n-lag], samples[lag:]) / float64(n-lag)

		if lag == 0 {
			variance = gamma[0]
			continue
		}
		if lag%2 != 0 {
			continue
		}
		pair := gamma[lag-1] + gamma[lag]
		if pair <= 0 {
			break
		}
		variance += 2 * pair
	}

	if variance <= 0 {
		return 0, nil
	}
	return math.RoundToEven(float64(n) * gamma[0] / variance), nil
}

// EffectiveSampleSizes returns the ESS of every column of m. Each column is
// centered on its own mean and scanned up to min(N-1, MaxLagCap) lags; a
// constant column has an ESS of 0.
func EffectiveSampleSizes(m *stats.SampleMatrix) ([]float64, error) {
	n, k := m.Dims()
	maxLag := min(n-1, MaxLagCap)

	ess := make([]float64, k)
	for j := 0; j < k; j++ {
		col := m.Column(j)
		if len(col) > 0 && floats.Min(col) == floats.Max(col) {
			// centering a constant can leave rounding residue; it must be exactly zero
			floats.Scale(0, col)
		} else {
			floats.AddConst(-stat.Mean(col, nil), col)
		}

		v, err := EffectiveSampleSize(col, maxLag)
		if err != nil {
			return nil, errors.Wrapf(err, "effective sample size of %q", m.Names()[j])
		}
		ess[j] = v
	}
	return ess, nil
}
