package mcmc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logstat/domain/stats"
	"logstat/internal/errors"
	"logstat/internal/testkit"
)

func arange(from, to float64) []float64 {
	var out []float64
	for v := from; v < to; v++ {
		out = append(out, v)
	}
	return out
}

func columnMatrix(t *testing.T, names []stats.VariableName, cols ...[]float64) *stats.SampleMatrix {
	t.Helper()
	rows := make([][]float64, len(cols[0]))
	for i := range rows {
		rows[i] = make([]float64, len(cols))
		for j, col := range cols {
			rows[i][j] = col[i]
		}
	}
	m, err := stats.NewSampleMatrix(names, rows)
	require.NoError(t, err)
	return m
}

func TestEffectiveSampleSize_KnownValues(t *testing.T) {
	states := arange(1, 11)

	ess, err := EffectiveSampleSize(states, 2)
	require.NoError(t, err)
	assert.Equal(t, 10.0, ess)

	ess, err = EffectiveSampleSize(states, 4)
	require.NoError(t, err)
	assert.Equal(t, 2.0, ess)
}

func TestEffectiveSampleSize_ConstantSeries(t *testing.T) {
	ess, err := EffectiveSampleSize(make([]float64, 10), 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ess)
}

func TestEffectiveSampleSize_InvalidArguments(t *testing.T) {
	states := arange(1, 11)

	for _, maxLag := range []int{0, -1, 10, 11} {
		_, err := EffectiveSampleSize(states, maxLag)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument), "max lag %d", maxLag)
	}

	_, err := EffectiveSampleSize(nil, 2)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument))
}

func TestEffectiveSampleSizes_Matrix(t *testing.T) {
	x := arange(1, 11)
	shifted := arange(11, 21)
	m := columnMatrix(t, []stats.VariableName{"x", "x10"}, x, shifted)

	ess, err := EffectiveSampleSizes(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3}, ess)
}

func TestEffectiveSampleSizes_ShiftInvariant(t *testing.T) {
	base := []float64{1, 3, 2, 5, 4, 6, 5, 8}
	shifted := make([]float64, len(base))
	for i, v := range base {
		shifted[i] = v + 1000.5
	}
	m := columnMatrix(t, []stats.VariableName{"a", "b", "c"}, base, shifted, []float64{7, 7, 7, 7, 7, 7, 7, 7})

	ess, err := EffectiveSampleSizes(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3, 0}, ess)
}

func TestEffectiveSampleSizes_InexactConstantColumns(t *testing.T) {
	for _, n := range []int{100, 1000} {
		for _, c := range []float64{0.1, 0.3, 1.1} {
			col := make([]float64, n)
			for i := range col {
				col[i] = c
			}
			m := columnMatrix(t, []stats.VariableName{"c"}, col)

			ess, err := EffectiveSampleSizes(m)
			require.NoError(t, err)
			assert.Equal(t, []float64{0}, ess, "constant %v over %d iterations", c, n)
		}
	}
}

func TestEffectiveSampleSizes_AlternatingChain(t *testing.T) {
	m := columnMatrix(t, []stats.VariableName{"flip"}, []float64{1, 2, 1, 2, 1, 2, 1, 2})

	ess, err := EffectiveSampleSizes(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{8}, ess)
}

func TestEffectiveSampleSizes_TooShort(t *testing.T) {
	m := columnMatrix(t, []stats.VariableName{"x"}, []float64{1})

	_, err := EffectiveSampleSizes(m)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument))
}

func TestEffectiveSampleSizes_LagCap(t *testing.T) {
	n := MaxLagCap + 500
	col := make([]float64, n)
	for i := range col {
		col[i] = float64(i % 7)
	}
	m := columnMatrix(t, []stats.VariableName{"long"}, col)

	ess, err := EffectiveSampleSizes(m)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ess[0], 0.0)
}

func TestEffectiveSampleSizes_AutocorrelationLowersESS(t *testing.T) {
	m, err := testkit.NewChainGenerator(testkit.ChainGeneratorConfig{
		Iterations: 2000,
		Seed:       11,
		Variables: []testkit.VariableSpec{
			{Name: "iid", StdDev: 1},
			{Name: "sticky", StdDev: 1, Autocorrelation: 0.95},
		},
	}).Generate()
	require.NoError(t, err)

	ess, err := EffectiveSampleSizes(m)
	require.NoError(t, err)
	assert.Greater(t, ess[0], 1000.0)
	assert.Less(t, ess[1], 500.0)
	assert.Greater(t, ess[1], 0.0)
}
