package mcmc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logstat/domain/stats"
	"logstat/internal/errors"
)

func TestHeaderLabels(t *testing.T) {
	assert.Equal(t, []string{"ESS", "mean", "median", "25%", "75%", "stdev"}, HeaderLabels(0.5))
	assert.Equal(t, []string{"ESS", "mean", "median", "2.5%", "97.5%", "stdev"}, HeaderLabels(0.95))
	assert.Equal(t, []string{"ESS", "mean", "median", "5%", "95%", "stdev"}, HeaderLabels(0.9))
	assert.Equal(t, []string{"ESS", "mean", "median", "10%", "90%", "stdev"}, HeaderLabels(0.8))
	assert.Equal(t, []string{"ESS", "mean", "median", "0.5%", "99.5%", "stdev"}, HeaderLabels(0.99))
}

func TestCompute_IdenticalColumns(t *testing.T) {
	m := columnMatrix(t, []stats.VariableName{"a", "b"}, arange(1, 11), arange(1, 11))

	table, header, err := Compute(m, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []string{"ESS", "mean", "median", "25%", "75%", "stdev"}, header)
	assert.Equal(t, []stats.VariableName{"a", "b"}, table.Names)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, table.Rows[0], table.Rows[1])

	row := table.Rows[0]
	assert.Equal(t, 3.0, row.ESS)
	assert.InDelta(t, 5.5, row.Mean, 1e-12)
	assert.InDelta(t, 5.5, row.Median, 1e-12)
	assert.Equal(t, 1.0, row.HPDLower)
	assert.Equal(t, 5.0, row.HPDUpper)
	assert.InDelta(t, math.Sqrt(8.25), row.StdDev, 1e-12)
}

func TestCompute_MedianOddAndEven(t *testing.T) {
	odd := columnMatrix(t, []stats.VariableName{"x"}, []float64{9, 1, 5, 3, 7})
	table, _, err := Compute(odd, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, table.Rows[0].Median)

	even := columnMatrix(t, []stats.VariableName{"x"}, []float64{4, 1, 3, 2})
	table, _, err = Compute(even, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, table.Rows[0].Median)
}

func TestCompute_UsesUnsortedOrderForESS(t *testing.T) {
	// same values, different order: only the ESS may differ
	m := columnMatrix(t, []stats.VariableName{"flip", "ramp"},
		[]float64{1, 2, 1, 2, 1, 2, 1, 2},
		[]float64{1, 1, 1, 1, 2, 2, 2, 2},
	)

	table, _, err := Compute(m, 0.5)
	require.NoError(t, err)
	flip, ramp := table.Rows[0], table.Rows[1]
	assert.Equal(t, 8.0, flip.ESS)
	assert.Less(t, ramp.ESS, flip.ESS)
	assert.Equal(t, flip.Mean, ramp.Mean)
	assert.Equal(t, flip.Median, ramp.Median)
	assert.Equal(t, flip.StdDev, ramp.StdDev)
}

func TestCompute_Errors(t *testing.T) {
	_, _, err := Compute(columnMatrix(t, []stats.VariableName{"x"}, []float64{1}), 0.5)
	assert.True(t, errors.HasCode(err, errors.CodeEmptyInput), "single row")

	noColumns, err := stats.NewSampleMatrix(nil, [][]float64{{}, {}})
	require.NoError(t, err)
	_, _, err = Compute(noColumns, 0.5)
	assert.True(t, errors.HasCode(err, errors.CodeEmptyInput), "no columns")

	_, _, err = Compute(columnMatrix(t, []stats.VariableName{"x"}, arange(1, 11)), 1)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument), "bad proportion")
}

func TestTrimBurnIn(t *testing.T) {
	m := columnMatrix(t, []stats.VariableName{"x"}, arange(1, 11))

	trimmed, err := TrimBurnIn(m, 0.25)
	require.NoError(t, err)
	assert.Equal(t, arange(3, 11), trimmed.Column(0))

	same, err := TrimBurnIn(m, 0)
	require.NoError(t, err)
	assert.Equal(t, arange(1, 11), same.Column(0))

	_, err = TrimBurnIn(m, 1)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument))
}
