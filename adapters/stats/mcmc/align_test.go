package mcmc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logstat/domain/stats"
	"logstat/internal/errors"
)

func tableOf(names ...stats.VariableName) *stats.StatsTable {
	table := &stats.StatsTable{Names: names}
	for i := range names {
		table.Rows = append(table.Rows, stats.StatsRow{Mean: float64(i)})
	}
	return table
}

type labelled struct {
	label string
	name  stats.VariableName
	run   int
}

func shape(report *stats.AlignedReport) []labelled {
	var out []labelled
	for _, row := range report.Rows {
		out = append(out, labelled{row.Label, row.Variable, row.Run})
	}
	return out
}

func TestAlign_SingleRun(t *testing.T) {
	report, err := Align([]*stats.StatsTable{tableOf("c", "a", "b")})
	require.NoError(t, err)

	assert.True(t, report.Shared)
	assert.Equal(t, 1, report.Runs)
	assert.Equal(t, []labelled{{"c", "c", 0}, {"a", "a", 0}, {"b", "b", 0}}, shape(report))
}

func TestAlign_SharedVariablesFollowFirstRun(t *testing.T) {
	first := tableOf("a", "b", "c")
	second := tableOf("d", "c", "b")

	report, err := Align([]*stats.StatsTable{first, second})
	require.NoError(t, err)

	assert.True(t, report.Shared)
	assert.Equal(t, []labelled{
		{"b", "b", 0}, {"", "b", 1},
		{"c", "c", 0}, {"", "c", 1},
	}, shape(report))

	// stats come from the matching run's own row
	assert.Equal(t, 1.0, report.Rows[0].Stats.Mean)
	assert.Equal(t, 2.0, report.Rows[1].Stats.Mean)
	assert.Equal(t, 2.0, report.Rows[2].Stats.Mean)
	assert.Equal(t, 1.0, report.Rows[3].Stats.Mean)
}

func TestAlign_ThreeRuns(t *testing.T) {
	report, err := Align([]*stats.StatsTable{
		tableOf("z", "y", "x"),
		tableOf("x", "y"),
		tableOf("y", "x", "w"),
	})
	require.NoError(t, err)

	assert.Equal(t, []labelled{
		{"y", "y", 0}, {"", "y", 1}, {"", "y", 2},
		{"x", "x", 0}, {"", "x", 1}, {"", "x", 2},
	}, shape(report))
}

func TestAlign_DisjointFallsBack(t *testing.T) {
	report, err := Align([]*stats.StatsTable{tableOf("a", "b", "c"), tableOf("d")})
	require.NoError(t, err)

	assert.False(t, report.Shared)
	assert.Equal(t, []labelled{
		{"a", "a", 0}, {"b", "b", 0}, {"c", "c", 0},
		{"d", "d", 1},
	}, shape(report))
}

func TestAlign_NoTables(t *testing.T) {
	_, err := Align(nil)
	assert.True(t, errors.HasCode(err, errors.CodeEmptyInput))
}
