package testkit

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"logstat/domain/stats"
	"logstat/internal/errors"
)

// VariableSpec describes one sampled variable as a stationary AR(1) process
type VariableSpec struct {
	Name            string  `json:"name"`
	Mean            float64 `json:"mean"`
	StdDev          float64 `json:"stdev"`
	Autocorrelation float64 `json:"autocorrelation"` // lag-1, in (-1, 1)
}

// ChainGeneratorConfig configures the synthetic MCMC chain generator
type ChainGeneratorConfig struct {
	Iterations int            `json:"iterations"`
	Thin       int            `json:"thin"` // state increment between logged samples
	Seed       int64          `json:"seed"`
	Variables  []VariableSpec `json:"variables"`
}

// DefaultChainConfig returns a small BEAST-like run
func DefaultChainConfig() ChainGeneratorConfig {
	return ChainGeneratorConfig{
		Iterations: 1000,
		Thin:       1000,
		Seed:       42,
		Variables: []VariableSpec{
			{Name: "posterior", Mean: -1234.5, StdDev: 3, Autocorrelation: 0.5},
			{Name: "likelihood", Mean: -1200, StdDev: 2.5, Autocorrelation: 0.5},
			{Name: "mu", Mean: 0, StdDev: 1, Autocorrelation: 0.9},
			{Name: "kappa", Mean: 2, StdDev: 0.5, Autocorrelation: 0},
		},
	}
}

// ChainGenerator produces reproducible synthetic chains. Successive calls to
// Generate continue the same random stream.
type ChainGenerator struct {
	config ChainGeneratorConfig
	rng    *rand.Rand
}

// NewChainGenerator creates a chain generator seeded from config
func NewChainGenerator(config ChainGeneratorConfig) *ChainGenerator {
	if config.Thin <= 0 {
		config.Thin = 1
	}
	return &ChainGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate draws Iterations samples of every variable
func (g *ChainGenerator) Generate() (*stats.SampleMatrix, error) {
	if g.config.Iterations <= 0 {
		return nil, errors.InvalidArgument("iterations must be positive, got %d", g.config.Iterations)
	}
	names := make([]stats.VariableName, len(g.config.Variables))
	for j, v := range g.config.Variables {
		if !(v.Autocorrelation > -1 && v.Autocorrelation < 1) {
			return nil, errors.InvalidArgument("%s: autocorrelation must be in (-1, 1)", v.Name)
		}
		if v.StdDev < 0 {
			return nil, errors.InvalidArgument("%s: negative standard deviation", v.Name)
		}
		names[j] = stats.VariableName(v.Name)
	}

	rows := make([][]float64, g.config.Iterations)
	for i := range rows {
		rows[i] = make([]float64, len(g.config.Variables))
	}
	for j, v := range g.config.Variables {
		innovation := v.StdDev * math.Sqrt(1-v.Autocorrelation*v.Autocorrelation)
		x := v.Mean + v.StdDev*g.rng.NormFloat64()
		for i := range rows {
			if i > 0 {
				x = v.Mean + v.Autocorrelation*(x-v.Mean) + innovation*g.rng.NormFloat64()
			}
			rows[i][j] = x
		}
	}
	return stats.NewSampleMatrix(names, rows)
}

// WriteLog writes m as a sampler log: a comment line, a header led by the
// state column, then one line per iteration
func (g *ChainGenerator) WriteLog(w io.Writer, m *stats.SampleMatrix, sep string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# synthetic chain, seed %d\n", g.config.Seed)

	header := []string{"state"}
	for _, name := range m.Names() {
		header = append(header, string(name))
	}
	bw.WriteString(strings.Join(header, sep))
	bw.WriteByte('\n')

	n, k := m.Dims()
	columns := m.Columns()
	cells := make([]string, k+1)
	for i := 0; i < n; i++ {
		cells[0] = strconv.Itoa(i * g.config.Thin)
		for j := 0; j < k; j++ {
			cells[j+1] = strconv.FormatFloat(columns[j][i], 'g', -1, 64)
		}
		bw.WriteString(strings.Join(cells, sep))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
