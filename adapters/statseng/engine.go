// Package statseng computes descriptive statistics, pairwise Pearson
// correlation, and histogram/density payloads for numeric columns.
// All computations are pure: the same dataset always yields the same
// results.
package statseng

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	gstat "gonum.org/v1/gonum/stat"

	"csvscope/domain/core"
	"csvscope/domain/dataset"
	domstats "csvscope/domain/stats"
)

// Engine runs statistical computations over datasets
type Engine struct{}

// NewEngine creates a statistics engine
func NewEngine() *Engine {
	return &Engine{}
}

// Describe computes the summary statistics for one numeric column's
// values. Missing cells must already be excluded; Count reports the
// number of values actually used.
func (e *Engine) Describe(column string, values []float64) (domstats.SummaryStatistics, error) {
	if len(values) == 0 {
		return domstats.SummaryStatistics{}, core.ErrInsufficientData
	}

	mean, _ := stats.Mean(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	// Quartiles use linear interpolation on the sorted values, the same
	// convention as the bandwidth IQR. Defined for any non-empty column.
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	// Sample standard deviation; undefined for a single observation.
	stdDev := math.NaN()
	if len(values) > 1 {
		stdDev, _ = stats.StandardDeviationSample(values)
	}

	return domstats.SummaryStatistics{
		Column: column,
		Count:  len(values),
		Mean:   mean,
		StdDev: domstats.Coefficient(stdDev),
		Min:    min,
		Q25:    quantileSorted(sorted, 0.25),
		Median: quantileSorted(sorted, 0.5),
		Q75:    quantileSorted(sorted, 0.75),
		Max:    max,
	}, nil
}

// CorrelationMatrix computes pairwise Pearson coefficients over the
// given columns, ordered exactly as passed in. Rows where either member
// of a pair is missing are excluded for that pair only, so each
// coefficient uses the maximal complete subset of rows. Diagonal
// entries are exactly 1.0 and the matrix is symmetric by construction.
func (e *Engine) CorrelationMatrix(ds *dataset.Dataset, columns []string) (*domstats.CorrelationMatrix, error) {
	if len(columns) < 2 {
		return nil, core.ErrTooFewColumns
	}

	// Parse each column once, keeping NaN markers for missing cells so
	// rows stay aligned across columns.
	parsed := make([][]float64, len(columns))
	for i, name := range columns {
		col, err := parseAligned(ds, name)
		if err != nil {
			return nil, err
		}
		parsed[i] = col
	}

	n := len(columns)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1.0
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pairwisePearson(parsed[i], parsed[j])
			values[i][j] = r
			values[j][i] = r
		}
	}

	return &domstats.CorrelationMatrix{Columns: columns, Values: values}, nil
}

// parseAligned returns a column as floats with missing cells as NaN,
// one entry per dataset row. Non-finite cells become NaN as well, so
// pairwise exclusion drops those rows.
func parseAligned(ds *dataset.Dataset, name string) ([]float64, error) {
	cells, err := ds.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for i, cell := range cells {
		if dataset.IsMissing(cell) {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, core.ErrNotNumeric
		}
		if math.IsInf(v, 0) {
			v = math.NaN()
		}
		out[i] = v
	}
	return out, nil
}

// pairwisePearson computes the coefficient over rows where both values
// are present. Returns NaN when fewer than two complete pairs exist or
// either side has zero variance.
func pairwisePearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := gstat.Correlation(xs, ys, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}
