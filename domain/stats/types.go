package stats

import (
	"fmt"
	"math"
	"strconv"

	"csvscope/domain/core"
)

// SummaryStatistics is the five-number-plus-moments summary for one
// numeric column. Count is the number of non-null values used, not the
// dataset's total row count.
type SummaryStatistics struct {
	Column string      `json:"column"`
	Count  int         `json:"count"`
	Mean   float64     `json:"mean"`
	StdDev Coefficient `json:"std"` // NaN (single observation) serializes as null
	Min    float64     `json:"min"`
	Q25    float64     `json:"q25"`
	Median float64     `json:"median"`
	Q75    float64     `json:"q75"`
	Max    float64     `json:"max"`
}

// CorrelationMatrix holds pairwise Pearson coefficients over an ordered
// set of numeric columns.
// INVARIANTS:
// - square, dimension = len(Columns)
// - symmetric: Values[i][j] == Values[j][i]
// - diagonal entries are exactly 1.0
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// At returns the coefficient for a pair of columns by name
func (m *CorrelationMatrix) At(x, y string) (float64, error) {
	xi, yi := -1, -1
	for i, c := range m.Columns {
		if c == x {
			xi = i
		}
		if c == y {
			yi = i
		}
	}
	if xi < 0 {
		return 0, core.NewColumnNotFoundError(x)
	}
	if yi < 0 {
		return 0, core.NewColumnNotFoundError(y)
	}
	return m.Values[xi][yi], nil
}

// Dim returns the matrix dimension
func (m *CorrelationMatrix) Dim() int {
	return len(m.Columns)
}

// Validate checks the matrix invariants
func (m *CorrelationMatrix) Validate() error {
	n := len(m.Columns)
	if len(m.Values) != n {
		return fmt.Errorf("matrix has %d rows for %d columns", len(m.Values), n)
	}
	for i := range m.Values {
		if len(m.Values[i]) != n {
			return fmt.Errorf("row %d has %d entries for %d columns", i, len(m.Values[i]), n)
		}
		if m.Values[i][i] != 1.0 {
			return fmt.Errorf("diagonal entry %d is %f, want 1.0", i, m.Values[i][i])
		}
		for j := i + 1; j < n; j++ {
			a, b := m.Values[i][j], m.Values[j][i]
			if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
				return fmt.Errorf("matrix asymmetric at (%d,%d): %f != %f", i, j, a, b)
			}
		}
	}
	return nil
}

// Annotations renders every coefficient to two decimal places, in the
// same row/column order as Values. NaN cells (constant columns) render
// as an empty string.
func (m *CorrelationMatrix) Annotations() [][]string {
	out := make([][]string, len(m.Values))
	for i, row := range m.Values {
		out[i] = make([]string, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				out[i][j] = ""
				continue
			}
			out[i][j] = fmt.Sprintf("%.2f", v)
		}
	}
	return out
}

// CurvePoint is one sample of a kernel density curve
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Histogram holds equal-width bin counts for one numeric column,
// plus an optional kernel density overlay. The structure is the
// renderer-facing plot payload; drawing happens client-side.
type Histogram struct {
	Column   string       `json:"column"`
	BinEdges []float64    `json:"bin_edges"` // len = len(Counts) + 1
	Counts   []int        `json:"counts"`
	KDE      []CurvePoint `json:"kde,omitempty"`
}

// Bins returns the number of bins
func (h *Histogram) Bins() int {
	return len(h.Counts)
}

// Total returns the number of observations across all bins
func (h *Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// Coefficient is a correlation value that serializes NaN (undefined,
// e.g. a constant column) as JSON null instead of failing to encode.
type Coefficient float64

// MarshalJSON implements json.Marshaler
func (c Coefficient) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(c)) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(c), 'g', -1, 64)), nil
}

// Heatmap is the renderer-facing payload for the correlation heatmap:
// the matrix values alongside two-decimal cell annotations.
type Heatmap struct {
	Labels      []string        `json:"labels"`
	Values      [][]Coefficient `json:"values"`
	Annotations [][]string      `json:"annotations"`
}

// NewHeatmap builds a heatmap payload from a correlation matrix
func NewHeatmap(m *CorrelationMatrix) *Heatmap {
	values := make([][]Coefficient, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]Coefficient, len(row))
		for j, v := range row {
			values[i][j] = Coefficient(v)
		}
	}
	return &Heatmap{
		Labels:      m.Columns,
		Values:      values,
		Annotations: m.Annotations(),
	}
}
