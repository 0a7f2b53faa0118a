package statseng

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"csvscope/domain/core"
	domstats "csvscope/domain/stats"
)

const (
	// Bin count bounds for histograms; requests outside the range are clamped.
	MinBins = 5
	MaxBins = 100

	kdeGridSize = 200
)

// ClampBins constrains a requested bin count to the supported range
func ClampBins(bins int) int {
	if bins < MinBins {
		return MinBins
	}
	if bins > MaxBins {
		return MaxBins
	}
	return bins
}

// Histogram bins the values of one numeric column into equal-width
// bins and optionally attaches a kernel density overlay. Missing cells
// must already be excluded from values.
func (e *Engine) Histogram(column string, values []float64, bins int, withKDE bool) (*domstats.Histogram, error) {
	values = finiteOnly(values)
	if len(values) == 0 {
		return nil, core.ErrInsufficientData
	}
	bins = ClampBins(bins)

	min := floats.Min(values)
	max := floats.Max(values)

	// A constant column still gets a drawable single bar.
	if min == max {
		return &domstats.Histogram{
			Column:   column,
			BinEdges: []float64{min - 0.5, min + 0.5},
			Counts:   []int{len(values)},
		}, nil
	}

	width := (max - min) / float64(bins)
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = min + float64(i)*width
	}
	edges[bins] = max // avoid float drift on the last edge

	counts := make([]int, bins)
	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1 // max falls into the final bin
		}
		counts[idx]++
	}

	h := &domstats.Histogram{
		Column:   column,
		BinEdges: edges,
		Counts:   counts,
	}
	if withKDE && len(values) > 1 {
		h.KDE = e.kde(values, min, max)
	}
	return h, nil
}

// kde evaluates a Gaussian kernel density estimate on an even grid
// spanning the data range. Bandwidth follows Silverman's rule of thumb.
func (e *Engine) kde(values []float64, min, max float64) []domstats.CurvePoint {
	n := float64(len(values))
	bw := silvermanBandwidth(values)
	if bw <= 0 || math.IsNaN(bw) {
		return nil
	}

	kernel := distuv.Normal{Mu: 0, Sigma: bw}
	lo := min - 3*bw
	hi := max + 3*bw
	step := (hi - lo) / float64(kdeGridSize-1)

	curve := make([]domstats.CurvePoint, kdeGridSize)
	for i := 0; i < kdeGridSize; i++ {
		x := lo + float64(i)*step
		density := 0.0
		for _, v := range values {
			density += kernel.Prob(x - v)
		}
		curve[i] = domstats.CurvePoint{X: x, Y: density / n}
	}
	return curve
}

// silvermanBandwidth computes 0.9 * min(sigma, IQR/1.34) * n^(-1/5)
func silvermanBandwidth(values []float64) float64 {
	n := float64(len(values))
	mean := floats.Sum(values) / n

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= n - 1
	sigma := math.Sqrt(variance)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	iqr := quantileSorted(sorted, 0.75) - quantileSorted(sorted, 0.25)

	spread := sigma
	if iqr > 0 && iqr/1.34 < spread {
		spread = iqr / 1.34
	}
	if spread <= 0 {
		return 0
	}
	return 0.9 * spread * math.Pow(n, -0.2)
}

// finiteOnly drops NaN and infinite entries. A non-finite value would
// poison the bin width and index arithmetic.
func finiteOnly(values []float64) []float64 {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			out := make([]float64, 0, len(values))
			for _, w := range values {
				if math.IsInf(w, 0) || math.IsNaN(w) {
					continue
				}
				out = append(out, w)
			}
			return out
		}
	}
	return values
}

// quantileSorted does linear interpolation on a sorted slice
func quantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
