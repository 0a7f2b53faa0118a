package stats

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestCorrelationMatrix_Validate(t *testing.T) {
	nan := math.NaN()

	valid := &CorrelationMatrix{
		Columns: []string{"a", "b", "c"},
		Values: [][]float64{
			{1.0, 0.5, nan},
			{0.5, 1.0, -0.25},
			{nan, -0.25, 1.0},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Valid matrix rejected: %v", err)
	}

	badDiagonal := &CorrelationMatrix{
		Columns: []string{"a", "b"},
		Values:  [][]float64{{0.9, 0.5}, {0.5, 1.0}},
	}
	if err := badDiagonal.Validate(); err == nil {
		t.Error("Matrix with diagonal != 1.0 passed validation")
	}

	asymmetric := &CorrelationMatrix{
		Columns: []string{"a", "b"},
		Values:  [][]float64{{1.0, 0.5}, {0.6, 1.0}},
	}
	if err := asymmetric.Validate(); err == nil {
		t.Error("Asymmetric matrix passed validation")
	}

	ragged := &CorrelationMatrix{
		Columns: []string{"a", "b"},
		Values:  [][]float64{{1.0}},
	}
	if err := ragged.Validate(); err == nil {
		t.Error("Non-square matrix passed validation")
	}
}

func TestCorrelationMatrix_At(t *testing.T) {
	m := &CorrelationMatrix{
		Columns: []string{"a", "b"},
		Values:  [][]float64{{1.0, 0.75}, {0.75, 1.0}},
	}
	v, err := m.At("a", "b")
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if v != 0.75 {
		t.Errorf("At(a,b) = %v, want 0.75", v)
	}
	if _, err := m.At("a", "missing"); err == nil {
		t.Error("Expected error for unknown column")
	}
}

func TestAnnotations_TwoDecimalsAndNaN(t *testing.T) {
	m := &CorrelationMatrix{
		Columns: []string{"a", "b"},
		Values:  [][]float64{{1.0, math.NaN()}, {math.NaN(), 1.0}},
	}
	ann := m.Annotations()
	if ann[0][0] != "1.00" {
		t.Errorf("Annotation = %q, want 1.00", ann[0][0])
	}
	if ann[0][1] != "" {
		t.Errorf("NaN annotation = %q, want empty", ann[0][1])
	}
}

func TestCoefficient_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(Coefficient(math.NaN()))
	if err != nil {
		t.Fatalf("Marshal NaN failed: %v", err)
	}
	if string(raw) != "null" {
		t.Errorf("NaN marshaled as %s, want null", raw)
	}

	raw, err = json.Marshal(Coefficient(0.5))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(raw) != "0.5" {
		t.Errorf("0.5 marshaled as %s", raw)
	}
}

func TestHeatmap_EncodesWithNaN(t *testing.T) {
	m := &CorrelationMatrix{
		Columns: []string{"a", "b"},
		Values:  [][]float64{{1.0, math.NaN()}, {math.NaN(), 1.0}},
	}
	h := NewHeatmap(m)

	raw, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Heatmap with NaN cells must still encode: %v", err)
	}
	if !strings.Contains(string(raw), "null") {
		t.Errorf("Expected null cells in payload: %s", raw)
	}
	if len(h.Annotations) != 2 {
		t.Errorf("Annotations rows = %d, want 2", len(h.Annotations))
	}
}

func TestHistogram_BinsAndTotal(t *testing.T) {
	h := &Histogram{
		Column:   "v",
		BinEdges: []float64{0, 1, 2, 3},
		Counts:   []int{2, 0, 5},
	}
	if h.Bins() != 3 {
		t.Errorf("Bins = %d, want 3", h.Bins())
	}
	if h.Total() != 7 {
		t.Errorf("Total = %d, want 7", h.Total())
	}
}

func TestSummaryStatistics_EncodesNaNStdDev(t *testing.T) {
	s := SummaryStatistics{Column: "v", Count: 1, Mean: 42, StdDev: Coefficient(math.NaN())}
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Summary with NaN std must still encode: %v", err)
	}
	if !strings.Contains(string(raw), `"std":null`) {
		t.Errorf("Expected std:null in payload: %s", raw)
	}
}
