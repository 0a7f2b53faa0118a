package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"csvscope/domain/core"
)

// DataType classifies a column's inferred content
type DataType string

const (
	TypeNumeric DataType = "numeric"
	TypeBoolean DataType = "boolean"
	TypeDate    DataType = "date"
	TypeText    DataType = "text"
	TypeUnknown DataType = "unknown"
)

// Dataset represents one uploaded file's decoded tabular content.
// It is created on successful decode and never mutated afterwards;
// every derived structure (profiles, statistics, correlation) is
// recomputed from it on demand.
type Dataset struct {
	ID        core.FileID    `json:"id"`
	Filename  string         `json:"filename"`
	Encoding  string         `json:"encoding"` // "utf-8" or "shift_jis"
	Columns   []string       `json:"columns"`
	Rows      [][]string     `json:"-"` // raw cells, row-major; missing cells are empty
	CreatedAt core.Timestamp `json:"created_at"`
}

// FieldInfo describes a single column in the dataset
type FieldInfo struct {
	Name         string   `json:"name"`
	DataType     DataType `json:"data_type"`
	MissingCount int      `json:"missing_count"`
	UniqueCount  int      `json:"unique_count"`
	SampleValues []string `json:"sample_values,omitempty"`
}

// New creates a dataset from decoded header and rows.
func New(id core.FileID, filename, encoding string, columns []string, rows [][]string) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, core.ErrEmptyFile
	}
	return &Dataset{
		ID:        id,
		Filename:  filename,
		Encoding:  encoding,
		Columns:   columns,
		Rows:      rows,
		CreatedAt: core.Now(),
	}, nil
}

// RowCount returns the number of data rows (header excluded)
func (d *Dataset) RowCount() int {
	return len(d.Rows)
}

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int {
	return len(d.Columns)
}

// ColumnIndex returns the position of a column by name
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	for i, c := range d.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Column returns the raw cells of one column in row order.
// Rows shorter than the header contribute empty (missing) cells.
func (d *Dataset) Column(name string) ([]string, error) {
	idx, ok := d.ColumnIndex(name)
	if !ok {
		return nil, core.NewColumnNotFoundError(name)
	}
	cells := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		if idx < len(row) {
			cells[i] = row[idx]
		}
	}
	return cells, nil
}

// NumericValues returns the parsed values of a numeric column with
// missing cells excluded. The returned slice preserves row order.
// Cells that parse to a non-finite value ("inf", "-inf") are treated
// as missing: every downstream computation needs finite inputs.
func (d *Dataset) NumericValues(name string) ([]float64, error) {
	cells, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if IsMissing(cell) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, core.ErrNotNumeric
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}

// NumericColumns returns the ordered set of column names whose
// non-missing values all parse as numbers. Column order follows the
// dataset's original header order; the result is deterministic, so
// repeated calls on the same dataset always agree.
func (d *Dataset) NumericColumns() []string {
	numeric := make([]string, 0, len(d.Columns))
	for idx, name := range d.Columns {
		if d.columnIsNumeric(idx) {
			numeric = append(numeric, name)
		}
	}
	return numeric
}

func (d *Dataset) columnIsNumeric(idx int) bool {
	seen := 0
	for _, row := range d.Rows {
		if idx >= len(row) || IsMissing(row[idx]) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64); err != nil {
			return false
		}
		seen++
	}
	return seen > 0
}

// Head returns the first n data rows for preview
func (d *Dataset) Head(n int) [][]string {
	if n < 0 {
		n = 0
	}
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	return d.Rows[:n]
}

// Profile computes per-column field information
func (d *Dataset) Profile() []FieldInfo {
	fields := make([]FieldInfo, len(d.Columns))
	for idx, name := range d.Columns {
		fields[idx] = FieldInfo{
			Name:         name,
			DataType:     d.inferDataType(idx),
			MissingCount: d.countMissing(idx),
			UniqueCount:  d.countUnique(idx),
			SampleValues: d.sampleValues(idx, 5),
		}
	}
	return fields
}

// inferDataType infers a column type from up to the first 100 non-missing values
func (d *Dataset) inferDataType(idx int) DataType {
	hasNumbers := false
	hasDates := false
	hasBooleans := false
	hasText := false
	seen := 0

	for _, row := range d.Rows {
		if seen >= 100 {
			break
		}
		if idx >= len(row) || IsMissing(row[idx]) {
			continue
		}
		value := strings.TrimSpace(row[idx])
		seen++

		lower := strings.ToLower(value)
		if lower == "true" || lower == "false" || lower == "yes" || lower == "no" ||
			lower == "y" || lower == "n" {
			hasBooleans = true
			continue
		}
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			hasNumbers = true
			continue
		}
		if isLikelyDate(value) {
			hasDates = true
			continue
		}
		hasText = true
	}

	switch {
	case seen == 0:
		return TypeUnknown
	case hasText:
		return TypeText
	case hasBooleans && !hasNumbers && !hasDates:
		return TypeBoolean
	case hasDates && !hasNumbers:
		return TypeDate
	case hasNumbers && !hasDates && !hasBooleans:
		return TypeNumeric
	default:
		return TypeText
	}
}

func (d *Dataset) countMissing(idx int) int {
	count := 0
	for _, row := range d.Rows {
		if idx >= len(row) || IsMissing(row[idx]) {
			count++
		}
	}
	return count
}

func (d *Dataset) countUnique(idx int) int {
	seen := make(map[string]struct{})
	for _, row := range d.Rows {
		if idx >= len(row) || IsMissing(row[idx]) {
			continue
		}
		seen[strings.TrimSpace(row[idx])] = struct{}{}
	}
	return len(seen)
}

func (d *Dataset) sampleValues(idx, limit int) []string {
	var samples []string
	for _, row := range d.Rows {
		if idx >= len(row) || IsMissing(row[idx]) {
			continue
		}
		samples = append(samples, strings.TrimSpace(row[idx]))
		if len(samples) >= limit {
			break
		}
	}
	return samples
}

// IsMissing reports whether a raw cell counts as a null/missing value.
// Matches the usual CSV conventions for not-available markers.
func IsMissing(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "na", "n/a", "null", "nan":
		return true
	}
	return false
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`),
	regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`),
	regexp.MustCompile(`^[A-Za-z]{3,9} \d{1,2}, \d{4}$`),
	regexp.MustCompile(`^\d{1,2} [A-Za-z]{3,9} \d{4}$`),
}

// isLikelyDate checks if a string value looks like a date
func isLikelyDate(value string) bool {
	for _, pattern := range datePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}
