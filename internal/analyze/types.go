package analyze

import (
	"csvscope/domain/dataset"
	"csvscope/domain/stats"
	"csvscope/internal/config"
)

// Options are the per-request analysis options; they share the shape
// and clamping rules of the configured defaults.
type Options = config.AnalysisConfig

// FileInput is one uploaded file: original filename plus raw bytes
type FileInput struct {
	Filename string
	Content  []byte
}

// Request carries one analysis batch. Files are processed independently
// and results come back in upload order.
type Request struct {
	Files   []FileInput
	Options Options

	// Selections optionally overrides the default column pick per file,
	// keyed by FileID (upload index + filename). A key that is present
	// with an empty slice is an explicit empty selection and produces
	// an EmptySelection notice; an absent key means "use defaults".
	Selections map[string][]string
}

// Response is the structured result of one analysis batch
type Response struct {
	Results []FileResult `json:"results"`
}

// NoticeKind labels the per-file policy outcomes that halt analysis
// without being batch failures.
type NoticeKind string

const (
	NoticeDecodeError    NoticeKind = "decode_error"
	NoticeNoNumericData  NoticeKind = "no_numeric_data"
	NoticeEmptySelection NoticeKind = "empty_selection"
)

// Notice is a user-visible per-file message
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Preview summarizes a dataset for display before any statistics
type Preview struct {
	RowCount    int        `json:"row_count"`
	ColumnCount int        `json:"column_count"`
	Columns     []string   `json:"columns"`
	Rows        [][]string `json:"rows"`
}

// ColumnResult bundles the statistics and histogram for one selected column
type ColumnResult struct {
	Column     string                  `json:"column"`
	Statistics stats.SummaryStatistics `json:"statistics"`
	Histogram  *stats.Histogram        `json:"histogram"`
}

// FileResult is everything computed for one uploaded file. Exactly one
// of Notice or the analysis fields is meaningfully populated when a
// policy gate fires; a decode failure leaves only FileID, Filename and
// Notice set.
type FileResult struct {
	FileID   string `json:"file_id"`
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Encoding string `json:"encoding,omitempty"`

	Preview        *Preview            `json:"preview,omitempty"`
	Fields         []dataset.FieldInfo `json:"fields,omitempty"`
	NumericColumns []string            `json:"numeric_columns,omitempty"`
	Selected       []string            `json:"selected_columns,omitempty"`

	Columns []ColumnResult `json:"columns,omitempty"`
	Heatmap *stats.Heatmap `json:"heatmap,omitempty"`

	Report string  `json:"report,omitempty"` // Markdown summary
	Notice *Notice `json:"notice,omitempty"`
}

// Failed reports whether the file could not be ingested at all
func (r *FileResult) Failed() bool {
	return r.Notice != nil && r.Notice.Kind == NoticeDecodeError
}
