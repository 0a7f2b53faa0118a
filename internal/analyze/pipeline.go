// Package analyze runs the dataset analysis pipeline: decode an
// uploaded file, detect numeric columns, compute summary statistics
// and histograms for the selected columns, and correlate the numeric
// column set. Each file is processed independently; nothing is shared
// between files and a failure in one never touches the others.
package analyze

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"csvscope/adapters/csvio"
	"csvscope/adapters/excel"
	"csvscope/adapters/statseng"
	"csvscope/domain/core"
	"csvscope/domain/dataset"
	"csvscope/domain/stats"
	"csvscope/internal"
	"csvscope/internal/errors"
	"csvscope/internal/report"
)

// Pipeline orchestrates per-file analysis
type Pipeline struct {
	csv      *csvio.Decoder
	excel    *excel.Reader
	engine   *statseng.Engine
	reporter *report.Builder
	logger   *internal.Logger
}

// NewPipeline creates an analysis pipeline
func NewPipeline(logger *internal.Logger) *Pipeline {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Pipeline{
		csv:      csvio.NewDecoder(),
		excel:    excel.NewReader(),
		engine:   statseng.NewEngine(),
		reporter: report.NewBuilder(),
		logger:   logger,
	}
}

// Run processes every file in the request and returns results in
// upload order. Request-level validation failures return an error;
// per-file failures ride inside their own result slot.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Response, error) {
	if len(req.Files) == 0 {
		return nil, errors.InvalidInput("no files provided")
	}
	opts := req.Options.Clamped()

	results := make([]FileResult, len(req.Files))
	g, ctx := errgroup.WithContext(ctx)
	for i, file := range req.Files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.analyzeFile(i, file, req.Selections, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "analysis batch interrupted")
	}

	return &Response{Results: results}, nil
}

// analyzeFile runs the full pipeline for one file:
// ingest -> profile -> detect -> select -> describe/histogram -> correlate.
func (p *Pipeline) analyzeFile(index int, file FileInput, selections map[string][]string, opts Options) FileResult {
	id := core.NewFileID(index, file.Filename)
	result := FileResult{
		FileID:   id.String(),
		Index:    index,
		Filename: file.Filename,
	}

	ds, err := p.decode(id, file)
	if err != nil {
		p.logger.Warn("[Pipeline] ingestion failed for %s: %v", file.Filename, err)
		result.Notice = &Notice{
			Kind:    NoticeDecodeError,
			Message: fmt.Sprintf("could not read %s: %v", file.Filename, err),
		}
		result.Report = p.reporter.Markdown(report.FileSummary{
			Filename: file.Filename,
			Notice:   result.Notice.Message,
		})
		return result
	}

	result.Encoding = ds.Encoding
	result.Fields = ds.Profile()
	result.Preview = &Preview{
		RowCount:    ds.RowCount(),
		ColumnCount: ds.ColumnCount(),
		Columns:     ds.Columns,
		Rows:        ds.Head(opts.PreviewRows),
	}

	numeric := ds.NumericColumns()
	result.NumericColumns = numeric
	if len(numeric) == 0 {
		result.Notice = &Notice{
			Kind:    NoticeNoNumericData,
			Message: "no numeric data found in this file",
		}
		result.Report = p.fileReport(ds, result, nil, nil)
		return result
	}

	selected, explicit := p.selectColumns(id, numeric, selections, opts)
	result.Selected = selected
	if explicit && len(selected) == 0 {
		result.Notice = &Notice{
			Kind:    NoticeEmptySelection,
			Message: "select one or more columns to see statistics and plots",
		}
		result.Report = p.fileReport(ds, result, nil, nil)
		return result
	}

	for _, column := range selected {
		colResult, err := p.analyzeColumn(ds, column, opts)
		if err != nil {
			// Numeric detection already vetted the column; anything here
			// is unexpected and worth surfacing in the log, not the result.
			p.logger.Error("[Pipeline] column %s of %s: %v", column, file.Filename, err)
			continue
		}
		result.Columns = append(result.Columns, colResult)
	}

	// Correlation over the full numeric set, gated on the option and on
	// having at least two numeric columns. Skipping is policy, not error.
	var heatmap *stats.Heatmap
	if opts.ShowCorrelation && len(numeric) >= 2 {
		matrix, err := p.engine.CorrelationMatrix(ds, numeric)
		if err != nil {
			p.logger.Error("[Pipeline] correlation for %s: %v", file.Filename, err)
		} else {
			heatmap = stats.NewHeatmap(matrix)
			result.Heatmap = heatmap
		}
	}

	summaries := make([]stats.SummaryStatistics, len(result.Columns))
	for i, c := range result.Columns {
		summaries[i] = c.Statistics
	}
	result.Report = p.fileReport(ds, result, summaries, heatmap)

	p.logger.Info("[Pipeline] analyzed %s: %d rows, %d numeric columns, %d selected",
		file.Filename, ds.RowCount(), len(numeric), len(selected))
	return result
}

// decode dispatches on file extension: .xlsx goes through the Excel
// reader, everything else through the CSV decoder with its encoding
// fallback.
func (p *Pipeline) decode(id core.FileID, file FileInput) (*dataset.Dataset, error) {
	if strings.ToLower(filepath.Ext(file.Filename)) == ".xlsx" {
		return p.excel.Decode(id, file.Filename, file.Content)
	}
	return p.csv.Decode(id, file.Filename, file.Content)
}

// selectColumns resolves the columns to analyze for one file. An entry
// in the selections map takes precedence (filtered to the numeric set,
// selection order preserved; an explicitly empty entry stays empty).
// Without an entry the first MaxDefaultColumns numeric columns are used.
func (p *Pipeline) selectColumns(id core.FileID, numeric []string, selections map[string][]string, opts Options) (selected []string, explicit bool) {
	if chosen, ok := selections[id.String()]; ok {
		allowed := make(map[string]struct{}, len(numeric))
		for _, c := range numeric {
			allowed[c] = struct{}{}
		}
		selected = make([]string, 0, len(chosen))
		for _, c := range chosen {
			if _, ok := allowed[c]; ok {
				selected = append(selected, c)
			}
		}
		return selected, true
	}

	limit := opts.MaxDefaultColumns
	if limit > len(numeric) {
		limit = len(numeric)
	}
	return numeric[:limit], false
}

func (p *Pipeline) analyzeColumn(ds *dataset.Dataset, column string, opts Options) (ColumnResult, error) {
	values, err := ds.NumericValues(column)
	if err != nil {
		return ColumnResult{}, err
	}

	summary, err := p.engine.Describe(column, values)
	if err != nil {
		return ColumnResult{}, err
	}

	histogram, err := p.engine.Histogram(column, values, opts.HistogramBins, opts.ShowKDE)
	if err != nil {
		return ColumnResult{}, err
	}

	return ColumnResult{
		Column:     column,
		Statistics: summary,
		Histogram:  histogram,
	}, nil
}

func (p *Pipeline) fileReport(ds *dataset.Dataset, result FileResult, summaries []stats.SummaryStatistics, heatmap *stats.Heatmap) string {
	summary := report.FileSummary{
		Filename:       ds.Filename,
		Encoding:       ds.Encoding,
		RowCount:       ds.RowCount(),
		ColumnCount:    ds.ColumnCount(),
		NumericColumns: result.NumericColumns,
		Stats:          summaries,
		Correlation:    heatmap,
	}
	if result.Notice != nil {
		summary.Notice = result.Notice.Message
	}
	return p.reporter.Markdown(summary)
}
