package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"csvscope/domain/core"
	"csvscope/internal"
	"csvscope/internal/analyze"
	"csvscope/internal/config"
	"csvscope/internal/report"
)

var (
	anaBins    int
	anaKDE     bool
	anaMaxCols int
	anaCorr    bool
	anaColumns []string
	anaXLSX    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <files...>",
	Short: "Analyze CSV/XLSX files and print a Markdown report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		opts := cfg.Analysis
		if cmd.Flags().Changed("bins") {
			opts.HistogramBins = anaBins
		}
		if cmd.Flags().Changed("kde") {
			opts.ShowKDE = anaKDE
		}
		if cmd.Flags().Changed("max-cols") {
			opts.MaxDefaultColumns = anaMaxCols
		}
		if cmd.Flags().Changed("corr") {
			opts.ShowCorrelation = anaCorr
		}

		req := analyze.Request{Options: opts.Clamped()}
		for i, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			filename := filepath.Base(path)
			req.Files = append(req.Files, analyze.FileInput{Filename: filename, Content: content})

			// An explicit column list applies to every file in the batch.
			if len(anaColumns) > 0 {
				if req.Selections == nil {
					req.Selections = make(map[string][]string)
				}
				req.Selections[core.NewFileID(i, filename).String()] = anaColumns
			}
		}

		pipeline := analyze.NewPipeline(internal.NewDefaultLogger())
		resp, err := pipeline.Run(context.Background(), req)
		if err != nil {
			return err
		}

		for _, result := range resp.Results {
			fmt.Println(result.Report)
		}

		if anaXLSX != "" {
			summaries := make([]report.FileSummary, 0, len(resp.Results))
			for _, result := range resp.Results {
				summaries = append(summaries, fileSummary(result))
			}
			if err := report.WriteWorkbook(anaXLSX, summaries); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", anaXLSX)
		}
		return nil
	},
}

func fileSummary(result analyze.FileResult) report.FileSummary {
	s := report.FileSummary{
		Filename:       result.Filename,
		Encoding:       result.Encoding,
		NumericColumns: result.NumericColumns,
		Correlation:    result.Heatmap,
	}
	if result.Preview != nil {
		s.RowCount = result.Preview.RowCount
		s.ColumnCount = result.Preview.ColumnCount
	}
	for _, c := range result.Columns {
		s.Stats = append(s.Stats, c.Statistics)
	}
	if result.Notice != nil {
		s.Notice = result.Notice.Message
	}
	return s
}

func init() {
	analyzeCmd.Flags().IntVar(&anaBins, "bins", 20, "histogram bin count (5-100)")
	analyzeCmd.Flags().BoolVar(&anaKDE, "kde", true, "overlay a kernel density curve on histograms")
	analyzeCmd.Flags().IntVar(&anaMaxCols, "max-cols", 5, "numeric columns auto-selected per file (1-12)")
	analyzeCmd.Flags().BoolVar(&anaCorr, "corr", true, "compute the correlation matrix (needs >=2 numeric columns)")
	analyzeCmd.Flags().StringSliceVar(&anaColumns, "columns", nil, "explicit column selection applied to every file")
	analyzeCmd.Flags().StringVar(&anaXLSX, "xlsx", "", "also write an .xlsx report to this path")
	rootCmd.AddCommand(analyzeCmd)
}
