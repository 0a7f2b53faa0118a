// Package report renders analysis results as Markdown, HTML, and XLSX.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"csvscope/domain/stats"
)

// FileSummary is the report-facing view of one analyzed file
type FileSummary struct {
	Filename       string
	Encoding       string
	RowCount       int
	ColumnCount    int
	NumericColumns []string
	Stats          []stats.SummaryStatistics
	Correlation    *stats.Heatmap
	Notice         string
}

// Builder renders file summaries to Markdown
type Builder struct{}

// NewBuilder creates a report builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Markdown renders one file's analysis as a Markdown section
func (b *Builder) Markdown(s FileSummary) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s\n\n", s.Filename)
	if s.Notice != "" {
		fmt.Fprintf(&sb, "> %s\n", s.Notice)
		return sb.String()
	}

	fmt.Fprintf(&sb, "%d rows, %d columns (decoded as %s). Numeric columns: %s.\n\n",
		s.RowCount, s.ColumnCount, s.Encoding, joinOrNone(s.NumericColumns))

	if len(s.Stats) > 0 {
		sb.WriteString("| column | count | mean | std | min | 25% | 50% | 75% | max |\n")
		sb.WriteString("|---|---|---|---|---|---|---|---|---|\n")
		for _, st := range s.Stats {
			fmt.Fprintf(&sb, "| %s | %d | %.4g | %.4g | %.4g | %.4g | %.4g | %.4g | %.4g |\n",
				st.Column, st.Count, st.Mean, float64(st.StdDev), st.Min, st.Q25, st.Median, st.Q75, st.Max)
		}
		sb.WriteString("\n")
	}

	if s.Correlation != nil {
		sb.WriteString("### Correlation\n\n")
		sb.WriteString("| |")
		for _, label := range s.Correlation.Labels {
			fmt.Fprintf(&sb, " %s |", label)
		}
		sb.WriteString("\n|---|")
		for range s.Correlation.Labels {
			sb.WriteString("---|")
		}
		sb.WriteString("\n")
		for i, label := range s.Correlation.Labels {
			fmt.Fprintf(&sb, "| %s |", label)
			for j := range s.Correlation.Labels {
				fmt.Fprintf(&sb, " %s |", s.Correlation.Annotations[i][j])
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderHTML converts a Markdown report to HTML for the web UI
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
