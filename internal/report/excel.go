package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"csvscope/internal/errors"
)

// WriteWorkbook exports file summaries to an .xlsx workbook, one sheet
// per analyzed file: the statistics table followed by the correlation
// matrix when one was computed.
func WriteWorkbook(path string, summaries []FileSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range summaries {
		sheet := fmt.Sprintf("file_%d", i+1)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return errors.Wrapf(err, "failed to create sheet for %s", s.Filename)
			}
		}

		rows := summaryRows(s)
		for r, cells := range rows {
			for c, value := range cells {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return errors.Wrap(err, "failed to compute cell coordinates")
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return errors.Wrapf(err, "failed to write cell %s", cell)
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save workbook %s", path)
	}
	return nil
}

func summaryRows(s FileSummary) [][]interface{} {
	rows := [][]interface{}{
		{s.Filename},
		{"rows", s.RowCount, "columns", s.ColumnCount, "encoding", s.Encoding},
	}
	if s.Notice != "" {
		rows = append(rows, []interface{}{s.Notice})
		return rows
	}

	rows = append(rows,
		[]interface{}{},
		[]interface{}{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"})
	for _, st := range s.Stats {
		rows = append(rows, []interface{}{
			st.Column, st.Count, st.Mean, float64(st.StdDev), st.Min, st.Q25, st.Median, st.Q75, st.Max,
		})
	}

	if s.Correlation != nil {
		rows = append(rows, []interface{}{}, []interface{}{"correlation"})
		header := []interface{}{""}
		for _, label := range s.Correlation.Labels {
			header = append(header, label)
		}
		rows = append(rows, header)
		for i, label := range s.Correlation.Labels {
			row := []interface{}{label}
			for j := range s.Correlation.Labels {
				row = append(row, s.Correlation.Annotations[i][j])
			}
			rows = append(rows, row)
		}
	}
	return rows
}
