// Package excel reads uploaded .xlsx workbooks into datasets.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"csvscope/domain/core"
	"csvscope/domain/dataset"
)

// Reader turns uploaded workbook bytes into a Dataset
type Reader struct{}

// NewReader creates an Excel reader
func NewReader() *Reader {
	return &Reader{}
}

// Decode reads the first sheet of an .xlsx upload. The first row is
// the header; remaining rows are data. Like CSV ingestion, a failure
// is fatal for this file only.
func (r *Reader) Decode(id core.FileID, filename string, raw []byte) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, core.NewDecodeError(filename, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, core.NewDecodeError(filename, fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, core.NewDecodeError(filename, err)
	}
	if len(rows) == 0 {
		return nil, core.ErrEmptyFile
	}

	return dataset.New(id, filename, "utf-8", rows[0], rows[1:])
}
