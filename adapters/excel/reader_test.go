package excel

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"csvscope/domain/core"
)

func workbookBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for r, cells := range rows {
		for c, value := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName failed: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cell, value); err != nil {
				t.Fatalf("SetCellValue failed: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func TestDecode_FirstSheet(t *testing.T) {
	raw := workbookBytes(t, [][]interface{}{
		{"name", "score"},
		{"alice", 1.5},
		{"bob", 2.5},
	})

	r := NewReader()
	ds, err := r.Decode(core.NewFileID(0, "book.xlsx"), "book.xlsx", raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if ds.ColumnCount() != 2 {
		t.Errorf("Expected 2 columns, got %d", ds.ColumnCount())
	}
	if ds.RowCount() != 2 {
		t.Errorf("Expected 2 data rows, got %d", ds.RowCount())
	}
	if ds.Columns[1] != "score" {
		t.Errorf("Header not preserved: %v", ds.Columns)
	}

	// Cell values arrive as strings and flow through numeric detection.
	numeric := ds.NumericColumns()
	if len(numeric) != 1 || numeric[0] != "score" {
		t.Errorf("NumericColumns = %v, want [score]", numeric)
	}
}

func TestDecode_GarbageBytes(t *testing.T) {
	r := NewReader()
	_, err := r.Decode(core.NewFileID(0, "bad.xlsx"), "bad.xlsx", []byte("not a zip archive"))
	if err == nil {
		t.Fatal("Expected decode error for garbage input")
	}
	if !core.IsDecodeError(err) {
		t.Errorf("Expected a decode error, got %v", err)
	}
}

func TestDecode_EmptyWorkbook(t *testing.T) {
	raw := workbookBytes(t, nil)

	r := NewReader()
	_, err := r.Decode(core.NewFileID(0, "empty.xlsx"), "empty.xlsx", raw)
	if !errors.Is(err, core.ErrEmptyFile) {
		t.Fatalf("Expected ErrEmptyFile, got %v", err)
	}
}
