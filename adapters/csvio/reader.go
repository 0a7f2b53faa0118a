// Package csvio decodes uploaded CSV byte streams into datasets.
//
// Decoding tries UTF-8 first and falls back to Shift_JIS when the bytes
// are not valid UTF-8. The fallback decoder is permissive: undecodable
// bytes are replaced rather than rejected, so a file only fails
// ingestion when it cannot be parsed as CSV under either encoding.
package csvio

import (
	"bytes"
	"encoding/csv"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"csvscope/domain/core"
	"csvscope/domain/dataset"
)

const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
)

// Decoder turns raw uploaded bytes into a Dataset
type Decoder struct{}

// NewDecoder creates a CSV decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses raw bytes into a dataset. The first record is the
// header; remaining records are data rows. A failure here is fatal for
// this file only and carries core.ErrDecodeFailed.
func (d *Decoder) Decode(id core.FileID, filename string, raw []byte) (*dataset.Dataset, error) {
	encoding := EncodingUTF8
	reader := io.Reader(bytes.NewReader(raw))

	if !utf8.Valid(raw) {
		// Reset and retry with the fallback encoding.
		encoding = EncodingShiftJIS
		reader = transform.NewReader(bytes.NewReader(raw), japanese.ShiftJIS.NewDecoder())
	}

	records, err := parseRecords(reader)
	if err != nil && encoding == EncodingUTF8 {
		// Valid UTF-8 that still fails CSV parsing gets one more chance
		// through the fallback decoder before the file is given up on.
		encoding = EncodingShiftJIS
		sjis := transform.NewReader(bytes.NewReader(raw), japanese.ShiftJIS.NewDecoder())
		records, err = parseRecords(sjis)
	}
	if err != nil {
		return nil, core.NewDecodeError(filename, err)
	}
	if len(records) == 0 {
		return nil, core.ErrEmptyFile
	}

	return dataset.New(id, filename, encoding, records[0], records[1:])
}

func parseRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows
	cr.LazyQuotes = true
	return cr.ReadAll()
}
