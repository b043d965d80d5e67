// Package ingest decodes uploaded tabular data into raw complaints
package ingest

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	apperrors "github.com/rajasatyajit/grievance-insights/internal/errors"
	"github.com/rajasatyajit/grievance-insights/internal/models"
)

// DefaultColumn is the header read when the caller names no column
const DefaultColumn = "raw_text"

const utf8BOM = "\ufeff"

// CSVResult is the decoded content of one CSV upload
type CSVResult struct {
	// Column is the header actually read
	Column string
	// FirstColumnFallback is set when the requested column was missing and the
	// first column was used instead. Nothing checks that it holds text.
	FirstColumnFallback bool
	Complaints          []models.RawComplaint
}

// ReadCSV reads complaints from the named column of a CSV document with a
// header row. Rows may be ragged; a row too short for the column yields "".
// Blank cells are kept so that the pipeline decides what counts as empty.
func ReadCSV(r io.Reader, column string) (*CSVResult, error) {
	if column == "" {
		column = DefaultColumn
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.IngestError{Format: "csv", Message: "csv file is empty"}
	}
	if err != nil {
		return nil, apperrors.IngestError{Format: "csv", Message: "invalid csv format", Err: err}
	}

	idx, fallback := columnIndex(header, column)
	result := &CSVResult{
		Column:              strings.TrimSpace(strings.TrimPrefix(header[idx], utf8BOM)),
		FirstColumnFallback: fallback,
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.IngestError{Format: "csv", Message: "invalid csv format", Err: err}
		}

		text := ""
		if idx < len(record) {
			text = record[idx]
		}
		result.Complaints = append(result.Complaints, models.RawComplaint{RawText: text})
	}

	return result, nil
}

// columnIndex finds column in header, ignoring surrounding spaces and a UTF-8
// byte order mark. It falls back to the first column when absent.
func columnIndex(header []string, column string) (int, bool) {
	want := strings.TrimSpace(column)
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, utf8BOM)) == want {
			return i, false
		}
	}
	return 0, true
}
