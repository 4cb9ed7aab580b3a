package synth

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Inspection is what a client learns about a dataset before registering
// it. Only these facts (plus a content hash) ever leave the client.
type Inspection struct {
	Headers  []string `json:"headers" yaml:"headers"`
	Columns  []Column `json:"columns" yaml:"columns"`
	RowCount int      `json:"rowCount" yaml:"row_count"`
}

// InspectCSV reads the header line and counts the data rows of a CSV
// document. An empty document yields the fallback schema.
func InspectCSV(content []byte) (*Inspection, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Inspection{Columns: FallbackColumns()}, nil
		}

		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	rows := 0
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", rows+1, err)
		}

		rows++
	}

	return &Inspection{
		Headers:  headers,
		Columns:  ClassifyOrFallback(headers),
		RowCount: rows,
	}, nil
}
