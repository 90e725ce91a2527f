package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is a table with ordered columns. Each row holds one cell per header.
type Dataset struct {
	Title    string
	Subtitle string
	Headers  []string
	Rows     [][]string
	// Widths are relative column weights used by the PDF renderer; nil means equal columns.
	Widths []float64
}

func (d Dataset) validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(d.Headers))
		}
	}
	if d.Widths != nil && len(d.Widths) != len(d.Headers) {
		return fmt.Errorf("dataset has %d widths for %d headers", len(d.Widths), len(d.Headers))
	}
	return nil
}

// CSVExporter renders datasets as CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV bytes with a header line followed by the rows.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(data.Rows); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}
