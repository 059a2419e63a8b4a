package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter writes a grid dataset as comma separated values. A non-empty
// title is emitted first as a '#' comment line.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) ContentType() string {
	return "text/csv"
}

func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	width := len(data.Headers)
	if width == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	buf := &bytes.Buffer{}
	if data.Title != "" {
		fmt.Fprintf(buf, "# %s\n", data.Title)
	}

	records := make([][]string, 0, len(data.Rows)+1)
	records = append(records, data.Headers)
	for _, row := range data.Rows {
		// pad short rows so every line has one field per date column
		record := make([]string, width)
		copy(record, row)
		records = append(records, record)
	}
	if err := csv.NewWriter(buf).WriteAll(records); err != nil {
		return nil, fmt.Errorf("write grid csv: %w", err)
	}
	return buf.Bytes(), nil
}
