package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin    = 10.0
	timeColWidth  = 16.0
	rowHeight     = 6.0
	portraitWidth = 190.0
	landscapeCols = 6
)

// PDFExporter renders a grid dataset as a shaded table.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType is the MIME type of the rendered output.
func (e *PDFExporter) ContentType() string {
	return "application/pdf"
}

// Render creates a PDF document. Grids with many date columns switch to landscape.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	orientation, width := "P", portraitWidth
	if len(data.Headers)-1 > landscapeCols {
		orientation, width = "L", 277.0
	}

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pageMargin, 15, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, data.Title, "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	colWidth := width
	if len(data.Headers) > 1 {
		colWidth = (width - timeColWidth) / float64(len(data.Headers)-1)
	}
	widthOf := func(col int) float64 {
		if col == 0 && len(data.Headers) > 1 {
			return timeColWidth
		}
		return colWidth
	}

	pdf.SetFont("Arial", "B", 9)
	for i, header := range data.Headers {
		pdf.CellFormat(widthOf(i), rowHeight+2, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	pdf.SetFillColor(187, 222, 251)
	for r, row := range data.Rows {
		for col := range data.Headers {
			value := ""
			if col < len(row) {
				value = row[col]
			}
			pdf.CellFormat(widthOf(col), rowHeight, value, "1", 0, "C", data.marked(r, col), 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
