package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a basic tabular PDF.
type PDFExporter struct {
	// Widths holds relative column weights; columns share the page equally when empty.
	Widths []float64
}

// NewPDFExporter constructs a PDF exporter sized for the transcript layout.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{Widths: []float64{3, 2, 4, 1, 1}}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	records, err := data.records()
	if err != nil {
		return nil, err
	}
	widths := e.columnWidths(len(data.Headers), 190)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 8, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, record := range records {
		for i, value := range record {
			pdf.CellFormat(widths[i], 7, tr(value), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) columnWidths(cols int, total float64) []float64 {
	widths := make([]float64, cols)
	if len(e.Widths) != cols {
		for i := range widths {
			widths[i] = total / float64(cols)
		}
		return widths
	}
	var sum float64
	for _, w := range e.Widths {
		sum += w
	}
	for i, w := range e.Widths {
		widths[i] = total * w / sum
	}
	return widths
}
