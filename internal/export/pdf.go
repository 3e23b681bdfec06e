package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"synthgrid/internal/generator"
	"synthgrid/internal/validation"
)

// BuildValidationPDF renders a one-page quality report for a dataset.
func BuildValidationPDF(report validation.Report, ds *generator.Dataset) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Dataset Quality Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s",
		ds.Start.Format("2006-01-02"), ds.End.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Frequency: %s", ds.Frequency))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Buildings: %d (%d with data)",
		report.BuildingsTotal, report.BuildingsWithData))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Observations: %d", report.Observations))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", ds.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Check", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Score", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	rows := []struct {
		name  string
		value float64
	}{
		{"Completeness", report.CompletenessPct},
		{"Referential integrity", report.IntegrityPct},
		{"Plausibility", report.PlausibilityPct},
		{"Overall", report.OverallScore},
	}
	for _, r := range rows {
		pdf.CellFormat(70, 6, r.name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", r.value), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if len(report.Warnings) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Warnings")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		for _, w := range report.Warnings {
			pdf.Cell(0, 5, "- "+w)
			pdf.Ln(5)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
