package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// BuildPDF renders a single-table PDF report.
func BuildPDF(report *Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Timesheet Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("User: %s", report.UserID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s %s", report.PeriodLabel, report.Period))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total: %s (%d min)", report.Total, report.TotalMinutes))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average per day: %d min", report.AverageMinutes))
	pdf.Ln(8)

	widths := []float64{40, 30, 30, 30, 30}
	pdf.SetFont("Arial", "B", 10)
	for i, title := range header {
		pdf.CellFormat(widths[i], 6, title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range report.Rows {
		pdf.CellFormat(widths[0], 6, row.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, row.Start, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, row.End, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, row.Total, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, strconv.Itoa(row.Minutes), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
