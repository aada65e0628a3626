package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "summary"
	daysSheet    = "days"
)

// BuildXLSX renders a workbook with a summary sheet and one row per day.
func BuildXLSX(report *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(daysSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Timesheet Report")
	_ = f.SetCellValue(summarySheet, "A3", "User")
	_ = f.SetCellValue(summarySheet, "B3", report.UserID)
	_ = f.SetCellValue(summarySheet, "A4", "Period start")
	_ = f.SetCellValue(summarySheet, "B4", report.Period.StartDateKey)
	_ = f.SetCellValue(summarySheet, "A5", "Period end")
	_ = f.SetCellValue(summarySheet, "B5", report.Period.EndDateKey)
	_ = f.SetCellValue(summarySheet, "A6", "Generated")
	_ = f.SetCellValue(summarySheet, "B6", report.GeneratedAt.UTC().Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A7", "Total")
	_ = f.SetCellValue(summarySheet, "B7", report.Total)
	_ = f.SetCellValue(summarySheet, "A8", "Total minutes")
	_ = f.SetCellValue(summarySheet, "B8", report.TotalMinutes)
	_ = f.SetCellValue(summarySheet, "A9", "Average per day")
	_ = f.SetCellValue(summarySheet, "B9", report.AverageMinutes)

	for i, title := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(daysSheet, cell, title)
	}
	for i, row := range report.Rows {
		r := i + 2
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("A%d", r), row.Date)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("B%d", r), row.Start)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("C%d", r), row.End)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("D%d", r), row.Total)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("E%d", r), row.Minutes)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
