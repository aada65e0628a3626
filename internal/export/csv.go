package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

var header = []string{"Date", "Start", "End", "Total", "Minutes"}

// BuildCSV renders the report as CSV with a blank line before the
// total and average rows
func BuildCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range report.Rows {
		record := []string{row.Date, row.Start, row.End, row.Total, strconv.Itoa(row.Minutes)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	summary := [][]string{
		{},
		{"Total", "", "", report.Total, strconv.Itoa(report.TotalMinutes)},
		{"Average per day", "", "", "", strconv.Itoa(report.AverageMinutes)},
	}
	if err := writer.WriteAll(summary); err != nil {
		return nil, fmt.Errorf("failed to write CSV summary: %w", err)
	}
	return buf.Bytes(), nil
}
