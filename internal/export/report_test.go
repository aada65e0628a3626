package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/services"
	"timesheet/internal/timecalc"
)

var generated = time.Date(2025, 3, 31, 18, 0, 0, 0, time.UTC)

func testReport(t *testing.T) *Report {
	t.Helper()
	cal, err := timecalc.NewCalendar("Europe/Copenhagen")
	require.NoError(t, err)
	period, err := cal.CurrentPeriod(time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC), 1, 0)
	require.NoError(t, err)

	start := time.Date(2025, 3, 13, 7, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 13, 15, 30, 0, 0, time.UTC)
	openStart := time.Date(2025, 3, 14, 7, 15, 0, 0, time.UTC)

	summary := &services.PeriodSummary{
		Period: period,
		Days: []services.DaySummary{
			{DateKey: "2025-03-14", StartTime: &openStart, Open: true, Total: "00:00"},
			{DateKey: "2025-03-13", StartTime: &start, EndTime: &end, Minutes: 510, RoundedMinutes: 510, Total: "08:30"},
		},
		TotalMinutes:   510,
		Total:          "08:30",
		WorkedDays:     1,
		AverageMinutes: 510,
		Average:        "08:30",
		OpenDays:       1,
	}
	return NewReport(cal, "alice", summary, generated)
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"csv", "PDF", " xlsx "} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}

	_, err := ParseFormat("docx")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
}

func TestFilename(t *testing.T) {
	period := timecalc.Period{StartDateKey: "2025-03-01", EndDateKey: "2025-04-01"}

	assert.Equal(t, "report-20250301-20250401.csv", Filename(FormatCSV, period))
	assert.Equal(t, "report-20250301-20250401.xlsx", Filename(FormatXLSX, period))
}

func TestNewReport(t *testing.T) {
	report := testReport(t)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, Row{Date: "2025-03-14", Start: "08:15", End: "--", Total: "--", Minutes: 0}, report.Rows[0])
	assert.Equal(t, Row{Date: "2025-03-13", Start: "08:00", End: "16:30", Total: "08:30", Minutes: 510}, report.Rows[1])
	assert.Equal(t, "08:30", report.Total)
	assert.Equal(t, "Mar 1, 2025 to Apr 1, 2025", report.PeriodLabel)
}

func TestBuildCSV(t *testing.T) {
	doc, err := Build(FormatCSV, testReport(t))
	require.NoError(t, err)
	assert.Equal(t, "report-20250301-20250401.csv", doc.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", doc.ContentType)

	reader := csv.NewReader(bytes.NewReader(doc.Data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	// the blank separator line is skipped by the reader
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Date", "Start", "End", "Total", "Minutes"}, records[0])
	assert.Equal(t, []string{"2025-03-13", "08:00", "16:30", "08:30", "510"}, records[2])
	assert.Equal(t, []string{"Total", "", "", "08:30", "510"}, records[3])
	assert.Equal(t, []string{"Average per day", "", "", "", "510"}, records[4])
}

func TestBuildPDF(t *testing.T) {
	doc, err := Build(FormatPDF, testReport(t))
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
}

func TestBuildXLSX(t *testing.T) {
	doc, err := Build(FormatXLSX, testReport(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	defer f.Close()

	total, err := f.GetCellValue(summarySheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, "08:30", total)

	date, err := f.GetCellValue(daysSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-13", date)

	end, err := f.GetCellValue(daysSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "--", end)
}

func TestBuild_UnknownFormat(t *testing.T) {
	_, err := Build(Format("odt"), testReport(t))
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
}
