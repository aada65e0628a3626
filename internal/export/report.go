// Package export renders period reports as CSV, PDF or XLSX and writes
// JSON backups of recent day entries.
package export

import (
	"fmt"
	"strings"
	"time"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/services"
	"timesheet/internal/timecalc"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format
var Formats = []Format{FormatCSV, FormatPDF, FormatXLSX}

// ParseFormat accepts a format name in any case
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", apperrors.NewInvalidInputError("format", s, "must be one of csv, pdf, xlsx")
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Placeholder marks a missing clock time.
const Placeholder = "--"

// Row is one exported day
type Row struct {
	Date    string
	Start   string
	End     string
	Total   string
	Minutes int
}

// Report is the format-independent content of an export
type Report struct {
	UserID string
	Period timecalc.Period
	// PeriodLabel names the bounds for readers, e.g. "Mar 1, 2025 to Apr 1, 2025"
	PeriodLabel    string
	GeneratedAt    time.Time
	Rows           []Row
	TotalMinutes   int
	Total          string
	AverageMinutes int
}

// Document is a rendered export ready to be written or served
type Document struct {
	Format      Format
	Filename    string
	ContentType string
	Data        []byte
}

// NewReport builds report rows from a period summary. Clock times are shown
// in the calendar's zone; open days show a placeholder end and no total.
func NewReport(cal *timecalc.Calendar, userID string, summary *services.PeriodSummary, generatedAt time.Time) *Report {
	report := &Report{
		UserID:         userID,
		Period:         summary.Period,
		PeriodLabel:    cal.HumanDate(summary.Period.Start) + " to " + cal.HumanDate(summary.Period.End),
		GeneratedAt:    generatedAt,
		Rows:           make([]Row, 0, len(summary.Days)),
		TotalMinutes:   summary.TotalMinutes,
		Total:          summary.Total,
		AverageMinutes: summary.AverageMinutes,
	}

	for _, day := range summary.Days {
		row := Row{
			Date:    day.DateKey,
			Start:   clockOrPlaceholder(cal, day.StartTime),
			End:     clockOrPlaceholder(cal, day.EndTime),
			Total:   Placeholder,
			Minutes: day.RoundedMinutes,
		}
		if !day.Open && day.EndTime != nil {
			row.Total = day.Total
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}

func clockOrPlaceholder(cal *timecalc.Calendar, t *time.Time) string {
	if s := cal.ClockTime(t); s != "" {
		return s
	}
	return Placeholder
}

// Filename returns report-YYYYMMDD-YYYYMMDD.<ext> for the period
func Filename(format Format, period timecalc.Period) string {
	return fmt.Sprintf("report-%s-%s.%s",
		strings.ReplaceAll(period.StartDateKey, "-", ""),
		strings.ReplaceAll(period.EndDateKey, "-", ""),
		format)
}

// Build renders the report in the given format
func Build(format Format, report *Report) (*Document, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = BuildCSV(report)
	case FormatPDF:
		data, err = BuildPDF(report)
	case FormatXLSX:
		data, err = BuildXLSX(report)
	default:
		return nil, apperrors.NewInvalidInputError("format", string(format), "must be one of csv, pdf, xlsx")
	}
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", format, err)
	}

	return &Document{
		Format:      format,
		Filename:    Filename(format, report.Period),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}
