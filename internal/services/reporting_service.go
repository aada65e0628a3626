package services

import (
	"context"

	"timesheet/internal/domain"
	"timesheet/internal/timecalc"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	entries  EntryService
	settings SettingsService
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(entries EntryService, settings SettingsService) ReportingService {
	return &reportingServiceImpl{entries: entries, settings: settings}
}

// Summary loads the period's entries and aggregates them under the user's
// rounding rule
func (r *reportingServiceImpl) Summary(ctx context.Context, userID string, period timecalc.Period) (*PeriodSummary, error) {
	settings, err := r.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := r.entries.List(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	return r.Summarize(period, settings.RoundingRule, entries), nil
}

// Summarize aggregates entries in the order given. Rounding applies per day
// before summing; open days count toward OpenDays but contribute no time.
// The average is taken over days with recorded time, rounded to the
// nearest minute.
func (r *reportingServiceImpl) Summarize(period timecalc.Period, rule timecalc.RoundingRule, entries []domain.DayEntry) *PeriodSummary {
	summary := &PeriodSummary{
		Period:       period,
		RoundingRule: rule,
		Days:         make([]DaySummary, 0, len(entries)),
	}

	for _, entry := range entries {
		if !period.Contains(entry.DateKey) {
			continue
		}

		day := DaySummary{
			DateKey:   entry.DateKey,
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
			Open:      entry.IsOpen(),
		}
		if entry.State() == domain.StateClosed {
			day.Minutes = entry.Minutes()
			day.RoundedMinutes = timecalc.RoundMinutes(day.Minutes, rule)
		}
		day.Total = timecalc.FormatMinutes(day.RoundedMinutes)
		summary.Days = append(summary.Days, day)

		if day.Open {
			summary.OpenDays++
		}
		if day.RoundedMinutes > 0 {
			summary.WorkedDays++
			summary.TotalMinutes += day.RoundedMinutes
		}
	}

	if summary.WorkedDays > 0 {
		summary.AverageMinutes = (summary.TotalMinutes + summary.WorkedDays/2) / summary.WorkedDays
	}
	summary.Total = timecalc.FormatMinutes(summary.TotalMinutes)
	summary.Average = timecalc.FormatMinutes(summary.AverageMinutes)
	return summary
}
