package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"timesheet/internal/api"
	"timesheet/internal/timecalc"
)

// SummaryCommand handles the summary command
type SummaryCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand(app *App) *SummaryCommand {
	return &SummaryCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute prints per-day totals and the period aggregate
func (c *SummaryCommand) Execute(ctx context.Context, previous bool) error {
	period, err := c.app.resolvePeriod(ctx, previous)
	if err != nil {
		return c.errorHandler.Handle("resolve period", err)
	}
	summary, err := c.businessAPI.Summary(ctx, period)
	if err != nil {
		return c.errorHandler.Handle("summarize period", err)
	}

	width := len(period.String()) + 8
	fmt.Fprintf(c.app.out, "Period %s\n", period)
	fmt.Fprintln(c.app.out, strings.Repeat("=", width))

	w := tabwriter.NewWriter(c.app.out, 0, 4, 2, ' ', 0)
	for _, day := range summary.Days {
		total := day.Total
		if day.Open {
			total = "open"
		} else if day.RoundedMinutes != day.Minutes {
			total = fmt.Sprintf("%s (%s)", day.Total, timecalc.FormatMinutes(day.Minutes))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", day.DateKey, c.app.clock(day.StartTime), c.app.clock(day.EndTime), total)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(c.app.out, strings.Repeat("-", width))
	fmt.Fprintf(c.app.out, "Total:           %s\n", summary.Total)
	fmt.Fprintf(c.app.out, "Days worked:     %d\n", summary.WorkedDays)
	fmt.Fprintf(c.app.out, "Average per day: %s\n", summary.Average)
	if summary.RoundingRule != timecalc.RoundNone {
		fmt.Fprintf(c.app.out, "Rounding:        %s minutes\n", summary.RoundingRule)
	}
	if summary.OpenDays > 0 {
		fmt.Fprintf(c.app.out, "Open days:       %d (not counted)\n", summary.OpenDays)
	}
	return nil
}
