package cli

import (
	"context"
	"fmt"
	"strings"

	"timesheet/internal/api"
)

// StampCommand handles the stamp command
type StampCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewStampCommand creates a new stamp command handler
func NewStampCommand(app *App) *StampCommand {
	return &StampCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute records a stamp at the given RFC3339 instant, or now when at is
// empty
func (c *StampCommand) Execute(ctx context.Context, at string) error {
	now := timeNow()
	if strings.TrimSpace(at) != "" {
		parsed, err := c.app.calendar.ParseInstant(at)
		if err != nil {
			return c.errorHandler.Handle("stamp", err)
		}
		now = parsed
	}

	report, err := c.businessAPI.Stamp(ctx, now)
	if err != nil {
		return c.errorHandler.Handle("stamp", err)
	}

	if report.Queued {
		fmt.Fprintf(c.app.out, "%s (%d pending)\n", report.Message, report.Pending)
		return nil
	}

	entry := report.Entry
	switch {
	case entry != nil && entry.TotalHHMM != nil:
		fmt.Fprintf(c.app.out, "%s: %s %s - %s (%s)\n", report.Message, report.DateKey,
			c.app.clock(entry.StartTime), c.app.clock(entry.EndTime), *entry.TotalHHMM)
	case entry != nil:
		fmt.Fprintf(c.app.out, "%s: %s at %s\n", report.Message, report.DateKey, c.app.clock(entry.StartTime))
	default:
		fmt.Fprintln(c.app.out, report.Message)
	}
	if report.Pending > 0 {
		fmt.Fprintf(c.app.out, "%d stamps still waiting to sync\n", report.Pending)
	}
	return nil
}
