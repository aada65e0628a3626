package cli

import (
	"context"
	"fmt"

	"timesheet/internal/api"
)

// PeriodCommand handles the period command
type PeriodCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewPeriodCommand creates a new period command handler
func NewPeriodCommand(app *App) *PeriodCommand {
	return &PeriodCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute prints the bounds of the current or previous period
func (c *PeriodCommand) Execute(ctx context.Context, previous bool) error {
	period, err := c.app.resolvePeriod(ctx, previous)
	if err != nil {
		return c.errorHandler.Handle("resolve period", err)
	}

	fmt.Fprintf(c.app.out, "Period %s\n", period)
	fmt.Fprintf(c.app.out, "  starts %s\n", c.app.formatTime(&period.Start))
	fmt.Fprintf(c.app.out, "  ends   %s\n", c.app.formatTime(&period.End))

	if previous {
		return nil
	}
	rollover, err := c.businessAPI.IsRolloverDay(ctx, timeNow())
	if err != nil {
		return c.errorHandler.Handle("load settings", err)
	}
	if rollover {
		fmt.Fprintln(c.app.out, "Today is a rollover day")
	}
	return nil
}
