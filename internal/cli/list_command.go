package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"timesheet/internal/api"
)

// ListCommand handles the list command
type ListCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute lists the entries of the current or previous period, newest first
func (c *ListCommand) Execute(ctx context.Context, previous bool) error {
	period, err := c.app.resolvePeriod(ctx, previous)
	if err != nil {
		return c.errorHandler.Handle("resolve period", err)
	}
	entries, err := c.businessAPI.ListEntries(ctx, period)
	if err != nil {
		return c.errorHandler.Handle("list entries", err)
	}

	if len(entries) == 0 {
		fmt.Fprintf(c.app.out, "No entries in %s\n", period)
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSTART\tEND\tTOTAL")
	for _, e := range entries {
		total := placeholder
		if e.TotalHHMM != nil {
			total = *e.TotalHHMM
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.DateKey, c.app.clock(e.StartTime), c.app.clock(e.EndTime), total)
	}
	return w.Flush()
}
