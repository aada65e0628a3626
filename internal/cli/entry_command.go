package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"timesheet/internal/api"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/timecalc"
)

// EntryCommand handles manual edits of a single day
type EntryCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewEntryCommand creates a new entry command handler
func NewEntryCommand(app *App) *EntryCommand {
	return &EntryCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Set writes the start and end of dateKey. Either value may be HH:MM on
// that date in the reference zone or a full RFC3339 instant; an empty end
// leaves the day open.
func (c *EntryCommand) Set(ctx context.Context, dateKey, start, end string) error {
	startAt, err := c.parseClock(dateKey, start, "start")
	if err != nil {
		return c.errorHandler.Handle("set entry", err)
	}
	endAt, err := c.parseClock(dateKey, end, "end")
	if err != nil {
		return c.errorHandler.Handle("set entry", err)
	}

	entry, err := c.businessAPI.SetEntry(ctx, dateKey, startAt, endAt)
	if err != nil {
		return c.errorHandler.Handle("set entry", err)
	}

	total := "open"
	if entry.TotalHHMM != nil {
		total = *entry.TotalHHMM
	}
	fmt.Fprintf(c.app.out, "Saved %s: %s - %s (%s)\n", entry.DateKey,
		c.app.clock(entry.StartTime), c.app.clock(entry.EndTime), total)
	return nil
}

// Delete removes the entry stored for dateKey
func (c *EntryCommand) Delete(ctx context.Context, dateKey string) error {
	if err := c.businessAPI.DeleteEntry(ctx, dateKey); err != nil {
		return c.errorHandler.Handle("delete entry", err)
	}
	fmt.Fprintf(c.app.out, "Deleted %s\n", dateKey)
	return nil
}

func (c *EntryCommand) parseClock(dateKey, value, field string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if strings.Contains(value, "T") {
		t, err := c.app.calendar.ParseInstant(value)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	day, err := timecalc.ParseDateKey(dateKey)
	if err != nil {
		return nil, err
	}
	clock, err := time.Parse("15:04", value)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(field, value, "expected HH:MM or an RFC3339 timestamp")
	}
	t := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, c.app.calendar.Location())
	return &t, nil
}
