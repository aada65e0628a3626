package cli

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"timesheet/internal/api"
	"timesheet/internal/config"
	"timesheet/internal/timecalc"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// placeholder is printed for a missing clock time
const placeholder = "--"

// App represents the main CLI application
type App struct {
	businessAPI api.BusinessAPI
	config      *config.Config
	calendar    *timecalc.Calendar
	out         io.Writer
	gatherer    prometheus.Gatherer
}

// NewApp creates a new CLI application writing to out
func NewApp(businessAPI api.BusinessAPI, cfg *config.Config, calendar *timecalc.Calendar, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if calendar == nil {
		calendar = timecalc.NewCalendarIn(time.UTC)
	}
	return &App{
		businessAPI: businessAPI,
		config:      cfg,
		calendar:    calendar,
		out:         out,
	}
}

// WithGatherer sets the registry served by the serve command
func (a *App) WithGatherer(g prometheus.Gatherer) *App {
	a.gatherer = g
	return a
}

// formatTime renders an instant in the reference zone using the display
// format
func (a *App) formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return placeholder
	}
	return a.calendar.ToReferenceZone(*t).Format(a.config.Time.DisplayFormat)
}

// clock renders an instant as HH:MM in the reference zone
func (a *App) clock(t *time.Time) string {
	if s := a.calendar.ClockTime(t); s != "" {
		return s
	}
	return placeholder
}

// resolvePeriod returns the current or the previous period at now
func (a *App) resolvePeriod(ctx context.Context, previous bool) (timecalc.Period, error) {
	if previous {
		return a.businessAPI.PreviousPeriod(ctx, timeNow())
	}
	return a.businessAPI.CurrentPeriod(ctx, timeNow())
}
