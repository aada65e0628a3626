package timecalc

import (
	"fmt"
	"time"

	apperrors "timesheet/internal/errors"
)

const (
	MinRolloverDay  = 1
	MaxRolloverDay  = 28
	MinRolloverHour = 0
	MaxRolloverHour = 23
)

// Period is one monthly timesheet cycle, half-open [Start, End).
type Period struct {
	StartDateKey string    `json:"start"`
	EndDateKey   string    `json:"end"`
	Start        time.Time `json:"startAt"`
	End          time.Time `json:"endAt"`
}

// Contains reports whether a logical day key falls inside the period.
func (p Period) Contains(dateKey string) bool {
	return dateKey >= p.StartDateKey && dateKey < p.EndDateKey
}

func (p Period) String() string {
	return fmt.Sprintf("[%s, %s)", p.StartDateKey, p.EndDateKey)
}

// ValidateRollover checks the rollover settings. Out-of-range values are
// never clamped.
func ValidateRollover(day, hour int) error {
	if day < MinRolloverDay || day > MaxRolloverDay {
		return apperrors.NewConfigurationError("rollover_day", day,
			fmt.Sprintf("must be between %d and %d", MinRolloverDay, MaxRolloverDay))
	}
	if hour < MinRolloverHour || hour > MaxRolloverHour {
		return apperrors.NewConfigurationError("rollover_hour", hour,
			fmt.Sprintf("must be between %d and %d", MinRolloverHour, MaxRolloverHour))
	}
	return nil
}

// CurrentPeriod returns the period containing now. The boundary is the civil
// time rolloverDay at rolloverHour:00 in the reference zone; an instant equal
// to a boundary belongs to the period starting there.
func (c *Calendar) CurrentPeriod(now time.Time, rolloverDay, rolloverHour int) (Period, error) {
	if err := ValidateRollover(rolloverDay, rolloverHour); err != nil {
		return Period{}, err
	}
	if err := ValidateInstant(now); err != nil {
		return Period{}, err
	}

	local := c.ToReferenceZone(now)
	y, m, _ := local.Date()
	current := c.boundary(y, m, rolloverDay, rolloverHour)

	if !now.Before(current.at) {
		return period(current, c.boundary(y, m+1, rolloverDay, rolloverHour)), nil
	}
	return period(c.boundary(y, m-1, rolloverDay, rolloverHour), current), nil
}

// PreviousPeriod returns the period ending where the current one starts. It
// steps one civil day back from the current start and recomputes, which lands
// one whole period back whatever the month lengths.
func (c *Calendar) PreviousPeriod(now time.Time, rolloverDay, rolloverHour int) (Period, error) {
	current, err := c.CurrentPeriod(now, rolloverDay, rolloverHour)
	if err != nil {
		return Period{}, err
	}
	return c.CurrentPeriod(current.Start.AddDate(0, 0, -1), rolloverDay, rolloverHour)
}

// PeriodStartingOn returns the period whose start date key is dateKey.
func (c *Calendar) PeriodStartingOn(dateKey string, rolloverDay, rolloverHour int) (Period, error) {
	d, err := ParseDateKey(dateKey)
	if err != nil {
		return Period{}, err
	}
	if err := ValidateRollover(rolloverDay, rolloverHour); err != nil {
		return Period{}, err
	}
	if d.Day() != rolloverDay {
		return Period{}, apperrors.NewInvalidInputError("period", dateKey,
			fmt.Sprintf("periods start on day %d", rolloverDay))
	}
	return c.CurrentPeriod(c.boundary(d.Year(), d.Month(), rolloverDay, rolloverHour).at, rolloverDay, rolloverHour)
}

// rollover is one civil boundary: its date key and the first instant at or
// after its wall clock time.
type rollover struct {
	key string
	at  time.Time
}

// boundary resolves day at hour:00 of the given month in the reference zone.
// Month 0 and 13 normalise into the neighbouring year. When the wall time
// falls in a DST gap, time.Date may return an instant before it; the
// boundary then moves forward to the first instant after the gap, so the key
// stays on the requested day.
func (c *Calendar) boundary(year int, month time.Month, day, hour int) rollover {
	civil := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	at := time.Date(civil.Year(), civil.Month(), civil.Day(), hour, 0, 0, 0, c.loc)
	if wall := wallClock(at); wall.Before(civil) {
		at = at.Add(civil.Sub(wall))
	}
	return rollover{key: FormatDateKey(civil), at: at}
}

// wallClock reads t's local date and time as if it were UTC.
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func period(start, end rollover) Period {
	return Period{
		StartDateKey: start.key,
		EndDateKey:   end.key,
		Start:        start.at,
		End:          end.at,
	}
}
