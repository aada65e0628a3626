// Package timecalc holds the calendar arithmetic behind logical days and
// rollover periods. Everything here is pure: no I/O, no clock reads.
package timecalc

import (
	"fmt"
	"strings"
	"time"

	apperrors "timesheet/internal/errors"
)

const (
	// DefaultZone is the reference zone used when none is configured.
	DefaultZone = "Europe/Copenhagen"

	// DateKeyLayout is the layout of every persisted day key.
	DateKeyLayout = "2006-01-02"

	clockLayout = "15:04"
	humanLayout = "Jan 2, 2006"
)

// Calendar converts instants into the reference zone.
type Calendar struct {
	loc *time.Location
}

// NewCalendar loads the named IANA zone. An empty name selects DefaultZone.
func NewCalendar(zone string) (*Calendar, error) {
	if strings.TrimSpace(zone) == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, apperrors.NewConfigurationError("time.zone", zone, "unknown time zone")
	}
	return &Calendar{loc: loc}, nil
}

// NewCalendarIn wraps an already loaded location.
func NewCalendarIn(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

// Location returns the reference zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// ToReferenceZone returns the same instant viewed in the reference zone.
func (c *Calendar) ToReferenceZone(instant time.Time) time.Time {
	return instant.In(c.loc)
}

// FormatDateKey formats an already zoned moment as YYYY-MM-DD.
func FormatDateKey(zoned time.Time) string {
	return zoned.Format(DateKeyLayout)
}

// DateKey is the reference-zone calendar date of instant.
func (c *Calendar) DateKey(instant time.Time) string {
	return FormatDateKey(c.ToReferenceZone(instant))
}

// ClockTime renders a 24-hour HH:MM in the reference zone, or "" when the
// instant is absent.
func (c *Calendar) ClockTime(instant *time.Time) string {
	if instant == nil || instant.IsZero() {
		return ""
	}
	return c.ToReferenceZone(*instant).Format(clockLayout)
}

// HumanDate renders an instant as "Mar 14, 2025" in the reference zone.
func (c *Calendar) HumanDate(instant time.Time) string {
	return c.ToReferenceZone(instant).Format(humanLayout)
}

// ParseInstant parses an RFC3339 timestamp.
func (c *Calendar) ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperrors.NewInvalidInputError("instant", s, "instant is empty")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidInputError("instant", s, "expected RFC3339 timestamp")
	}
	return t, nil
}

// ValidateInstant rejects the zero time, which stands for "no instant".
func ValidateInstant(instant time.Time) error {
	if instant.IsZero() {
		return apperrors.NewInvalidInputError("instant", "", "instant is not set")
	}
	return nil
}

// ParseDateKey parses a YYYY-MM-DD day key. The result is midnight UTC of
// that civil date and only meaningful as a date.
func ParseDateKey(s string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, s)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidInputError("date", s, "expected YYYY-MM-DD")
	}
	return t, nil
}

// AddDays shifts a day key by n calendar days.
func AddDays(dateKey string, n int) (string, error) {
	t, err := ParseDateKey(dateKey)
	if err != nil {
		return "", err
	}
	return FormatDateKey(t.AddDate(0, 0, n)), nil
}

// IsRolloverDay reports whether now falls on the given day of month in the
// reference zone.
func (c *Calendar) IsRolloverDay(now time.Time, day int) bool {
	return c.ToReferenceZone(now).Day() == day
}

// FormatElapsed renders d as HH:MM:SS, used for the running clock of an
// open day. Negative durations render as zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
