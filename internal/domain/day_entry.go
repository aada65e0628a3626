package domain

import (
	"time"

	"timesheet/internal/timecalc"
)

// EntryState is where a logical day sits in the stamp lifecycle.
type EntryState int

const (
	StateEmpty EntryState = iota
	StateOpen
	StateClosed
)

func (s EntryState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "empty"
	}
}

// DayEntry represents one logical day for one user.
// This is a pure domain model without database-specific concerns.
type DayEntry struct {
	ID        int64
	UserID    string
	DateKey   string
	StartTime *time.Time
	EndTime   *time.Time
	TotalHHMM *string
}

// NewDayEntry creates an empty entry for the given logical day.
func NewDayEntry(userID, dateKey string) DayEntry {
	return DayEntry{UserID: userID, DateKey: dateKey}
}

// State derives the lifecycle state. A record without a start counts as
// empty even when an end is set.
func (e DayEntry) State() EntryState {
	switch {
	case e.StartTime == nil:
		return StateEmpty
	case e.EndTime == nil:
		return StateOpen
	default:
		return StateClosed
	}
}

// IsOpen returns true if the day has started but not stopped.
func (e DayEntry) IsOpen() bool {
	return e.State() == StateOpen
}

// WithInterval sets both ends, swapping them when out of order, and
// recomputes the duration. A nil end leaves the day open.
func (e DayEntry) WithInterval(start, end *time.Time) DayEntry {
	e.StartTime = copyTime(start)
	e.EndTime = copyTime(end)
	e.TotalHHMM = nil

	if e.StartTime == nil || e.EndTime == nil {
		return e
	}
	if e.EndTime.Before(*e.StartTime) {
		e.StartTime, e.EndTime = e.EndTime, e.StartTime
	}
	total := timecalc.FormatDuration(*e.StartTime, *e.EndTime)
	e.TotalHHMM = &total
	return e
}

// Minutes returns the worked minutes of a closed day. The stored duration
// text wins over the instants so manual corrections are honoured.
func (e DayEntry) Minutes() int {
	if e.TotalHHMM != nil {
		if m, err := timecalc.ParseDurationText(*e.TotalHHMM); err == nil {
			return m
		}
	}
	if e.StartTime != nil && e.EndTime != nil {
		return timecalc.DurationMinutes(*e.StartTime, *e.EndTime)
	}
	return 0
}

// Elapsed returns the running time of an open day, zero otherwise.
func (e DayEntry) Elapsed(now time.Time) time.Duration {
	if !e.IsOpen() || now.Before(*e.StartTime) {
		return 0
	}
	return now.Sub(*e.StartTime)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
