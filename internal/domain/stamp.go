package domain

import "time"

// StampOutcome classifies what a stamp did to the day.
type StampOutcome string

const (
	OutcomeStarted StampOutcome = "started"
	OutcomeStopped StampOutcome = "stopped"
	OutcomeUpdated StampOutcome = "updated"
)

// Message returns the user-facing feedback line for the outcome.
func (o StampOutcome) Message() string {
	switch o {
	case OutcomeStarted:
		return "Day started"
	case OutcomeStopped:
		return "Day stopped"
	case OutcomeUpdated:
		return "End time updated"
	default:
		return string(o)
	}
}

// StampResult is the record to persist plus what happened.
type StampResult struct {
	Entry   DayEntry
	Outcome StampOutcome
}

// ApplyStamp computes the next state of a logical day. existing may be nil
// when nothing is on file. It never fails: every prior state has a defined
// successor.
//
//	empty  -> open    (start = now)
//	open   -> closed  (end = now)
//	closed -> closed  (start kept, end = now)
//
// Whenever both ends are set an out-of-order pair is swapped.
func ApplyStamp(userID, dateKey string, existing *DayEntry, now time.Time) StampResult {
	entry := NewDayEntry(userID, dateKey)
	if existing != nil {
		entry = *existing
		entry.UserID = userID
		entry.DateKey = dateKey
	}

	switch entry.State() {
	case StateEmpty:
		return StampResult{Entry: entry.WithInterval(&now, nil), Outcome: OutcomeStarted}
	case StateOpen:
		return StampResult{Entry: entry.WithInterval(entry.StartTime, &now), Outcome: OutcomeStopped}
	default:
		return StampResult{Entry: entry.WithInterval(entry.StartTime, &now), Outcome: OutcomeUpdated}
	}
}
