package timecalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "timesheet/internal/errors"
)

// RoundingRule controls how per-day minutes are rounded in totals.
type RoundingRule string

const (
	RoundNone RoundingRule = "none"
	Round5    RoundingRule = "5"
	Round10   RoundingRule = "10"
	Round15   RoundingRule = "15"
)

// RoundingRules lists the accepted rules.
var RoundingRules = []RoundingRule{RoundNone, Round5, Round10, Round15}

// ParseRoundingRule accepts the stored text form. Empty means none.
func ParseRoundingRule(s string) (RoundingRule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoundNone, nil
	}
	for _, r := range RoundingRules {
		if string(r) == s {
			return r, nil
		}
	}
	return "", apperrors.NewConfigurationError("rounding_rule", s, "must be one of none, 5, 10, 15")
}

// Step returns the rounding interval in minutes, 0 for none.
func (r RoundingRule) Step() int {
	switch r {
	case Round5:
		return 5
	case Round10:
		return 10
	case Round15:
		return 15
	default:
		return 0
	}
}

// FormatDuration renders end-start as HH:MM rounded to the nearest minute.
// Negative spans render as 00:00 and the hour part is not wrapped.
func FormatDuration(start, end time.Time) string {
	return FormatMinutes(DurationMinutes(start, end))
}

// DurationMinutes is the span in whole minutes, rounded, never negative.
func DurationMinutes(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int(d.Round(time.Minute) / time.Minute)
}

// FormatMinutes renders minutes as zero padded HH:MM.
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDurationText is the inverse of FormatMinutes.
func ParseDurationText(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, apperrors.NewInvalidInputError("duration", s, "expected HH:MM")
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 {
		return 0, apperrors.NewInvalidInputError("duration", s, "hours must be a non-negative number")
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return 0, apperrors.NewInvalidInputError("duration", s, "minutes must be two digits between 00 and 59")
	}
	return h*60 + m, nil
}

// RoundMinutes rounds to the nearest multiple of the rule's step; halves
// round up.
func RoundMinutes(minutes int, rule RoundingRule) int {
	step := rule.Step()
	if step == 0 || minutes <= 0 {
		return max(minutes, 0)
	}
	return ((minutes + step/2) / step) * step
}
