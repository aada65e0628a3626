package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"timesheet/internal/config"
	"timesheet/internal/timecalc"
)

// Validator provides common validation utilities
type Validator struct {
	dateKeyRegex *regexp.Regexp
	config       *config.Config
	now          func() time.Time
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		dateKeyRegex: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		config:       nil, // Use defaults
		now:          time.Now,
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	v := NewValidator()
	v.config = cfg
	return v
}

// WithClock returns a copy of the validator that reads now from clock.
func (v *Validator) WithClock(clock func() time.Time) *Validator {
	c := *v
	c.now = clock
	return &c
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidUserID accepts non-empty ids without whitespace or control
// characters, at most 128 bytes.
func (v *Validator) IsValidUserID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// IsValidDateKey checks for a real calendar date in YYYY-MM-DD form
func (v *Validator) IsValidDateKey(key string) bool {
	if !v.dateKeyRegex.MatchString(key) {
		return false
	}
	_, err := timecalc.ParseDateKey(key)
	return err == nil
}

// IsInRange checks min <= value <= max
func (v *Validator) IsInRange(value, min, max int) bool {
	return value >= min && value <= max
}

// IsValidRoundingRule checks the stored rounding rule text
func (v *Validator) IsValidRoundingRule(rule string) bool {
	_, err := timecalc.ParseRoundingRule(rule)
	return err == nil && strings.TrimSpace(rule) != ""
}

// IsValidDuration checks if a duration is within reasonable bounds
func (v *Validator) IsValidDuration(duration time.Duration) bool {
	return duration >= 0 && duration <= v.getMaxEntryDuration()
}

// IsReasonableDate checks if a date is within reasonable bounds
func (v *Validator) IsReasonableDate(t time.Time) bool {
	now := v.now()
	earliest := now.AddDate(-v.getMaxYearsBack(), 0, 0)
	latest := now.AddDate(0, 0, v.getMaxDaysAhead())

	return t.After(earliest) && t.Before(latest)
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// getMaxEntryDuration returns configured maximum day length or default
func (v *Validator) getMaxEntryDuration() time.Duration {
	if v.config != nil && v.config.Validation.MaxEntryDuration > 0 {
		return v.config.Validation.MaxEntryDuration
	}
	return 48 * time.Hour // Default maximum
}

func (v *Validator) getMaxYearsBack() int {
	if v.config != nil && v.config.Validation.MaxYearsBack > 0 {
		return v.config.Validation.MaxYearsBack
	}
	return 10
}

func (v *Validator) getMaxDaysAhead() int {
	if v.config != nil && v.config.Validation.MaxDaysAhead > 0 {
		return v.config.Validation.MaxDaysAhead
	}
	return 2
}
