package domain

import (
	"timesheet/internal/timecalc"
)

// Settings are the per-user rollover and rounding preferences.
type Settings struct {
	UserID       string
	RolloverDay  int
	RolloverHour int
	RoundingRule timecalc.RoundingRule
}

// DefaultSettings mirrors what a user gets before saving anything.
func DefaultSettings(userID string) Settings {
	return Settings{
		UserID:       userID,
		RolloverDay:  1,
		RolloverHour: 0,
		RoundingRule: timecalc.RoundNone,
	}
}

// Validate reports the first setting that makes period computation
// impossible.
func (s Settings) Validate() error {
	if err := timecalc.ValidateRollover(s.RolloverDay, s.RolloverHour); err != nil {
		return err
	}
	_, err := timecalc.ParseRoundingRule(string(s.RoundingRule))
	return err
}

// SettingsPatch holds the fields to change; nil means keep.
type SettingsPatch struct {
	RolloverDay  *int
	RolloverHour *int
	RoundingRule *string
}

// IsEmpty returns true if nothing would change.
func (p SettingsPatch) IsEmpty() bool {
	return p.RolloverDay == nil && p.RolloverHour == nil && p.RoundingRule == nil
}

// Apply returns s with the patch applied. The result is not validated.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.RolloverDay != nil {
		s.RolloverDay = *p.RolloverDay
	}
	if p.RolloverHour != nil {
		s.RolloverHour = *p.RolloverHour
	}
	if p.RoundingRule != nil {
		s.RoundingRule = timecalc.RoundingRule(*p.RoundingRule)
	}
	return s
}
