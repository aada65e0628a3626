package validation

import (
	"fmt"

	"timesheet/internal/domain"
	"timesheet/internal/timecalc"
)

// SettingsValidator validates user edits to rollover and rounding settings
type SettingsValidator struct {
	validator *Validator
}

// NewSettingsValidator creates a new settings validator
func NewSettingsValidator(v *Validator) *SettingsValidator {
	if v == nil {
		v = NewValidator()
	}
	return &SettingsValidator{validator: v}
}

// ValidatePatch validates only the fields the patch sets
func (sv *SettingsValidator) ValidatePatch(patch domain.SettingsPatch) error {
	ve := NewValidationError()

	if patch.IsEmpty() {
		ve.AddRequiredError("settings")
		return ve
	}
	if patch.RolloverDay != nil {
		sv.checkDay(ve, *patch.RolloverDay)
	}
	if patch.RolloverHour != nil {
		sv.checkHour(ve, *patch.RolloverHour)
	}
	if patch.RoundingRule != nil && !sv.validator.IsValidRoundingRule(*patch.RoundingRule) {
		ve.AddInvalidValueError("rounding_rule", *patch.RoundingRule, "must be one of none, 5, 10, 15")
	}

	return ve.OrNil()
}

// ValidateSettings validates a complete settings value
func (sv *SettingsValidator) ValidateSettings(s domain.Settings) error {
	ve := NewValidationError()

	if !sv.validator.IsValidUserID(s.UserID) {
		ve.AddInvalidValueError("user_id", s.UserID, "must be a non-empty id without spaces")
	}
	sv.checkDay(ve, s.RolloverDay)
	sv.checkHour(ve, s.RolloverHour)
	if !sv.validator.IsValidRoundingRule(string(s.RoundingRule)) {
		ve.AddInvalidValueError("rounding_rule", s.RoundingRule, "must be one of none, 5, 10, 15")
	}

	return ve.OrNil()
}

func (sv *SettingsValidator) checkDay(ve *ValidationError, day int) {
	if !sv.validator.IsInRange(day, timecalc.MinRolloverDay, timecalc.MaxRolloverDay) {
		ve.AddInvalidRangeError("rollover_day", day,
			fmt.Sprintf("must be between %d and %d", timecalc.MinRolloverDay, timecalc.MaxRolloverDay))
	}
}

func (sv *SettingsValidator) checkHour(ve *ValidationError, hour int) {
	if !sv.validator.IsInRange(hour, timecalc.MinRolloverHour, timecalc.MaxRolloverHour) {
		ve.AddInvalidRangeError("rollover_hour", hour,
			fmt.Sprintf("must be between %d and %d", timecalc.MinRolloverHour, timecalc.MaxRolloverHour))
	}
}
