package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/timecalc"
)

func TestSettings_Validate(t *testing.T) {
	assert.NoError(t, DefaultSettings("user-1").Validate())

	tests := []struct {
		name     string
		settings Settings
	}{
		{"day too large", Settings{RolloverDay: 29, RolloverHour: 0, RoundingRule: timecalc.RoundNone}},
		{"hour too large", Settings{RolloverDay: 1, RolloverHour: 24, RoundingRule: timecalc.RoundNone}},
		{"unknown rounding", Settings{RolloverDay: 1, RolloverHour: 0, RoundingRule: "7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfiguration))
		})
	}
}

func TestSettingsPatch_Apply(t *testing.T) {
	day, rule := 15, "10"
	patch := SettingsPatch{RolloverDay: &day, RoundingRule: &rule}

	got := patch.Apply(DefaultSettings("user-1"))

	assert.Equal(t, 15, got.RolloverDay)
	assert.Equal(t, 0, got.RolloverHour)
	assert.Equal(t, timecalc.Round10, got.RoundingRule)
	assert.False(t, patch.IsEmpty())
	assert.True(t, SettingsPatch{}.IsEmpty())
}
