package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Messages(t *testing.T) {
	ve := NewValidationError()
	assert.Equal(t, "validation failed", ve.Error())
	assert.Equal(t, "Input validation failed", ve.GetUserFriendlyMessage())
	assert.False(t, ve.HasErrors())
	assert.Nil(t, ve.OrNil())

	ve.AddRequiredError("user_id")
	assert.Equal(t, "validation failed: user_id (required): user_id is required", ve.Error())
	assert.Equal(t, "user_id is required", ve.GetUserFriendlyMessage())
	assert.True(t, ve.HasErrors())
	assert.Same(t, ve, ve.OrNil())

	ve.AddInvalidFormatError("date_key", "13/03/2025", "YYYY-MM-DD")
	assert.Contains(t, ve.Error(), "validation failed on 2 fields: ")
	assert.Equal(t,
		"Please fix the following:\n- user_id is required\n- date_key must be formatted as YYYY-MM-DD, got 13/03/2025",
		ve.GetUserFriendlyMessage())
}

func TestValidationError_AddHelpers(t *testing.T) {
	ve := NewValidationError()
	ve.AddInvalidValueError("end_time", "07:00", "must not be before start_time")
	ve.AddInvalidRangeError("rollover_day", 31, "must be between 1 and 28")

	require.Len(t, ve.Errors, 2)
	assert.Equal(t, FieldError{
		Field:   "end_time",
		Type:    ErrorTypeInvalidValue,
		Message: "end_time must not be before start_time",
		Value:   "07:00",
	}, ve.Errors[0])
	assert.Equal(t, ErrorTypeInvalidRange, ve.Errors[1].Type)
	assert.Equal(t, "rollover_day is out of range: must be between 1 and 28", ve.Errors[1].Message)
	assert.Equal(t, 31, ve.Errors[1].Value)
}

func TestValidationError_FieldLookup(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("rollover_day")
	ve.AddInvalidRangeError("rollover_day", 31, "must be between 1 and 28")
	ve.AddRequiredError("user_id")

	assert.Len(t, ve.GetFieldErrors("rollover_day"), 2)
	assert.Len(t, ve.GetFieldErrors("user_id"), 1)
	assert.Empty(t, ve.GetFieldErrors("missing"))
	assert.Equal(t, []string{"rollover_day", "user_id"}, ve.Fields())
}

func TestAsValidationError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("user_id")
	wrapped := fmt.Errorf("update settings: %w", ve)

	got, ok := AsValidationError(wrapped)
	require.True(t, ok)
	assert.Same(t, ve, got)
	assert.True(t, IsValidationError(wrapped))

	assert.False(t, IsValidationError(&FieldError{Field: "x", Message: "bad"}))
	_, ok = AsValidationError(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestValidationError_Merge(t *testing.T) {
	first := NewValidationError()
	first.AddRequiredError("user_id")
	second := NewValidationError()
	second.AddRequiredError("date_key")

	first.Merge(fmt.Errorf("entry: %w", second))
	first.Merge(fmt.Errorf("not a validation error"))
	first.Merge(first)
	first.Merge(nil)

	assert.Equal(t, []string{"user_id", "date_key"}, first.Fields())
}
