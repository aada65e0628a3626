package validation

import (
	"time"
)

// DayEntryValidator validates manual edits to day entries
type DayEntryValidator struct {
	validator *Validator
}

// NewDayEntryValidator creates a new day entry validator
func NewDayEntryValidator(v *Validator) *DayEntryValidator {
	if v == nil {
		v = NewValidator()
	}
	return &DayEntryValidator{validator: v}
}

// ValidateKey validates the (user, logical day) key of an entry
func (dv *DayEntryValidator) ValidateKey(userID, dateKey string) error {
	ve := NewValidationError()
	dv.checkKey(ve, userID, dateKey)
	return ve.OrNil()
}

// ValidateDateKey validates a single YYYY-MM-DD day key
func (dv *DayEntryValidator) ValidateDateKey(dateKey string) error {
	ve := NewValidationError()
	if dateKey == "" {
		ve.AddRequiredError("date_key")
	} else if !dv.validator.IsValidDateKey(dateKey) {
		ve.AddInvalidFormatError("date_key", dateKey, "YYYY-MM-DD")
	}
	return ve.OrNil()
}

// ValidateManualEntry validates a hand-edited interval. Start is required;
// end may be nil to leave the day open. Order is not checked because the
// entry normalises swapped ends.
func (dv *DayEntryValidator) ValidateManualEntry(userID, dateKey string, start, end *time.Time) error {
	ve := NewValidationError()
	dv.checkKey(ve, userID, dateKey)

	if start == nil || start.IsZero() {
		ve.AddRequiredError("start_time")
	} else if !dv.validator.IsReasonableDate(*start) {
		ve.AddInvalidValueError("start_time", *start, "must be within reasonable date range")
	}

	if end != nil {
		if !dv.validator.IsReasonableDate(*end) {
			ve.AddInvalidValueError("end_time", *end, "must be within reasonable date range")
		}
		if start != nil && !start.IsZero() {
			span := end.Sub(*start)
			if span < 0 {
				span = -span
			}
			if !dv.validator.IsValidDuration(span) {
				ve.AddInvalidRangeError("duration", span.String(), "is longer than the allowed day length")
			}
		}
	}

	return ve.OrNil()
}

func (dv *DayEntryValidator) checkKey(ve *ValidationError, userID, dateKey string) {
	if !dv.validator.IsValidUserID(userID) {
		ve.AddInvalidValueError("user_id", userID, "must be a non-empty id without spaces")
	}
	ve.Merge(dv.ValidateDateKey(dateKey))
}
