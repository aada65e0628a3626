package sqlite

import (
	"database/sql"
	"time"
)

// Timestamps are stored as RFC3339 text in UTC, keeping sub-second precision.
const timeLayout = time.RFC3339Nano

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// encodeOptionalTime writes NULL for an unset instant.
func encodeOptionalTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return encodeTime(*t)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// decodeOptionalTime treats NULL and the empty string as unset.
func decodeOptionalTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := decodeTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalText(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
