package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayEntry_State(t *testing.T) {
	tests := []struct {
		name     string
		entry    DayEntry
		expected EntryState
	}{
		{"no times", DayEntry{}, StateEmpty},
		{"end without start", DayEntry{EndTime: ptr(at(17, 0))}, StateEmpty},
		{"start only", DayEntry{StartTime: ptr(at(8, 0))}, StateOpen},
		{"both", DayEntry{StartTime: ptr(at(8, 0)), EndTime: ptr(at(17, 0))}, StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.State())
		})
	}
}

func TestDayEntry_WithInterval(t *testing.T) {
	entry := NewDayEntry("user-1", "2025-03-14").WithInterval(ptr(at(18, 0)), ptr(at(9, 15)))

	assert.True(t, entry.StartTime.Equal(at(9, 15)))
	assert.True(t, entry.EndTime.Equal(at(18, 0)))
	assert.Equal(t, "08:45", *entry.TotalHHMM)

	open := entry.WithInterval(ptr(at(9, 0)), nil)
	assert.Nil(t, open.EndTime)
	assert.Nil(t, open.TotalHHMM)
}

func TestDayEntry_Minutes(t *testing.T) {
	manual := "07:30"
	assert.Equal(t, 450, DayEntry{TotalHHMM: &manual, StartTime: ptr(at(8, 0)), EndTime: ptr(at(9, 0))}.Minutes())

	bad := "garbage"
	assert.Equal(t, 60, DayEntry{TotalHHMM: &bad, StartTime: ptr(at(8, 0)), EndTime: ptr(at(9, 0))}.Minutes())

	assert.Equal(t, 0, DayEntry{StartTime: ptr(at(8, 0))}.Minutes())
}

func TestDayEntry_Elapsed(t *testing.T) {
	open := DayEntry{StartTime: ptr(at(8, 0))}
	assert.Equal(t, 90*time.Minute, open.Elapsed(at(9, 30)))
	assert.Equal(t, time.Duration(0), open.Elapsed(at(7, 0)))

	closed := DayEntry{StartTime: ptr(at(8, 0)), EndTime: ptr(at(9, 0))}
	assert.Equal(t, time.Duration(0), closed.Elapsed(at(12, 0)))
}

func TestEntryState_String(t *testing.T) {
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "closed", StateClosed.String())
}
