package domain

import (
	"timesheet/internal/repository"
	"timesheet/internal/timecalc"
)

// DayEntryMapper handles conversion between domain and storage day entries.
type DayEntryMapper struct{}

// NewDayEntryMapper creates a new DayEntryMapper instance.
func NewDayEntryMapper() *DayEntryMapper {
	return &DayEntryMapper{}
}

// ToDatabase converts a domain DayEntry to a storage row.
func (m *DayEntryMapper) ToDatabase(entry DayEntry) *repository.DayEntry {
	return &repository.DayEntry{
		ID:        entry.ID,
		UserID:    entry.UserID,
		DateKey:   entry.DateKey,
		StartTime: copyTime(entry.StartTime),
		EndTime:   copyTime(entry.EndTime),
		TotalHHMM: copyString(entry.TotalHHMM),
	}
}

// FromDatabase converts a storage row to a domain DayEntry. A nil row maps
// to nil so an absent record stays absent.
func (m *DayEntryMapper) FromDatabase(row *repository.DayEntry) *DayEntry {
	if row == nil {
		return nil
	}
	return &DayEntry{
		ID:        row.ID,
		UserID:    row.UserID,
		DateKey:   row.DateKey,
		StartTime: copyTime(row.StartTime),
		EndTime:   copyTime(row.EndTime),
		TotalHHMM: copyString(row.TotalHHMM),
	}
}

// FromDatabaseSlice converts storage rows to domain entries.
func (m *DayEntryMapper) FromDatabaseSlice(rows []*repository.DayEntry) []DayEntry {
	entries := make([]DayEntry, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		entries = append(entries, *m.FromDatabase(row))
	}
	return entries
}

// SettingsMapper handles conversion between domain and storage settings.
type SettingsMapper struct{}

// NewSettingsMapper creates a new SettingsMapper instance.
func NewSettingsMapper() *SettingsMapper {
	return &SettingsMapper{}
}

// ToDatabase converts domain Settings to a storage row.
func (m *SettingsMapper) ToDatabase(s Settings) *repository.Settings {
	return &repository.Settings{
		UserID:       s.UserID,
		RolloverDay:  s.RolloverDay,
		RolloverHour: s.RolloverHour,
		RoundingRule: string(s.RoundingRule),
	}
}

// FromDatabase converts a storage row to domain Settings. Values are copied
// as stored; callers validate before use.
func (m *SettingsMapper) FromDatabase(row *repository.Settings) Settings {
	rule := timecalc.RoundingRule(row.RoundingRule)
	if row.RoundingRule == "" {
		rule = timecalc.RoundNone
	}
	return Settings{
		UserID:       row.UserID,
		RolloverDay:  row.RolloverDay,
		RolloverHour: row.RolloverHour,
		RoundingRule: rule,
	}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	DayEntry *DayEntryMapper
	Settings *SettingsMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		DayEntry: NewDayEntryMapper(),
		Settings: NewSettingsMapper(),
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
