package services

import (
	"context"
	"time"

	"timesheet/internal/domain"
	"timesheet/internal/timecalc"
)

// DayStatus is the logical day an instant falls into, with its entry if one
// is on file.
type DayStatus struct {
	DateKey string           `json:"dateKey"`
	State   string           `json:"state"`
	Entry   *domain.DayEntry `json:"entry,omitempty"`
	Elapsed string           `json:"elapsed,omitempty"` // HH:MM:SS while open
	Total   string           `json:"total,omitempty"`   // HH:MM once closed
}

// DaySummary is one row of a period report
type DaySummary struct {
	DateKey        string     `json:"date"`
	StartTime      *time.Time `json:"startAt,omitempty"`
	EndTime        *time.Time `json:"endAt,omitempty"`
	Total          string     `json:"total"`
	Minutes        int        `json:"minutes"`
	RoundedMinutes int        `json:"roundedMinutes"`
	Open           bool       `json:"open"`
}

// PeriodSummary aggregates the entries of one timesheet period
type PeriodSummary struct {
	Period         timecalc.Period       `json:"period"`
	RoundingRule   timecalc.RoundingRule `json:"roundingRule"`
	Days           []DaySummary          `json:"days"`
	TotalMinutes   int                   `json:"totalMinutes"`
	Total          string                `json:"total"`
	WorkedDays     int                   `json:"workedDays"`
	AverageMinutes int                   `json:"averageMinutes"`
	Average        string                `json:"average"`
	OpenDays       int                   `json:"openDays"`
}

// SettingsService resolves and updates per-user settings
type SettingsService interface {
	// Get returns stored settings, or the configured defaults when none are
	// stored. Settings that cannot drive period computation are reported
	// as a configuration error.
	Get(ctx context.Context, userID string) (domain.Settings, error)
	Update(ctx context.Context, userID string, patch domain.SettingsPatch) (domain.Settings, error)
}

// PeriodService computes timesheet periods from a user's settings
type PeriodService interface {
	Current(ctx context.Context, userID string, now time.Time) (timecalc.Period, error)
	Previous(ctx context.Context, userID string, now time.Time) (timecalc.Period, error)
	StartingOn(ctx context.Context, userID, dateKey string) (timecalc.Period, error)
	IsRolloverDay(ctx context.Context, userID string, now time.Time) (bool, error)
}

// StampService applies stamps to logical days
type StampService interface {
	Stamp(ctx context.Context, userID string, now time.Time) (*domain.StampResult, error)
	Today(ctx context.Context, userID string, now time.Time) (*DayStatus, error)
	LogicalDateKey(ctx context.Context, userID string, now time.Time) (string, error)
}

// EntryService handles manual edits of day entries
type EntryService interface {
	Get(ctx context.Context, userID, dateKey string) (*domain.DayEntry, error)
	Set(ctx context.Context, userID, dateKey string, start, end *time.Time) (*domain.DayEntry, error)
	Delete(ctx context.Context, userID, dateKey string) error
	List(ctx context.Context, userID string, period timecalc.Period) ([]domain.DayEntry, error)
	// ListRange returns entries with fromKey <= date < toKey, newest first
	ListRange(ctx context.Context, userID, fromKey, toKey string) ([]domain.DayEntry, error)
}

// ReportingService handles period aggregation
type ReportingService interface {
	Summary(ctx context.Context, userID string, period timecalc.Period) (*PeriodSummary, error)
	Summarize(period timecalc.Period, rule timecalc.RoundingRule, entries []domain.DayEntry) *PeriodSummary
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	Calendar         *timecalc.Calendar
	SettingsService  SettingsService
	PeriodService    PeriodService
	StampService     StampService
	EntryService     EntryService
	ReportingService ReportingService
}
