package cli

import (
	"bytes"
	"context"
	"sort"
	"testing"
	"time"

	"timesheet/internal/api"
	"timesheet/internal/config"
	"timesheet/internal/domain"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/export"
	"timesheet/internal/queue"
	"timesheet/internal/services"
	"timesheet/internal/timecalc"
)

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// mockBusinessAPI keeps entries in memory on a UTC calendar
type mockBusinessAPI struct {
	cal      *timecalc.Calendar
	settings domain.Settings
	entries  map[string]domain.DayEntry

	pending    int
	offline    bool
	lastBackup time.Time

	stampErr   error
	listErr    error
	backupErr  error
	exportErr  error
	settingErr error
}

var _ api.BusinessAPI = (*mockBusinessAPI)(nil)

func newMockBusinessAPI() *mockBusinessAPI {
	return &mockBusinessAPI{
		cal:      timecalc.NewCalendarIn(time.UTC),
		settings: domain.DefaultSettings("alice"),
		entries:  make(map[string]domain.DayEntry),
	}
}

func (m *mockBusinessAPI) put(dateKey string, start, end *time.Time) {
	m.entries[dateKey] = domain.NewDayEntry(m.settings.UserID, dateKey).WithInterval(start, end)
}

func (m *mockBusinessAPI) UserID() string { return m.settings.UserID }

func (m *mockBusinessAPI) Stamp(ctx context.Context, now time.Time) (*api.StampReport, error) {
	if m.stampErr != nil {
		return nil, m.stampErr
	}
	if err := timecalc.ValidateInstant(now); err != nil {
		return nil, err
	}
	dateKey := m.cal.LogicalDateKey(now, m.settings.RolloverHour)
	if m.offline {
		m.pending++
		return &api.StampReport{DateKey: dateKey, Queued: true, Pending: m.pending, Message: "Stamp saved offline, it will be synced later"}, nil
	}

	var existing *domain.DayEntry
	if e, ok := m.entries[dateKey]; ok {
		existing = &e
	}
	result := domain.ApplyStamp(m.settings.UserID, dateKey, existing, now)
	m.entries[dateKey] = result.Entry
	entry := result.Entry
	return &api.StampReport{
		Outcome: result.Outcome,
		DateKey: dateKey,
		Entry:   &entry,
		Pending: m.pending,
		Message: result.Outcome.Message(),
	}, nil
}

func (m *mockBusinessAPI) Today(ctx context.Context, now time.Time) (*services.DayStatus, error) {
	dateKey := m.cal.LogicalDateKey(now, m.settings.RolloverHour)
	status := &services.DayStatus{DateKey: dateKey, State: domain.StateEmpty.String()}
	e, ok := m.entries[dateKey]
	if !ok {
		return status, nil
	}
	status.Entry = &e
	status.State = e.State().String()
	switch e.State() {
	case domain.StateOpen:
		status.Elapsed = timecalc.FormatElapsed(e.Elapsed(now))
	case domain.StateClosed:
		status.Total = timecalc.FormatMinutes(e.Minutes())
	}
	return status, nil
}

func (m *mockBusinessAPI) CurrentPeriod(ctx context.Context, now time.Time) (timecalc.Period, error) {
	return m.cal.CurrentPeriod(now, m.settings.RolloverDay, m.settings.RolloverHour)
}

func (m *mockBusinessAPI) PreviousPeriod(ctx context.Context, now time.Time) (timecalc.Period, error) {
	return m.cal.PreviousPeriod(now, m.settings.RolloverDay, m.settings.RolloverHour)
}

func (m *mockBusinessAPI) PeriodStartingOn(ctx context.Context, dateKey string) (timecalc.Period, error) {
	return m.cal.PeriodStartingOn(dateKey, m.settings.RolloverDay, m.settings.RolloverHour)
}

func (m *mockBusinessAPI) IsRolloverDay(ctx context.Context, now time.Time) (bool, error) {
	if m.settingErr != nil {
		return false, m.settingErr
	}
	return m.cal.IsRolloverDay(now, m.settings.RolloverDay), nil
}

func (m *mockBusinessAPI) ListEntries(ctx context.Context, period timecalc.Period) ([]domain.DayEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.DayEntry
	for key, e := range m.entries {
		if period.Contains(key) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateKey > out[j].DateKey })
	return out, nil
}

func (m *mockBusinessAPI) Summary(ctx context.Context, period timecalc.Period) (*services.PeriodSummary, error) {
	entries, err := m.ListEntries(ctx, period)
	if err != nil {
		return nil, err
	}
	return services.NewReportingService(nil, nil).Summarize(period, m.settings.RoundingRule, entries), nil
}

func (m *mockBusinessAPI) GetSettings(ctx context.Context) (domain.Settings, error) {
	if m.settingErr != nil {
		return domain.Settings{}, m.settingErr
	}
	return m.settings, nil
}

func (m *mockBusinessAPI) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	next := patch.Apply(m.settings)
	if err := next.Validate(); err != nil {
		return domain.Settings{}, err
	}
	m.settings = next
	return next, nil
}

func (m *mockBusinessAPI) SetEntry(ctx context.Context, dateKey string, start, end *time.Time) (*domain.DayEntry, error) {
	if _, err := timecalc.ParseDateKey(dateKey); err != nil {
		return nil, err
	}
	if start == nil {
		return nil, apperrors.NewValidationError("start time is required", nil)
	}
	m.put(dateKey, start, end)
	e := m.entries[dateKey]
	return &e, nil
}

func (m *mockBusinessAPI) DeleteEntry(ctx context.Context, dateKey string) error {
	if _, ok := m.entries[dateKey]; !ok {
		return apperrors.NewNotFoundError("day entry", dateKey)
	}
	delete(m.entries, dateKey)
	return nil
}

func (m *mockBusinessAPI) Sync(ctx context.Context) (*queue.ReplayReport, error) {
	if m.offline {
		return &queue.ReplayReport{Remaining: m.pending, LastError: apperrors.NewDatabaseError("upsert", nil)}, nil
	}
	report := &queue.ReplayReport{Replayed: m.pending}
	m.pending = 0
	return report, nil
}

func (m *mockBusinessAPI) PendingStamps(ctx context.Context) (int, error) {
	return m.pending, nil
}

func (m *mockBusinessAPI) Export(ctx context.Context, format export.Format, period timecalc.Period, now time.Time) (*export.Document, error) {
	if m.exportErr != nil {
		return nil, m.exportErr
	}
	summary, err := m.Summary(ctx, period)
	if err != nil {
		return nil, err
	}
	return export.Build(format, export.NewReport(m.cal, m.settings.UserID, summary, now))
}

func (m *mockBusinessAPI) Backup(ctx context.Context, now time.Time, force bool) (*export.BackupResult, error) {
	if m.backupErr != nil {
		return nil, m.backupErr
	}
	if !force && !m.lastBackup.IsZero() {
		return &export.BackupResult{Skipped: true, LastAt: m.lastBackup}, nil
	}
	m.lastBackup = now
	return &export.BackupResult{Path: "/backups/alice-20250314.json", Items: len(m.entries)}, nil
}

// newTestApp wires an App over a fresh mock writing to a buffer, with the
// clock pinned to fixedNow
func newTestApp(t *testing.T) (*App, *mockBusinessAPI, *bytes.Buffer) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return fixedNow }
	t.Cleanup(func() { timeNow = prev })

	mock := newMockBusinessAPI()
	cfg := config.NewConfig()
	cfg.Export.Dir = t.TempDir()
	out := &bytes.Buffer{}
	return NewApp(mock, cfg, mock.cal, out), mock, out
}

func march13(hour, minute int) *time.Time {
	t := time.Date(2025, 3, 13, hour, minute, 0, 0, time.UTC)
	return &t
}
