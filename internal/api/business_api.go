package api

import (
	"context"
	"time"

	"timesheet/internal/domain"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/export"
	"timesheet/internal/logging"
	"timesheet/internal/metrics"
	"timesheet/internal/queue"
	"timesheet/internal/services"
	"timesheet/internal/timecalc"
	"timesheet/internal/validation"
)

// DefaultBackupLookbackDays is how many days a backup covers when no
// lookback is configured.
const DefaultBackupLookbackDays = 90

// StampReport describes what happened to one stamp
type StampReport struct {
	Outcome domain.StampOutcome `json:"outcome,omitempty"`
	DateKey string              `json:"dateKey,omitempty"`
	Entry   *domain.DayEntry    `json:"entry,omitempty"`
	Queued  bool                `json:"queued"`
	Pending int                 `json:"pending"`
	Message string              `json:"message"`
}

// Options configures the optional collaborators of a BusinessAPI
type Options struct {
	// Queue holds stamps the store could not take. Nil disables queueing.
	Queue *queue.Queue
	// Backups writes JSON backups. Nil makes Backup fail.
	Backups *export.BackupWriter
	// BackupLookbackDays is the number of days each backup covers.
	BackupLookbackDays int
	Metrics            *metrics.Metrics
}

// BusinessAPI is the workflow surface for one configured user
type BusinessAPI interface {
	UserID() string

	// ========== Stamping ==========

	// Stamp records a stamp at now. Pending queued stamps are replayed
	// first; when the store is unavailable the stamp is queued instead.
	Stamp(ctx context.Context, now time.Time) (*StampReport, error)

	// Today returns the logical day now falls into
	Today(ctx context.Context, now time.Time) (*services.DayStatus, error)

	// ========== Periods and reports ==========

	CurrentPeriod(ctx context.Context, now time.Time) (timecalc.Period, error)
	PreviousPeriod(ctx context.Context, now time.Time) (timecalc.Period, error)
	PeriodStartingOn(ctx context.Context, dateKey string) (timecalc.Period, error)
	// IsRolloverDay reports whether now falls on the configured rollover day
	IsRolloverDay(ctx context.Context, now time.Time) (bool, error)
	ListEntries(ctx context.Context, period timecalc.Period) ([]domain.DayEntry, error)
	Summary(ctx context.Context, period timecalc.Period) (*services.PeriodSummary, error)

	// ========== Settings ==========

	GetSettings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error)

	// ========== Manual edits ==========

	SetEntry(ctx context.Context, dateKey string, start, end *time.Time) (*domain.DayEntry, error)
	DeleteEntry(ctx context.Context, dateKey string) error

	// ========== Offline queue ==========

	// Sync replays queued stamps without recording a new one
	Sync(ctx context.Context) (*queue.ReplayReport, error)
	PendingStamps(ctx context.Context) (int, error)

	// ========== Export and backup ==========

	Export(ctx context.Context, format export.Format, period timecalc.Period, now time.Time) (*export.Document, error)
	// Backup writes the entries of the lookback window. Unless forced it
	// is skipped when the last backup is younger than the interval.
	Backup(ctx context.Context, now time.Time, force bool) (*export.BackupResult, error)
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	userID   string
	services *services.ServiceContainer
	entries  API
	queue    *queue.Queue
	backups  *export.BackupWriter
	lookback int
	metrics  *metrics.Metrics
}

// NewBusinessAPI creates a BusinessAPI acting for userID
func NewBusinessAPI(container *services.ServiceContainer, userID string, opts Options) BusinessAPI {
	lookback := opts.BackupLookbackDays
	if lookback <= 0 {
		lookback = DefaultBackupLookbackDays
	}
	return &businessAPIImpl{
		userID:   userID,
		services: container,
		entries:  New(container),
		queue:    opts.Queue,
		backups:  opts.Backups,
		lookback: lookback,
		metrics:  opts.Metrics,
	}
}

func (b *businessAPIImpl) UserID() string {
	return b.userID
}

// ========== Stamping ==========

func (b *businessAPIImpl) Stamp(ctx context.Context, now time.Time) (*StampReport, error) {
	if err := timecalc.ValidateInstant(now); err != nil {
		b.metrics.ObserveStampFailure(errorKind(err))
		return nil, err
	}

	if b.queue != nil {
		report, err := b.replay(ctx)
		switch {
		case err != nil && !apperrors.IsRetryable(err):
			b.metrics.ObserveStampFailure(errorKind(err))
			return nil, err
		case err != nil:
			// queue state unknown; the new stamp must not overtake queued ones
			logging.Warnf("replaying queued stamps failed, queueing: %v", err)
			return b.enqueue(ctx, now)
		case report.Remaining > 0:
			// replay stopped early; keep capture order
			return b.enqueue(ctx, now)
		}
	}

	result, err := b.services.StampService.Stamp(ctx, b.userID, now)
	if err != nil {
		if b.queue != nil && apperrors.IsRetryable(err) {
			logging.Warnf("stamp at %s could not be saved, queueing: %v", now.Format(time.RFC3339), err)
			return b.enqueue(ctx, now)
		}
		b.metrics.ObserveStampFailure(errorKind(err))
		return nil, err
	}

	b.metrics.ObserveStamp(string(result.Outcome))
	entry := result.Entry
	return &StampReport{
		Outcome: result.Outcome,
		DateKey: entry.DateKey,
		Entry:   &entry,
		Pending: b.pending(ctx),
		Message: result.Outcome.Message(),
	}, nil
}

func (b *businessAPIImpl) enqueue(ctx context.Context, now time.Time) (*StampReport, error) {
	// a stamp that can never be applied is rejected instead of queued
	key, err := b.services.StampService.LogicalDateKey(ctx, b.userID, now)
	if err != nil {
		if !apperrors.IsRetryable(err) {
			b.metrics.ObserveStampFailure(errorKind(err))
			return nil, err
		}
		logging.Debugf("logical date of queued stamp unknown: %v", err)
		key = ""
	}

	if _, err := b.queue.Enqueue(ctx, b.userID, now); err != nil {
		b.metrics.ObserveStampFailure(errorKind(err))
		return nil, err
	}
	b.metrics.ObserveStamp("queued")

	pending := b.pending(ctx)
	report := &StampReport{
		Queued:  true,
		Pending: pending,
		DateKey: key,
		Message: "Stamp saved offline, it will be synced later",
	}
	return report, nil
}

func (b *businessAPIImpl) replay(ctx context.Context) (*queue.ReplayReport, error) {
	report, err := b.queue.Replay(ctx, b.userID, func(ctx context.Context, stampedAt time.Time) error {
		result, err := b.services.StampService.Stamp(ctx, b.userID, stampedAt)
		if err != nil {
			return err
		}
		b.metrics.ObserveStamp(string(result.Outcome))
		return nil
	})
	if err != nil {
		return nil, err
	}
	b.metrics.ObserveReplay(report.Replayed, report.Dropped, report.LastError != nil && report.Remaining > 0)
	b.metrics.SetQueueDepth(report.Remaining)
	return report, nil
}

func (b *businessAPIImpl) pending(ctx context.Context) int {
	if b.queue == nil {
		return 0
	}
	n, err := b.queue.Pending(ctx, b.userID)
	if err != nil {
		logging.Debugf("counting queued stamps failed: %v", err)
		return 0
	}
	b.metrics.SetQueueDepth(n)
	return n
}

func (b *businessAPIImpl) Today(ctx context.Context, now time.Time) (*services.DayStatus, error) {
	return b.services.StampService.Today(ctx, b.userID, now)
}

// ========== Periods and reports ==========

func (b *businessAPIImpl) CurrentPeriod(ctx context.Context, now time.Time) (timecalc.Period, error) {
	return b.services.PeriodService.Current(ctx, b.userID, now)
}

func (b *businessAPIImpl) PreviousPeriod(ctx context.Context, now time.Time) (timecalc.Period, error) {
	return b.services.PeriodService.Previous(ctx, b.userID, now)
}

func (b *businessAPIImpl) PeriodStartingOn(ctx context.Context, dateKey string) (timecalc.Period, error) {
	return b.services.PeriodService.StartingOn(ctx, b.userID, dateKey)
}

func (b *businessAPIImpl) IsRolloverDay(ctx context.Context, now time.Time) (bool, error) {
	return b.services.PeriodService.IsRolloverDay(ctx, b.userID, now)
}

func (b *businessAPIImpl) ListEntries(ctx context.Context, period timecalc.Period) ([]domain.DayEntry, error) {
	return b.services.EntryService.List(ctx, b.userID, period)
}

func (b *businessAPIImpl) Summary(ctx context.Context, period timecalc.Period) (*services.PeriodSummary, error) {
	return b.services.ReportingService.Summary(ctx, b.userID, period)
}

// ========== Settings ==========

func (b *businessAPIImpl) GetSettings(ctx context.Context) (domain.Settings, error) {
	return b.services.SettingsService.Get(ctx, b.userID)
}

func (b *businessAPIImpl) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	return b.services.SettingsService.Update(ctx, b.userID, patch)
}

// ========== Manual edits ==========

func (b *businessAPIImpl) SetEntry(ctx context.Context, dateKey string, start, end *time.Time) (*domain.DayEntry, error) {
	return b.entries.SetDayEntry(ctx, b.userID, dateKey, start, end)
}

func (b *businessAPIImpl) DeleteEntry(ctx context.Context, dateKey string) error {
	return b.entries.DeleteDayEntry(ctx, b.userID, dateKey)
}

// ========== Offline queue ==========

func (b *businessAPIImpl) Sync(ctx context.Context) (*queue.ReplayReport, error) {
	if b.queue == nil {
		return &queue.ReplayReport{}, nil
	}
	return b.replay(ctx)
}

func (b *businessAPIImpl) PendingStamps(ctx context.Context) (int, error) {
	if b.queue == nil {
		return 0, nil
	}
	return b.queue.Pending(ctx, b.userID)
}

// ========== Export and backup ==========

func (b *businessAPIImpl) Export(ctx context.Context, format export.Format, period timecalc.Period, now time.Time) (*export.Document, error) {
	summary, err := b.Summary(ctx, period)
	if err != nil {
		return nil, err
	}

	report := export.NewReport(b.services.Calendar, b.userID, summary, now)
	doc, err := export.Build(format, report)
	if err != nil {
		return nil, err
	}
	b.metrics.ObserveExport(string(format))
	logging.Debugf("exported %s for %s: %d rows, %d bytes", format, period, len(report.Rows), len(doc.Data))
	return doc, nil
}

func (b *businessAPIImpl) Backup(ctx context.Context, now time.Time, force bool) (*export.BackupResult, error) {
	if b.backups == nil {
		return nil, apperrors.NewConfigurationError("backup.dir", "", "backups are not configured")
	}

	if !force {
		due, last, err := b.backups.Due(b.userID, now)
		if err != nil {
			return nil, err
		}
		if !due {
			return &export.BackupResult{Skipped: true, LastAt: last}, nil
		}
	}

	toKey, err := timecalc.AddDays(b.services.Calendar.DateKey(now), 1)
	if err != nil {
		return nil, err
	}
	fromKey, err := timecalc.AddDays(toKey, -b.lookback)
	if err != nil {
		return nil, err
	}

	entries, err := b.services.EntryService.ListRange(ctx, b.userID, fromKey, toKey)
	if err != nil {
		return nil, err
	}
	result, err := b.backups.Write(b.userID, now, entries)
	if err != nil {
		return nil, err
	}
	logging.Debugf("backup of %d entries written to %s", result.Items, result.Path)
	return result, nil
}

// errorKind labels an error for metrics
func errorKind(err error) string {
	if validation.IsValidationError(err) {
		return "validation"
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.Type.String()
	}
	return "unknown"
}
