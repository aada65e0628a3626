package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"timesheet/internal/domain"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/logging"
)

// BackupVersion is the version field written to every backup file.
const BackupVersion = 1

const lastBackupFile = "last_backup"

// Backup is the JSON document written by a backup run
type Backup struct {
	Version        int          `json:"version"`
	GeneratedAtUTC time.Time    `json:"generatedAtUtc"`
	UserID         string       `json:"userId"`
	Items          []BackupItem `json:"items"`
}

// BackupItem mirrors a stored day entry
type BackupItem struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	DateUTC   string     `json:"date_utc"`
	StartTS   *time.Time `json:"start_ts"`
	EndTS     *time.Time `json:"end_ts"`
	TotalHHMM *string    `json:"total_hhmm"`
}

// BackupResult describes what a backup run did
type BackupResult struct {
	Path    string    `json:"path,omitempty"`
	Items   int       `json:"items"`
	Skipped bool      `json:"skipped"`
	LastAt  time.Time `json:"lastAt,omitempty"`
}

// BackupWriter writes backups under dir/<user>/YYYY/MM/DD/ and remembers
// when each user was last backed up
type BackupWriter struct {
	dir      string
	interval time.Duration
}

// NewBackupWriter creates a writer. An interval of zero backs up on every
// call.
func NewBackupWriter(dir string, interval time.Duration) *BackupWriter {
	return &BackupWriter{dir: dir, interval: interval}
}

// Path returns the file a backup taken at now is written to. The date
// parts are taken in UTC.
func (w *BackupWriter) Path(userID string, now time.Time) string {
	day := now.UTC().Format("2006-01-02")
	return filepath.Join(w.dir, userID, now.UTC().Format("2006"), now.UTC().Format("01"), now.UTC().Format("02"),
		fmt.Sprintf("entries-%s.json", day))
}

// LastBackup returns when the user was last backed up, zero if never. An
// unreadable marker also counts as never, with a warning.
func (w *BackupWriter) LastBackup(userID string) (time.Time, error) {
	marker := filepath.Join(w.dir, userID, lastBackupFile)
	data, err := os.ReadFile(marker)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(data)))
	if err != nil {
		logging.Warnf("ignoring corrupt backup marker %s, a new backup will be written: %v", marker, err)
		return time.Time{}, nil
	}
	return t, nil
}

// Due reports whether a backup is needed at now
func (w *BackupWriter) Due(userID string, now time.Time) (bool, time.Time, error) {
	last, err := w.LastBackup(userID)
	if err != nil {
		return false, time.Time{}, err
	}
	if last.IsZero() {
		return true, last, nil
	}
	return now.Sub(last) >= w.interval, last, nil
}

// Write stores entries as today's backup, replacing an earlier one from the
// same day, and records now as the last backup time.
func (w *BackupWriter) Write(userID string, now time.Time, entries []domain.DayEntry) (*BackupResult, error) {
	if userID == "" || strings.ContainsAny(userID, `/\`) || userID == "." || userID == ".." {
		return nil, apperrors.NewInvalidInputError("user_id", userID, "cannot be used as a directory name")
	}

	doc := Backup{
		Version:        BackupVersion,
		GeneratedAtUTC: now.UTC(),
		UserID:         userID,
		Items:          make([]BackupItem, 0, len(entries)),
	}
	for _, e := range entries {
		doc.Items = append(doc.Items, BackupItem{
			ID:        e.ID,
			UserID:    e.UserID,
			DateUTC:   e.DateKey,
			StartTS:   utcPtr(e.StartTime),
			EndTS:     utcPtr(e.EndTime),
			TotalHHMM: e.TotalHHMM,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}

	path := w.Path(userID, now)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return nil, err
	}
	stamp := []byte(now.UTC().Format(time.RFC3339Nano) + "\n")
	if err := writeFileAtomic(filepath.Join(w.dir, userID, lastBackupFile), stamp); err != nil {
		return nil, err
	}

	return &BackupResult{Path: path, Items: len(doc.Items), LastAt: now.UTC()}, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
