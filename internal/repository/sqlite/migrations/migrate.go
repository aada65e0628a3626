package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"timesheet/internal/logging"
)

//go:embed *.sql
var migrationsFS embed.FS

// Migration is one numbered schema step read from a NNNNNN_name.up.sql and
// NNNNNN_name.down.sql pair.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS migrations (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	dirty BOOLEAN DEFAULT FALSE
)`

// RunMigrations applies every migration not yet recorded in the ledger. A
// failed step is recorded as dirty and blocks later runs.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, ledgerSchema); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	dirty, err := versions(ctx, db, true)
	if err != nil {
		return fmt.Errorf("failed to check migration state: %w", err)
	}
	if len(dirty) > 0 {
		return fmt.Errorf("database is in a dirty state; failed migration(s): %v", dirty)
	}

	all, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	done, err := appliedSet(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range all {
		if done[m.Version] {
			continue
		}
		logging.Debugf("applying migration %06d_%s", m.Version, m.Name)
		err := withTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.Up); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, "INSERT INTO migrations (version) VALUES (?)", m.Version)
			return err
		})
		if err != nil {
			markDirty(ctx, db, m.Version)
			return fmt.Errorf("failed to apply migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// MigrateDown reverts up to steps applied migrations, newest first.
func MigrateDown(ctx context.Context, db *sql.DB, steps int) error {
	all, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	done, err := appliedSet(ctx, db)
	if err != nil {
		return err
	}

	for i := len(all) - 1; i >= 0 && steps > 0; i-- {
		m := all[i]
		if !done[m.Version] {
			continue
		}
		logging.Debugf("reverting migration %06d_%s", m.Version, m.Name)
		err := withTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.Down); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, "DELETE FROM migrations WHERE version = ?", m.Version)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to revert migration %d: %w", m.Version, err)
		}
		steps--
	}
	return nil
}

func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// versions lists ledger versions with the given dirty flag, ascending.
func versions(ctx context.Context, db *sql.DB, dirty bool) ([]int, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM migrations WHERE dirty = ? ORDER BY version", dirty)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func appliedSet(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	vs, err := versions(ctx, db, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	set := make(map[int]bool, len(vs))
	for _, v := range vs {
		set[v] = true
	}
	return set, nil
}

func markDirty(ctx context.Context, db *sql.DB, version int) {
	_, err := db.ExecContext(ctx,
		"INSERT INTO migrations (version, dirty) VALUES (?, TRUE) ON CONFLICT(version) DO UPDATE SET dirty = TRUE",
		version)
	if err != nil {
		logging.Errorf("failed to mark migration %d dirty: %v", version, err)
	}
}

func loadMigrations() ([]Migration, error) {
	ups, err := fs.Glob(migrationsFS, "*.up.sql")
	if err != nil {
		return nil, err
	}

	out := make([]Migration, 0, len(ups))
	for _, file := range ups {
		version, name := parseFilename(file)
		if version == 0 {
			continue
		}
		up, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return nil, err
		}
		down, err := fs.ReadFile(migrationsFS, strings.TrimSuffix(file, ".up.sql")+".down.sql")
		if err != nil {
			return nil, fmt.Errorf("migration %d has no down file: %w", version, err)
		}
		out = append(out, Migration{Version: version, Name: name, Up: string(up), Down: string(down)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// parseFilename splits "000002_create_app_settings.up.sql" into 2 and
// "create_app_settings". Version 0 means the name does not follow the pattern.
func parseFilename(filename string) (int, string) {
	prefix, rest, ok := strings.Cut(strings.TrimSuffix(filename, ".up.sql"), "_")
	if !ok {
		return 0, ""
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, ""
	}
	return version, rest
}
