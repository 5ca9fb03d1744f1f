package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const itemColumns = `subject, performance, status, cameras_extracted, frame_count,
	size_bytes, error_message, retry_eligible, attempts, created_at, updated_at`

// Store manages manifest persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the manifest database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure manifest directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// synchronous=FULL because a committed terminal status is the gate for
	// deleting the only local copy of a container.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Ensure returns the entry for a unit, inserting a pending row when none
// exists yet.
func (s *Store) Ensure(ctx context.Context, key Key) (*Entry, error) {
	existing, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO units (subject, performance, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (subject, performance) DO NOTHING`,
		key.Subject, key.Performance, StatusPending, now, now,
	)
	if err != nil {
		return nil, writeErr("insert unit", err)
	}
	return s.Get(ctx, key)
}

// Get fetches a manifest entry by unit key, or nil when absent.
func (s *Store) Get(ctx context.Context, key Key) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM units WHERE subject = ? AND performance = ?`,
		key.Subject, key.Performance,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return entry, nil
}

// Update persists the full entry row, last write wins. The write is durable
// before Update returns.
func (s *Store) Update(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	entry.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`UPDATE units
		 SET status = ?, cameras_extracted = ?, frame_count = ?, size_bytes = ?,
		     error_message = ?, retry_eligible = ?, attempts = ?, updated_at = ?
		 WHERE subject = ? AND performance = ?`,
		entry.Status,
		entry.CamerasExtracted,
		entry.FrameCount,
		entry.SizeBytes,
		nullableString(entry.ErrorMessage),
		boolToInt(entry.RetryEligible),
		entry.Attempts,
		entry.UpdatedAt.Format(time.RFC3339Nano),
		entry.Subject,
		entry.Performance,
	)
	return writeErr("update unit", err)
}

// Transition moves the entry to the next status after validating that the
// move respects the monotonic lifecycle, then persists it.
func (s *Store) Transition(ctx context.Context, entry *Entry, next Status) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	if !entry.Status.CanTransition(next) {
		return fmt.Errorf("invalid transition %s -> %s for %s", entry.Status, next, entry.Key())
	}
	if next == StatusFetching {
		entry.Attempts++
	}
	entry.Status = next
	if next != StatusFailed {
		entry.ErrorMessage = ""
		entry.RetryEligible = false
	}
	return s.Update(ctx, entry)
}

// Load ensures a manifest row exists for every configured unit and returns
// the work queue: configured units minus those already completed.
func (s *Store) Load(ctx context.Context, configured []Key) ([]*Entry, error) {
	pending := make([]*Entry, 0, len(configured))
	for _, key := range configured {
		entry, err := s.Ensure(ctx, key)
		if err != nil {
			return nil, err
		}
		if entry.Status == StatusCompleted {
			continue
		}
		pending = append(pending, entry)
	}
	return pending, nil
}

// List returns entries filtered by status set (or all entries when no status
// is provided), ordered by unit key.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Entry, error) {
	query := `SELECT ` + itemColumns + ` FROM units`
	var args []any
	if len(statuses) > 0 {
		query += ` WHERE status IN (`
		for i, status := range statuses {
			if i > 0 {
				query += `, `
			}
			query += `?`
			args = append(args, status)
		}
		query += `)`
	}
	query += ` ORDER BY subject, performance`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query units: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ResetInFlight returns units observed mid-processing to pending. Run at
// startup: an in-flight unit with no completed record was interrupted and is
// safely re-fetched from the beginning.
func (s *Store) ResetInFlight(ctx context.Context) (int, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE units SET status = ?, updated_at = ? WHERE status IN (?, ?, ?)`,
		StatusPending, now, StatusFetching, StatusIndexing, StatusExtracting,
	)
	if err != nil {
		return 0, writeErr("reset in-flight units", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

// ResetFailed returns failed units to pending for another attempt, clearing
// their error state.
func (s *Store) ResetFailed(ctx context.Context) (int, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE units SET status = ?, error_message = NULL, retry_eligible = 0, updated_at = ?
		 WHERE status = ?`,
		StatusPending, now, StatusFailed,
	)
	if err != nil {
		return 0, writeErr("reset failed units", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

// Clear deletes a unit's row entirely. Used with removal of the unit's
// output and completion marker to force re-extraction; normal operation
// never deletes rows.
func (s *Store) Clear(ctx context.Context, key Key) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM units WHERE subject = ? AND performance = ?`,
		key.Subject, key.Performance,
	)
	return writeErr("clear unit", err)
}

// Summary aggregates manifest counts per lifecycle state.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM units GROUP BY status`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize units: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, fmt.Errorf("scan summary row: %w", err)
		}
		summary.Total += count
		switch {
		case status == StatusPending:
			summary.Pending += count
		case status.IsInFlight():
			summary.InFlight += count
		case status == StatusCompleted:
			summary.Completed += count
		case status == StatusFailed:
			summary.Failed += count
		}
	}
	return summary, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry         Entry
		errorMessage  sql.NullString
		retryEligible int
		createdAt     string
		updatedAt     string
	)
	err := row.Scan(
		&entry.Subject,
		&entry.Performance,
		&entry.Status,
		&entry.CamerasExtracted,
		&entry.FrameCount,
		&entry.SizeBytes,
		&errorMessage,
		&retryEligible,
		&entry.Attempts,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.ErrorMessage = errorMessage.String
	entry.RetryEligible = retryEligible != 0
	entry.CreatedAt = parseTime(createdAt)
	entry.UpdatedAt = parseTime(updatedAt)
	return &entry, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
