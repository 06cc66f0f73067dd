package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"plenum/internal/config"
	"plenum/internal/label"
	"plenum/internal/session"
)

// Store manages session-state persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the session database under the work
// directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.WorkDir, "plenum.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
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

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Begin marks a session as processing under the given run. A session already
// in the store keeps its row; its status, run id and timestamps reset.
func (s *Store) Begin(ctx context.Context, id session.ID, runID string) error {
	now := timestamp()
	err := s.execWithRetry(ctx,
		`INSERT INTO sessions (session, status, run_id, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(session) DO UPDATE SET
             status = excluded.status,
             run_id = excluded.run_id,
             error_message = '',
             updated_at = excluded.updated_at`,
		id.String(), StatusProcessing, runID, now, now)
	if err != nil {
		return fmt.Errorf("begin session %s: %w", id, err)
	}
	return nil
}

// MarkLabeled records a completed labeling pass and its summary counts.
func (s *Store) MarkLabeled(ctx context.Context, id session.ID, summary label.Summary) error {
	err := s.execWithRetry(ctx,
		`UPDATE sessions SET
             status = ?, error_message = '',
             kept = ?, dropped = ?, queued = ?, unresolved = ?,
             kept_seconds = ?, dropped_seconds = ?,
             updated_at = ?
         WHERE session = ?`,
		StatusLabeled,
		summary.Kept, summary.Dropped, summary.Queued, summary.Unresolved,
		summary.KeptDuration.Seconds(), summary.DroppedDuration.Seconds(),
		timestamp(), id.String())
	if err != nil {
		return fmt.Errorf("mark session %s labeled: %w", id, err)
	}
	return nil
}

// MarkFailed records a session-fatal failure with its reason.
func (s *Store) MarkFailed(ctx context.Context, id session.ID, reason string) error {
	err := s.execWithRetry(ctx,
		`UPDATE sessions SET status = ?, error_message = ?, updated_at = ? WHERE session = ?`,
		StatusFailed, reason, timestamp(), id.String())
	if err != nil {
		return fmt.Errorf("mark session %s failed: %w", id, err)
	}
	return nil
}

// MarkAssembled flips every labeled session to assembled after a successful
// merge.
func (s *Store) MarkAssembled(ctx context.Context) error {
	err := s.execWithRetry(ctx,
		`UPDATE sessions SET status = ?, updated_at = ? WHERE status = ?`,
		StatusAssembled, timestamp(), StatusLabeled)
	if err != nil {
		return fmt.Errorf("mark sessions assembled: %w", err)
	}
	return nil
}

const sessionColumns = `session, status, run_id, error_message,
    kept, dropped, queued, unresolved, kept_seconds, dropped_seconds,
    created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (*SessionState, error) {
	var (
		state            SessionState
		status           string
		created, updated string
	)
	err := row.Scan(&state.Session, &status, &state.RunID, &state.ErrorMessage,
		&state.Kept, &state.Dropped, &state.Queued, &state.Unresolved,
		&state.KeptSeconds, &state.DroppedSeconds, &created, &updated)
	if err != nil {
		return nil, err
	}
	state.Status = Status(status)
	if ts, parseErr := time.Parse(time.RFC3339Nano, created); parseErr == nil {
		state.CreatedAt = ts
	}
	if ts, parseErr := time.Parse(time.RFC3339Nano, updated); parseErr == nil {
		state.UpdatedAt = ts
	}
	return &state, nil
}

// Get fetches one session's state, or nil when the session is unknown.
func (s *Store) Get(ctx context.Context, id session.ID) (*SessionState, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE session = ?`, id.String())
	state, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return state, nil
}

// List returns every session row ordered by session id.
func (s *Store) List(ctx context.Context) ([]SessionState, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY session`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var states []SessionState
	for rows.Next() {
		state, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		states = append(states, *state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return states, nil
}

// Labeled returns the sessions ready for assembly, ordered by session id.
func (s *Store) Labeled(ctx context.Context) ([]session.ID, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT session FROM sessions WHERE status = ? ORDER BY session`, StatusLabeled)
	if err != nil {
		return nil, fmt.Errorf("list labeled sessions: %w", err)
	}
	defer rows.Close()

	var ids []session.ID
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		id, err := session.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("stored session id %q: %w", value, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate labeled sessions: %w", err)
	}
	return ids, nil
}

// HasProcessing reports whether any session is mid-run. Assembly uses this
// as its join barrier.
func (s *Store) HasProcessing(ctx context.Context) (bool, error) {
	ctx = ensureContext(ctx)
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM sessions WHERE status = ?`, StatusProcessing).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count processing sessions: %w", err)
	}
	return count > 0, nil
}

// Summarize aggregates session counts per lifecycle state.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(1) FROM sessions GROUP BY status`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize sessions: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, fmt.Errorf("scan summary row: %w", err)
		}
		summary.Total += count
		switch Status(status) {
		case StatusPending:
			summary.Pending += count
		case StatusProcessing:
			summary.Processing += count
		case StatusLabeled:
			summary.Labeled += count
		case StatusFailed:
			summary.Failed += count
		case StatusAssembled:
			summary.Assembled += count
		}
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("iterate summary rows: %w", err)
	}
	return summary, nil
}
