package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Entry is one locally generated workout.
type Entry struct {
	ID          int64
	CreatedAt   time.Time
	WorkoutDate string
	WorkoutType string
	Focus       string
	SplitType   string
	Difficulty  string
	Model       string
	Content     string
	// RemoteID is the server workout ID once the entry has been synced.
	RemoteID    string
}

// History wraps the local SQLite workout history.
type History struct {
	db *sql.DB
}

// OpenHistory opens or creates the SQLite database and applies migrations.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	h := &History{db: db}
	if err := h.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating history: %w", err)
	}
	return h, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS workouts (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			workout_date TEXT NOT NULL,
			workout_type TEXT NOT NULL,
			focus TEXT NOT NULL,
			split_type TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			model TEXT NOT NULL,
			content TEXT NOT NULL,
			remote_id TEXT NOT NULL DEFAULT '',
			synced_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_created_at ON workouts(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_unsynced ON workouts(remote_id) WHERE remote_id = '';`,
	}
	for _, stmt := range stmts {
		if _, err := h.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Insert stores e and returns its row ID. A zero CreatedAt is set to now.
func (h *History) Insert(ctx context.Context, e Entry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := h.db.ExecContext(ctx,
		`INSERT INTO workouts (created_at, workout_date, workout_type, focus, split_type, difficulty, model, content)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
		e.WorkoutDate,
		e.WorkoutType,
		e.Focus,
		e.SplitType,
		e.Difficulty,
		e.Model,
		e.Content,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting workout: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit entries, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT `+entryColumns+`
		 FROM workouts ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	return scanEntries(rows)
}

// Unsynced returns entries not yet pushed to a server, oldest first.
func (h *History) Unsynced(ctx context.Context) ([]Entry, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT `+entryColumns+`
		 FROM workouts WHERE remote_id = '' ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying unsynced: %w", err)
	}
	return scanEntries(rows)
}

// MarkSynced records the server-side ID of an entry.
func (h *History) MarkSynced(ctx context.Context, id int64, remoteID string) error {
	res, err := h.db.ExecContext(ctx,
		`UPDATE workouts SET remote_id = ?, synced_at = ? WHERE id = ?`,
		remoteID, time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("marking workout %d synced: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("workout %d not found", id)
	}
	return nil
}

const entryColumns = `id, created_at, workout_date, workout_type, focus, split_type, difficulty, model, content, remote_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var created string
	if err := row.Scan(&e.ID, &created, &e.WorkoutDate, &e.WorkoutType, &e.Focus, &e.SplitType, &e.Difficulty, &e.Model, &e.Content, &e.RemoteID); err != nil {
		return Entry{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing created_at %q: %w", created, err)
	}
	e.CreatedAt = t
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns the entry with the given ID.
func (h *History) Get(ctx context.Context, id int64) (*Entry, error) {
	e, err := scanEntry(h.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM workouts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workout %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout %d: %w", id, err)
	}
	return &e, nil
}
