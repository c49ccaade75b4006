package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Outcome values recorded per deployment.
const (
	OutcomeDeployed         = "deployed"
	OutcomeValidationFailed = "validation-failed"
	OutcomeFailed           = "failed"
)

// Entry is a single recorded deployment.
type Entry struct {
	ID         string
	CreatedAt  time.Time
	ConfigPath string
	ConfigHash string
	EnvFile    bool
	Outcome    string
	Message    string
}

// Store manages deployment history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database and applies
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
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

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS deployments (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    config_path TEXT NOT NULL,
    config_hash TEXT NOT NULL,
    env_file INTEGER NOT NULL DEFAULT 0,
    outcome TEXT NOT NULL,
    message TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_deployments_created_at ON deployments(created_at);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Record inserts a deployment entry and returns it with ID and timestamp
// assigned.
func (s *Store) Record(ctx context.Context, entry Entry) (*Entry, error) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO deployments (id, created_at, config_path, config_hash, env_file, outcome, message)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.CreatedAt.Format(time.RFC3339Nano),
		entry.ConfigPath,
		entry.ConfigHash,
		boolToInt(entry.EnvFile),
		entry.Outcome,
		entry.Message,
	)
	if err != nil {
		return nil, fmt.Errorf("insert deployment: %w", err)
	}
	return &entry, nil
}

// List returns up to limit deployments, newest first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, created_at, config_path, config_hash, env_file, outcome, message
              FROM deployments ORDER BY created_at DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Latest returns the most recent deployment, or nil when none exist.
func (s *Store) Latest(ctx context.Context) (*Entry, error) {
	entries, err := s.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// LastDeployedHash returns the config hash of the most recent successful
// deployment, or empty when there is none.
func (s *Store) LastDeployedHash(ctx context.Context) (string, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT config_hash FROM deployments WHERE outcome = ? ORDER BY created_at DESC LIMIT 1`,
		OutcomeDeployed,
	)
	var hash string
	if err := row.Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("query last deployed hash: %w", err)
	}
	return hash, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var entry Entry
	var createdAt string
	var envFile int
	if err := rows.Scan(&entry.ID, &createdAt, &entry.ConfigPath, &entry.ConfigHash, &envFile, &entry.Outcome, &entry.Message); err != nil {
		return Entry{}, fmt.Errorf("scan deployment: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	entry.CreatedAt = parsed
	entry.EnvFile = envFile != 0
	return entry, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
