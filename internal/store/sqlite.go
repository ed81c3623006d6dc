package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/sproc-lineage/internal/domain"
	"github.com/ashureev/sproc-lineage/internal/shared"
	_ "modernc.org/sqlite"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	writeMaxRetries  = 3
	writeRetryDelay  = 50 * time.Millisecond
)

// ErrDuplicateInteraction is returned when an interaction ID is recorded twice.
var ErrDuplicateInteraction = errors.New("interaction already recorded")

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS interactions (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		schema_name TEXT NOT NULL,
		proc_name TEXT NOT NULL,
		user_query TEXT NOT NULL,
		result_text TEXT NOT NULL,
		stored_path TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_interactions_created ON interactions(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordInteraction inserts rec, retrying briefly while the database is locked.
func (s *SQLiteStore) RecordInteraction(ctx context.Context, sessionID string, rec domain.InteractionRecord) error {
	query := `
	INSERT INTO interactions (id, session_id, schema_name, proc_name, user_query, result_text, stored_path, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var storedPath interface{}
	if rec.StoredPath != "" {
		storedPath = rec.StoredPath
	}

	var err error
	for i := 0; i < writeMaxRetries; i++ {
		_, err = s.db.ExecContext(ctx, query,
			rec.ID, sessionID, rec.SchemaName, rec.ProcName,
			rec.UserQuery, rec.ResultText, storedPath, rec.CreatedAt.UnixMilli(),
		)
		if err == nil {
			return nil
		}
		if !shared.IsSQLiteConflictError(err) || i == writeMaxRetries-1 {
			break
		}

		delay := writeRetryDelay * time.Duration(1<<i)
		slog.Debug("Audit database locked, retrying insert",
			"interaction_id", rec.ID,
			"attempt", i+1,
			"delay", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	if shared.IsSQLiteConstraintError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateInteraction, rec.ID)
	}
	return fmt.Errorf("insert interaction: %w", err)
}

// ListInteractions returns up to limit entries, newest first.
func (s *SQLiteStore) ListInteractions(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := `
		SELECT id, session_id, schema_name, proc_name, user_query,
		       result_text, stored_path, created_at
		FROM interactions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []domain.AuditEntry{}
	for rows.Next() {
		var (
			e          domain.AuditEntry
			storedPath sql.NullString
			createdAt  int64
		)
		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.SchemaName, &e.ProcName, &e.UserQuery,
			&e.ResultText, &storedPath, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}
		e.StoredPath = storedPath.String
		e.CreatedAt = time.UnixMilli(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return entries, nil
}
