package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists conversational memory in a local SQLite file. It is
// the single-process alternative to Postgres; the schema mirrors it.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." && !strings.HasPrefix(path, ":memory:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite at %s: %w", path, err)
	}

	// SQLite serializes writers anyway; a single connection avoids
	// SQLITE_BUSY churn under concurrent sessions.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_turns_user_created ON turns (user_id, created_at);
		CREATE TABLE IF NOT EXISTS summaries (
			user_id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) AppendTurn(ctx context.Context, userID, role, content string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (user_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		userID, role, content, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("append turn: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append turn id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Recent(ctx context.Context, userID string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, role, content, created_at
		 FROM turns WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent turns: %w", err)
	}
	items, err := scanSQLTurns(rows, limit)
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order for prompt coherence.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

func (s *SQLiteStore) Oldest(ctx context.Context, userID string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, role, content, created_at
		 FROM turns WHERE user_id=? ORDER BY created_at ASC, id ASC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query oldest turns: %w", err)
	}
	return scanSQLTurns(rows, limit)
}

func scanSQLTurns(rows *sql.Rows, capHint int) ([]Turn, error) {
	defer rows.Close()
	items := make([]Turn, 0, capHint)
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.UserID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn row: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turn rows: %w", err)
	}
	return items, nil
}

func (s *SQLiteStore) DeleteTurns(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`DELETE FROM turns WHERE id IN (%s)`, strings.Join(placeholders, ","))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete turns: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CountTurns(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM turns WHERE user_id=?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count turns: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Summary(ctx context.Context, userID string) (*SummaryRecord, error) {
	var rec SummaryRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, content, updated_at FROM summaries WHERE user_id=?`,
		userID,
	).Scan(&rec.UserID, &rec.Content, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	return &rec, nil
}

func (s *SQLiteStore) UpsertSummary(ctx context.Context, userID, fragment string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summaries (user_id, content, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			content = summaries.content || ? || excluded.content,
			updated_at = excluded.updated_at`,
		userID, fragment, time.Now().UTC(), summarySeparator,
	)
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
