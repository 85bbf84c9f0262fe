package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists conversational memory in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS turns (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_user_created ON turns (user_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS summaries (
			user_id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) AppendTurn(ctx context.Context, userID, role, content string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO turns (user_id, role, content, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		userID, role, content, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("append turn: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Recent(ctx context.Context, userID string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, role, content, created_at
		 FROM turns WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent turns: %w", err)
	}
	items, err := scanTurns(rows, limit)
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order for prompt coherence.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

func (s *PostgresStore) Oldest(ctx context.Context, userID string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, role, content, created_at
		 FROM turns WHERE user_id=$1 ORDER BY created_at ASC, id ASC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query oldest turns: %w", err)
	}
	return scanTurns(rows, limit)
}

func scanTurns(rows pgx.Rows, capHint int) ([]Turn, error) {
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

func (s *PostgresStore) DeleteTurns(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM turns WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete turns: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountTurns(ctx context.Context, userID string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM turns WHERE user_id=$1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count turns: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Summary(ctx context.Context, userID string) (*SummaryRecord, error) {
	var rec SummaryRecord
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, content, updated_at FROM summaries WHERE user_id=$1`,
		userID,
	).Scan(&rec.UserID, &rec.Content, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) UpsertSummary(ctx context.Context, userID, fragment string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO summaries (user_id, content, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET
			content = summaries.content || $4 || EXCLUDED.content,
			updated_at = EXCLUDED.updated_at`,
		userID, fragment, time.Now().UTC(), summarySeparator,
	)
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
