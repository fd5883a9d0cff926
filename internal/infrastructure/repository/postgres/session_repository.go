// Package postgres persists per-session query history.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/mcp startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS session_queries (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	query TEXT NOT NULL,
	strategy TEXT NOT NULL,
	fen TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_queries_session ON session_queries(session_id, created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *SessionRepository) RecordQuery(ctx context.Context, query domain.SessionQuery) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO session_queries (id, session_id, query, strategy, fen, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`,
		query.ID, query.SessionID, query.Query, query.Strategy, query.FEN, query.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session query: %w", err)
	}
	return nil
}

func (r *SessionRepository) RecentQueries(ctx context.Context, sessionID string, limit int) ([]domain.SessionQuery, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, session_id, query, strategy, fen, created_at
FROM session_queries
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2
`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query session history: %w", err)
	}
	defer rows.Close()

	var queries []domain.SessionQuery
	for rows.Next() {
		var q domain.SessionQuery
		var fen sql.NullString
		if err := rows.Scan(&q.ID, &q.SessionID, &q.Query, &q.Strategy, &fen, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session query: %w", err)
		}
		q.FEN = fen.String
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session history: %w", err)
	}
	return queries, nil
}
