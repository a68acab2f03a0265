package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"finquest/internal/modules/session/domain"

	_ "modernc.org/sqlite"
)

type SQLiteResultStore struct {
	db *sql.DB
}

func NewSQLiteResultStore(dbPath string) (*SQLiteResultStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteResultStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteResultStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS lesson_results (
  session_id TEXT PRIMARY KEY,
  correct INTEGER NOT NULL,
  incorrect INTEGER NOT NULL,
  xp_earned INTEGER NOT NULL,
  started_at TEXT NOT NULL,
  finished_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create lesson_results table: %w", err)
	}
	return nil
}

func (s *SQLiteResultStore) Save(ctx context.Context, result domain.Result) error {
	const stmt = `
INSERT INTO lesson_results (session_id, correct, incorrect, xp_earned, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(session_id) DO UPDATE SET
  correct=excluded.correct,
  incorrect=excluded.incorrect,
  xp_earned=excluded.xp_earned,
  started_at=excluded.started_at,
  finished_at=excluded.finished_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		result.SessionID,
		result.Correct,
		result.Incorrect,
		result.XPEarned,
		result.StartedAt.UTC().Format(time.RFC3339),
		result.FinishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save lesson result: %w", err)
	}
	return nil
}

func (s *SQLiteResultStore) List(ctx context.Context, limit int) ([]domain.Result, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
SELECT session_id, correct, incorrect, xp_earned, started_at, finished_at
FROM lesson_results
ORDER BY finished_at DESC
LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list lesson results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Result
	for rows.Next() {
		var r domain.Result
		var started, finished string
		if err := rows.Scan(&r.SessionID, &r.Correct, &r.Incorrect, &r.XPEarned, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan lesson result: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if r.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lesson results: %w", err)
	}
	return results, nil
}

func (s *SQLiteResultStore) Close() error {
	return s.db.Close()
}
