package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite persists query history across restarts. Rows beyond capacity are trimmed on insert.
type SQLite struct {
	db       *sql.DB
	capacity int
}

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS query_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL,
	at_unix_nano INTEGER NOT NULL
);
`

func OpenSQLite(path string, capacity int) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// a single connection keeps ":memory:" databases consistent
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(createHistoryTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &SQLite{db: db, capacity: max(1, capacity)}, nil
}

func (s *SQLite) Record(ctx context.Context, query string, at time.Time) error {
	if query = strings.TrimSpace(query); query == "" {
		return nil
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO query_history (query, at_unix_nano) VALUES (?, ?)`,
		query, at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("history record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("history record: %w", err)
	}
	if _, err = s.db.ExecContext(ctx, `DELETE FROM query_history WHERE id <= ?`, id-int64(s.capacity)); err != nil {
		return fmt.Errorf("history trim: %w", err)
	}
	return nil
}

func (s *SQLite) Recent(ctx context.Context, limit int) ([]string, error) {
	recs, err := s.Records(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Query
	}
	return out, nil
}

func (s *SQLite) Records(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = s.capacity
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT query, at_unix_nano FROM query_history ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r  Record
			ns int64
		)
		if err = rows.Scan(&r.Query, &ns); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		r.At = time.Unix(0, ns).UTC()
		out = append(out, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}
	return out, nil
}

func (s *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM query_history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("history count: %w", err)
	}
	return n, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
