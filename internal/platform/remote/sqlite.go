package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/elettil/hospital/internal/platform/collection"
)

// SQLiteSource reads tables from a local SQLite file. It serves offline
// development and kiosks that ship a directory snapshot.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLite opens the database at path.
func OpenSQLite(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &SQLiteSource{db: db}, nil
}

// DB exposes the handle for seeding.
func (s *SQLiteSource) DB() *sql.DB { return s.db }

func (s *SQLiteSource) Close() error { return s.db.Close() }

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqliteQuery(q Query) string {
	query := `SELECT * FROM ` + quoteIdent(q.Table)
	if q.ActiveOnly {
		query += ` WHERE is_active = 1`
	}
	if q.OrderBy != "" {
		query += ` ORDER BY ` + quoteIdent(q.OrderBy) + ` ASC NULLS LAST`
	}
	return query
}

func (s *SQLiteSource) Rows(ctx context.Context, q Query) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, sqliteQuery(q))
	if err != nil {
		return nil, collection.NewFetchError(q.Table, collection.KindTransport, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, collection.NewFetchError(q.Table, collection.KindMalformed, err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, collection.NewFetchError(q.Table, collection.KindMalformed, fmt.Errorf("scan row: %w", err))
		}

		record := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
				continue
			}
			record[col] = values[i]
		}

		raw, err := json.Marshal(record)
		if err != nil {
			return nil, collection.NewFetchError(q.Table, collection.KindMalformed, err)
		}
		var row Row
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, collection.NewFetchError(q.Table, collection.KindMalformed, fmt.Errorf("decode row: %w", err))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, collection.NewFetchError(q.Table, collection.KindTransport, err)
	}
	return out, nil
}
