package remote

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Record is one row to insert, keyed by column name. Ids are left to the
// store. A key present in some records of a batch but missing from others
// inserts NULL, not the column default.
type Record map[string]any

// Seeder loads records into a directory table.
type Seeder interface {
	Insert(ctx context.Context, table string, records []Record) (int, error)
}

// columns returns the union of record keys in a stable order.
func columns(records []Record) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			set[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(set))
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func values(r Record, cols []string) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = r[c]
	}
	return out
}

// sqliteSchema mirrors the Postgres migrations closely enough for Rows.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS doctors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    specialization TEXT,
    education TEXT,
    image TEXT,
    order_index INTEGER,
    is_active INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS departments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    icon TEXT,
    order_index INTEGER,
    is_active INTEGER NOT NULL DEFAULT 1
);`

// EnsureSchema creates the directory tables if they are missing.
func (s *SQLiteSource) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create sqlite schema: %w", err)
	}
	return nil
}

// Insert writes records in one transaction.
func (s *SQLiteSource) Insert(ctx context.Context, table string, records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	cols := columns(records)
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		marks[i] = "?"
	}
	stmt := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", "))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		if _, err := tx.ExecContext(ctx, stmt, values(r, cols)...); err != nil {
			return 0, fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(records), nil
}

// Insert bulk-loads records with COPY.
func (s *PGSource) Insert(ctx context.Context, table string, records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	cols := columns(records)
	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = values(r, cols)
	}
	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{table}, cols, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}
	return int(n), nil
}
