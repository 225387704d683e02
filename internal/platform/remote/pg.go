package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elettil/hospital/internal/platform/collection"
)

// PGSource reads tables from Postgres. Rows are projected with to_jsonb so any
// table shape decodes into Row.
type PGSource struct {
	pool *pgxpool.Pool
}

func NewPGSource(pool *pgxpool.Pool) *PGSource {
	return &PGSource{pool: pool}
}

func pgQuery(q Query) string {
	sql := fmt.Sprintf(`SELECT to_jsonb(t) FROM %s t`, pgx.Identifier{q.Table}.Sanitize())
	if q.ActiveOnly {
		sql += ` WHERE t.is_active`
	}
	if q.OrderBy != "" {
		sql += fmt.Sprintf(` ORDER BY t.%s ASC NULLS LAST`, pgx.Identifier{q.OrderBy}.Sanitize())
	}
	return sql
}

func (s *PGSource) Rows(ctx context.Context, q Query) ([]Row, error) {
	rows, err := s.pool.Query(ctx, pgQuery(q))
	if err != nil {
		return nil, classifyPG(q.Table, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, collection.NewFetchError(q.Table, collection.KindMalformed, fmt.Errorf("scan row: %w", err))
		}
		var row Row
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, collection.NewFetchError(q.Table, collection.KindMalformed, fmt.Errorf("decode row: %w", err))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPG(q.Table, err)
	}
	return out, nil
}

// classifyPG maps Postgres error classes onto fetch error kinds.
func classifyPG(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "28000", "28P01", "42501":
			return collection.NewFetchError(table, collection.KindUnauthorized, err)
		case "42P01", "42703":
			return collection.NewFetchError(table, collection.KindMalformed, err)
		}
	}
	return collection.NewFetchError(table, collection.KindTransport, err)
}
