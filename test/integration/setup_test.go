//go:build integration

// Package integration runs the directory against a real Postgres. Run with
// `go test -tags integration ./test/integration/`. TEST_DATABASE_URL points
// the suite at an existing database; otherwise a Docker container is started.
package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/elettil/hospital/internal/platform/db"
	"github.com/elettil/hospital/migrations"
)

// globalPool is the package-level test database, initialized once in TestMain.
var globalPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	pool, cleanup, err := setupPostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to setup postgres: %v\n", err)
		os.Exit(1)
	}

	globalPool = pool
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupPostgres(ctx context.Context) (*pgxpool.Pool, func(), error) {
	connStr := os.Getenv("TEST_DATABASE_URL")
	stop := func() {}
	if connStr == "" {
		var err error
		connStr, stop, err = startPostgresContainer(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("start postgres container: %w", err)
		}
	}

	pool, err := db.NewPool(ctx, db.PoolConfig{URL: connStr, MaxConns: 4}, zerolog.Nop())
	if err != nil {
		stop()
		return nil, nil, err
	}

	if _, err := db.NewMigrator(pool, migrations.FS).Up(ctx); err != nil {
		pool.Close()
		stop()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	return pool, func() {
		pool.Close()
		stop()
	}, nil
}

// resetDirectory empties both directory tables.
func resetDirectory(t *testing.T, ctx context.Context) {
	t.Helper()
	if _, err := globalPool.Exec(ctx, `TRUNCATE doctors, departments`); err != nil {
		t.Fatalf("truncate directory: %v", err)
	}
}
