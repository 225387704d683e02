package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/elettil/hospital/internal/config"
	"github.com/elettil/hospital/internal/domain/department"
	"github.com/elettil/hospital/internal/domain/doctor"
	"github.com/elettil/hospital/internal/platform/db"
	"github.com/elettil/hospital/internal/platform/remote"
)

// directory is the wired data layer: one row source shared by both
// collections, and the handles that need closing on exit.
type directory struct {
	source      remote.Source
	pool        *pgxpool.Pool
	sqlite      *remote.SQLiteSource
	doctors     *doctor.Service
	departments *department.Service
}

func (d *directory) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
	if d.sqlite != nil {
		d.sqlite.Close()
	}
}

// probe returns the health probe for the configured store, or nil when there
// is nothing local to check.
func (d *directory) probe() db.Probe {
	switch {
	case d.pool != nil:
		return d.pool.Ping
	case d.sqlite != nil:
		return d.sqlite.DB().PingContext
	}
	return nil
}

// openSource connects the row source selected by DIRECTORY_SOURCE.
func openSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*directory, error) {
	d := &directory{}
	switch cfg.DirectorySource {
	case config.SourcePostgREST:
		client := &http.Client{Timeout: cfg.FetchTimeout}
		d.source = remote.NewPostgRESTSource(cfg.PostgRESTURL, cfg.PostgRESTKey, client)
	case config.SourcePostgres:
		pool, err := db.NewPool(ctx, db.PoolConfig{
			URL:         cfg.DatabaseURL,
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			ConnTimeout: cfg.FetchTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		d.pool = pool
		d.source = remote.NewPGSource(pool)
	case config.SourceSQLite:
		src, err := remote.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		d.sqlite = src
		d.source = src
	default:
		d.source = remote.Unavailable{}
	}
	return d, nil
}

// newDirectory opens the configured source and builds both collection
// services on it.
func newDirectory(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*directory, error) {
	d, err := openSource(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s directory: %w", cfg.DirectorySource, err)
	}

	q := remote.Query{ActiveOnly: true, OrderBy: "order_index"}
	doctorFetcher := remote.NewFetcher(d.source, q, doctor.FromRow, cfg.FetchTimeout)
	departmentFetcher := remote.NewFetcher(d.source, q, department.FromRow, cfg.FetchTimeout)

	images := doctor.NewImageResolver(doctor.Portraits(), "/media/doctors", cfg.PlaceholderBaseURL)
	d.doctors = doctor.NewService(doctorFetcher, images, logger)
	d.departments = department.NewService(departmentFetcher, logger)

	if d.pool != nil {
		d.doctors.SetRepository(doctor.NewRepo(d.pool))
	}

	logger.Info().Str("source", cfg.DirectorySource).Msg("directory configured")
	return d, nil
}

func assetDir(cfg *config.Config, name string) string {
	return filepath.Join(cfg.AssetsDir, name)
}

func cacheDir(cfg *config.Config, name string) string {
	return filepath.Join(cfg.ImageCacheDir, name)
}
