package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elettil/hospital/internal/config"
	"github.com/elettil/hospital/internal/domain/department"
	"github.com/elettil/hospital/internal/domain/doctor"
	"github.com/elettil/hospital/internal/platform/remote"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the committed directory into the configured database",
		Long: "Copies the committed doctors and departments into the Postgres or SQLite " +
			"directory. Postgres must be migrated first; SQLite tables are created on demand.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			d, err := openSource(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer d.Close()

			var seeder remote.Seeder
			switch {
			case d.sqlite != nil:
				if err := d.sqlite.EnsureSchema(ctx); err != nil {
					return err
				}
				seeder = d.sqlite
			case d.pool != nil:
				seeder = remote.NewPGSource(d.pool)
			default:
				return fmt.Errorf("seed needs DIRECTORY_SOURCE %q or %q, got %q",
					config.SourcePostgres, config.SourceSQLite, cfg.DirectorySource)
			}

			n, err := seeder.Insert(ctx, doctor.CollectionName, doctorRecords(doctor.Fallback()))
			if err != nil {
				return err
			}
			m, err := seeder.Insert(ctx, department.CollectionName, departmentRecords(department.Fallback()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d doctor(s) and %d department(s).\n", n, m)
			return nil
		},
	}
}

// nullable maps "" to NULL so optional columns stay unset.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// order falls back to the position in the committed list.
func order(idx *int, i int) int {
	if idx != nil {
		return *idx
	}
	return i
}

func doctorRecords(docs []doctor.Doctor) []remote.Record {
	out := make([]remote.Record, 0, len(docs))
	for i, d := range docs {
		out = append(out, remote.Record{
			"name":           d.Name,
			"specialization": nullable(d.Specialization),
			"education":      nullable(d.Education),
			"image":          nullable(d.Image),
			"order_index":    order(d.OrderIndex, i),
		})
	}
	return out
}

func departmentRecords(depts []department.Department) []remote.Record {
	out := make([]remote.Record, 0, len(depts))
	for i, d := range depts {
		out = append(out, remote.Record{
			"name":        d.Name,
			"icon":        nullable(d.Icon),
			"order_index": order(d.OrderIndex, i),
		})
	}
	return out
}
