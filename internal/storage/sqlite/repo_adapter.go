package sqlite

import (
	"context"
	"fmt"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/ddl"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/storage"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo adds Close to *Repository using the cleanup function returned
// by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close implements storage.Repository.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Dialect renders SQLite DDL. Datetimes are TEXT because SQLite has no
// native timestamp type.
var Dialect = ddl.Dialect{
	Name:       "sqlite ddl",
	QuoteIdent: ddl.DoubleQuote,
	MapKind: func(k table.Kind) string {
		switch k {
		case table.KindInt, table.KindNullableInt:
			return "INTEGER"
		case table.KindFloat:
			return "REAL"
		default:
			return "TEXT"
		}
	},
	Wrap: func(fqn, cols string) string {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", fqn, cols)
	},
}

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("sqlite", func(ctx context.Context, repo storage.Repository, fqn string, t *table.Table) error {
		stmt, err := ddl.BuildCreateTableSQL(ddl.FromTable(fqn, t, Dialect), Dialect)
		if err != nil {
			return fmt.Errorf("infer table definition: %w", err)
		}
		return repo.Exec(ctx, stmt)
	})
}
