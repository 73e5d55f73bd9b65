package postgres

import (
	"context"
	"fmt"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/ddl"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/storage"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to *Repository and
// calling the close function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// Dialect renders Postgres DDL.
var Dialect = ddl.Dialect{
	Name:       "postgres ddl",
	QuoteIdent: ddl.DoubleQuote,
	MapKind: func(k table.Kind) string {
		switch k {
		case table.KindTime:
			return "TIMESTAMPTZ"
		case table.KindInt, table.KindNullableInt:
			return "BIGINT"
		case table.KindFloat:
			return "DOUBLE PRECISION"
		default:
			return "TEXT"
		}
	},
	Wrap: func(fqn, cols string) string {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", fqn, cols)
	},
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
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

	storage.RegisterDDL("postgres", func(ctx context.Context, repo storage.Repository, fqn string, t *table.Table) error {
		stmt, err := ddl.BuildCreateTableSQL(ddl.FromTable(fqn, t, Dialect), Dialect)
		if err != nil {
			return fmt.Errorf("infer table definition: %w", err)
		}
		return repo.Exec(ctx, stmt)
	})
}
