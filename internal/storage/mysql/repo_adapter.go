package mysql

import (
	"context"
	"fmt"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/ddl"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/storage"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

// wrappedRepo adapts *Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close closes the underlying connection pool.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// Dialect renders MySQL DDL. Timestamps use DATETIME(6) to keep microseconds.
var Dialect = ddl.Dialect{
	Name:       "mysql ddl",
	QuoteIdent: myIdent,
	MapKind: func(k table.Kind) string {
		switch k {
		case table.KindTime:
			return "DATETIME(6)"
		case table.KindInt, table.KindNullableInt:
			return "BIGINT"
		case table.KindFloat:
			return "DOUBLE"
		default:
			return "TEXT"
		}
	},
	Wrap: func(fqn, cols string) string {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", fqn, cols)
	},
}

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
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

	storage.RegisterDDL("mysql", func(ctx context.Context, repo storage.Repository, fqn string, t *table.Table) error {
		stmt, err := ddl.BuildCreateTableSQL(ddl.FromTable(fqn, t, Dialect), Dialect)
		if err != nil {
			return fmt.Errorf("infer table definition: %w", err)
		}
		return repo.Exec(ctx, stmt)
	})
}
