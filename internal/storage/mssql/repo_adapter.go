// Package mssql registers the SQL Server backend with the storage factory.
package mssql

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

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// Dialect renders SQL Server DDL guarded by OBJECT_ID, since CREATE TABLE
// has no IF NOT EXISTS form.
var Dialect = ddl.Dialect{
	Name:       "mssql ddl",
	QuoteIdent: msIdent,
	MapKind: func(k table.Kind) string {
		switch k {
		case table.KindTime:
			return "DATETIME2"
		case table.KindInt, table.KindNullableInt:
			return "BIGINT"
		case table.KindFloat:
			return "FLOAT"
		default:
			return "NVARCHAR(MAX)"
		}
	},
	Wrap: func(fqn, cols string) string {
		return fmt.Sprintf("IF OBJECT_ID(%s, N'U') IS NULL\nBEGIN\nCREATE TABLE %s (\n  %s\n);\nEND;", msLiteral(fqn), fqn, cols)
	},
}

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
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

	storage.RegisterDDL("mssql", func(ctx context.Context, repo storage.Repository, fqn string, t *table.Table) error {
		stmt, err := ddl.BuildCreateTableSQL(ddl.FromTable(fqn, t, Dialect), Dialect)
		if err != nil {
			return fmt.Errorf("infer table definition: %w", err)
		}
		return repo.Exec(ctx, stmt)
	})
}
