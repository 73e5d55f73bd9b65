package storage

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/metrics"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/report"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// ExportOptions tunes ExportTable.
type ExportOptions struct {
	// Columns restricts and orders the exported columns. Empty means all.
	Columns []string
	// BatchSize is the number of rows per CopyFrom call. Default 5000.
	BatchSize int
	Reporter  report.Reporter
	Job       string
}

// ExportTable streams the rows of t into repo in batches. Missing cells are
// sent as NULL. It returns the number of rows the backend reported.
func ExportTable(ctx context.Context, repo Repository, t *table.Table, opt ExportOptions) (int64, error) {
	if t == nil {
		return 0, table.ErrNilTable
	}
	if repo == nil {
		return 0, fmt.Errorf("export: repository must not be nil")
	}
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	if len(opt.Columns) > 0 {
		sel, err := t.Select(opt.Columns...)
		if err != nil {
			return 0, fmt.Errorf("export: %w", err)
		}
		t = sel
	}
	batch := opt.BatchSize
	if batch <= 0 {
		batch = 5000
	}
	columns := t.Names()

	copyFn := func(ctx context.Context, cols []string, rows [][]any) (int64, error) {
		n, err := repo.CopyFrom(ctx, cols, rows)
		if err == nil {
			metrics.RecordBatches(opt.Job, 1)
		}
		return n, err
	}

	start := time.Now()
	in := make(chan []any, batch)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(in)
		for i := 0; i < t.NumRows(); i++ {
			select {
			case in <- t.Row(i):
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var total int64
	g.Go(func() error {
		var err error
		total, err = LoadBatches(gctx, columns, in, batch, copyFn, opt.Reporter)
		return err
	})

	err := g.Wait()
	metrics.RecordStep(opt.Job, "export", err, time.Since(start))
	metrics.RecordRows(opt.Job, "exported", total)
	if err != nil {
		return total, fmt.Errorf("export: %w", err)
	}
	return total, nil
}
