package dataset

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/datasource"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/datasource/file"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/metrics"
	pcsv "github.com/Lucas-Ker/olist-data-analysis-project/internal/parser/csv"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// LoadCSV reads one CSV source into a table. The result counts skipped rows
// and numeric cells that did not parse.
func LoadCSV(ctx context.Context, src datasource.Source, opt pcsv.Options) (*table.Table, pcsv.Result, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, pcsv.Result{}, err
	}
	defer rc.Close()

	return pcsv.ReadTable(rc, opt)
}

// RawFile is one entry for LoadRawAll.
type RawFile struct {
	File    string
	Options pcsv.Options
}

// LoadRaw reads RawDir/file.
func (r Resolver) LoadRaw(ctx context.Context, name string, opt pcsv.Options) (*table.Table, error) {
	path := r.RawPath(name)
	r.rep().Infof("Loading data from: %s", path)
	if opt.Reporter == nil {
		opt.Reporter = r.Reporter
	}

	start := time.Now()
	t, res, err := LoadCSV(ctx, file.NewLocal(path), opt)
	metrics.RecordStep(r.Job, "load", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	metrics.RecordRows(r.Job, "loaded", int64(t.NumRows()))
	metrics.RecordRows(r.Job, "skipped", int64(res.Skipped))
	metrics.RecordValues(r.Job, "bad_number", int64(res.BadNumbers))
	if res.Skipped > 0 {
		r.rep().Warnf("%s: skipped %d malformed row(s)", name, res.Skipped)
	}
	if res.BadNumbers > 0 {
		r.rep().Warnf("%s: %d numeric value(s) could not be parsed and are missing", name, res.BadNumbers)
	}
	return t, nil
}

// LoadRawAll reads every file concurrently. Tables come back in input order;
// the first failure cancels the rest.
func (r Resolver) LoadRawAll(ctx context.Context, files ...RawFile) ([]*table.Table, error) {
	out := make([]*table.Table, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			t, err := r.LoadRaw(ctx, f.File, f.Options)
			if err != nil {
				return err
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
