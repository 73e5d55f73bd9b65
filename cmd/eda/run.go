package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/cleaning"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/config"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/dataset"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/features"
	pcsv "github.com/Lucas-Ker/olist-data-analysis-project/internal/parser/csv"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/report"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/storage"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/summary"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// runResult is what a successful run produced.
type runResult struct {
	Table    *table.Table
	Path     string
	Stats    []summary.Stats
	Exported int64
}

// Function variables used as test seams.
var (
	newRepositoryFn = storage.New
)

// run executes the analysis end to end. The summary table is written to out.
func run(ctx context.Context, a config.Analysis, rep report.Reporter, out io.Writer) (runResult, error) {
	rep = report.OrNop(rep)
	res := dataset.Resolver{
		RawDir:       a.Paths.RawDir,
		ProcessedDir: a.Paths.ProcessedDir,
		Reporter:     rep,
		Job:          a.Job,
	}

	t, err := loadJoined(ctx, res, a.Sources)
	if err != nil {
		return runResult{}, err
	}

	parser := cleanParser(a.Clean)
	t, err = cleaning.Clean(t,
		cleaning.WithReporter(rep),
		cleaning.WithJob(a.Job),
		cleaning.WithParser(parser),
	)
	if err != nil {
		return runResult{}, fmt.Errorf("clean: %w", err)
	}

	chain, err := buildChain(a.Features)
	if err != nil {
		return runResult{}, err
	}
	chain = chain.WithParser(parser)
	t, err = chain.ApplyJob(a.Job, t, rep)
	if err != nil {
		return runResult{}, err
	}

	stats := summary.Describe(t, a.Summary...)
	if len(stats) > 0 {
		if err := summary.Render(out, stats); err != nil {
			return runResult{}, fmt.Errorf("summary: %w", err)
		}
	}

	path, err := res.SaveProcessed(ctx, t, a.Dataset)
	if err != nil {
		return runResult{}, err
	}

	result := runResult{Table: t, Path: path, Stats: stats}
	if a.Storage.Kind != "" {
		n, err := export(ctx, a, t, rep)
		if err != nil {
			return result, err
		}
		result.Exported = n
	}
	return result, nil
}

// loadJoined reads every source concurrently and left-joins them in order
// onto the first.
func loadJoined(ctx context.Context, res dataset.Resolver, sources []config.Source) (*table.Table, error) {
	files := make([]dataset.RawFile, len(sources))
	for i, s := range sources {
		opt := pcsv.Options{
			Numeric:   s.Numeric,
			TrimSpace: s.TrimSpace,
			HeaderMap: s.HeaderMap,
		}
		if s.Comma != "" {
			opt.Comma = []rune(s.Comma)[0]
		}
		files[i] = dataset.RawFile{File: s.File, Options: opt}
	}
	tables, err := res.LoadRawAll(ctx, files...)
	if err != nil {
		return nil, err
	}

	t := tables[0]
	for i := 1; i < len(tables); i++ {
		key := sources[i].JoinOn
		t, err = t.LeftJoin(tables[i], key)
		if err != nil {
			return nil, fmt.Errorf("join %s on %s: %w", sources[i].File, key, err)
		}
		res.Reporter.Infof("Joined %s on %s: %d rows", sources[i].File, key, t.NumRows())
	}
	return t, nil
}

// cleanParser builds the timestamp parser shared by the Cleaner and the
// day-difference features.
func cleanParser(c config.Clean) cleaning.Parser {
	var loc *time.Location
	if c.Location != "" {
		// Validated up front; an unknown zone never reaches here.
		if l, err := time.LoadLocation(c.Location); err == nil {
			loc = l
		}
	}
	return cleaning.NewParser(loc, c.Layouts...)
}

func buildChain(fs []config.Feature) (features.Chain, error) {
	chain := make(features.Chain, 0, len(fs))
	for i, f := range fs {
		d, err := features.Build(f.Kind, f.Options)
		if err != nil {
			return nil, fmt.Errorf("features[%d]: %w", i, err)
		}
		chain = append(chain, d)
	}
	return chain, nil
}

func export(ctx context.Context, a config.Analysis, t *table.Table, rep report.Reporter) (int64, error) {
	db := a.Storage.DB
	repo, err := newRepositoryFn(ctx, storage.Config{
		Kind:    a.Storage.Kind,
		DSN:     db.DSN,
		Table:   db.Table,
		Columns: db.Columns,
	})
	if err != nil {
		return 0, fmt.Errorf("storage: %w", err)
	}
	defer repo.Close()

	if db.AutoCreateTable {
		target := t
		if len(db.Columns) > 0 {
			if target, err = t.Select(db.Columns...); err != nil {
				return 0, fmt.Errorf("apply DDL: %w", err)
			}
		}
		if err := storage.EnsureTable(ctx, a.Storage.Kind, repo, db.Table, target); err != nil {
			return 0, fmt.Errorf("apply DDL: %w", err)
		}
	}

	n, err := storage.ExportTable(ctx, repo, t, storage.ExportOptions{
		Columns:   db.Columns,
		BatchSize: db.BatchSize,
		Reporter:  rep,
		Job:       a.Job,
	})
	if err != nil {
		return n, err
	}
	rep.Infof("Exported %d rows to %s table %s", n, a.Storage.Kind, db.Table)
	return n, nil
}
