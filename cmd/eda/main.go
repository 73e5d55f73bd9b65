// Command eda runs the Olist exploratory pipeline described by an analysis
// file: load raw CSV exports, join them, parse timestamps, derive delivery
// and order-value features, print a summary, save the enriched table as
// Parquet and optionally export it to a database.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/config"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/logging"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/metrics"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/metrics/datadog"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/metrics/prompush"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/report"

	// register all backends with the storage factory.
	_ "github.com/Lucas-Ker/olist-data-analysis-project/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := realMain(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// realMain parses args, runs the analysis and returns the process exit code.
func realMain(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("eda", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath        = fs.String("config", "configs/olist_eda.json", "analysis config JSON path")
		validate       = fs.Bool("validate", false, "validate the configuration and exit")
		verbose        = fs.Bool("v", false, "enable debug logs")
		metricsBackend = fs.String("metrics-backend", "none", "metrics backend to use (pushgateway, datadog, none)")
		probePath      = fs.String("probe", "", "sample a raw CSV file, print a draft source entry and exit")
		probeJoinOn    = fs.String("join-on", "order_id", "join key suggested by -probe when the file has it")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *probePath != "" {
		if err := runProbe(ctx, *probePath, *probeJoinOn, stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	a, err := config.LoadFile(*cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	a = config.Defaults(env.Apply(a))

	issues := config.ValidateAnalysis(a)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fmt.Fprintf(stderr, "Configuration is invalid: %s\n", *cfgPath)
		return 1
	}
	if *validate {
		fmt.Fprintf(stdout, "Configuration is valid: %s\n", *cfgPath)
		return 0
	}

	if *verbose {
		a.Logging.Level = "debug"
	}
	logger, err := newLoggerFn(logging.Config{Level: a.Logging.Level, Format: a.Logging.Format})
	if err != nil {
		fmt.Fprintf(stderr, "logging: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	flush := setupMetrics(*metricsBackend, a.Job, env, logger)
	defer flush()

	start := time.Now()
	logger.Debug("analysis",
		zap.String("job", a.Job),
		zap.Int("sources", len(a.Sources)),
		zap.Int("features", len(a.Features)),
		zap.String("storage", a.Storage.Kind),
	)
	res, err := run(ctx, a, report.NewZap(logger), stdout)
	if err != nil {
		logger.Error("analysis failed", zap.Error(err))
		return 1
	}
	logger.Info("completed",
		zap.Int("rows", res.Table.NumRows()),
		zap.String("output", res.Path),
		zap.Int64("exported", res.Exported),
		zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)),
	)
	return 0
}

// newLoggerFn is a test seam for the process logger.
var newLoggerFn = logging.New

// setupMetrics installs the selected backend and returns its flush function.
// Initialization failures leave the no-op backend in place.
func setupMetrics(name, job string, env config.Env, logger *zap.Logger) func() {
	var b metrics.Backend
	switch name {
	case "pushgateway":
		url := env.PushgatewayURL
		if url == "" {
			url = "http://localhost:9091"
		}
		pb, err := prompush.NewBackend(job, url)
		if err != nil {
			logger.Warn("metrics: pushgateway init failed; metrics disabled", zap.Error(err))
			return func() {}
		}
		logger.Info("metrics", zap.String("backend", name), zap.String("url", url), zap.String("job", job))
		b = pb

	case "datadog":
		addr := env.DogStatsdAddr
		if addr == "" {
			addr = "127.0.0.1:8125"
		}
		db, err := datadog.NewBackend(datadog.Config{
			Addr:       addr,
			Namespace:  "olist.",
			GlobalTags: []string{"job:" + job},
		})
		if err != nil {
			logger.Warn("metrics: datadog init failed; metrics disabled", zap.Error(err))
			return func() {}
		}
		logger.Info("metrics", zap.String("backend", name), zap.String("addr", addr))
		b = db

	case "", "none":
		return func() {}

	default:
		logger.Warn("metrics: unknown backend; metrics disabled", zap.String("backend", name))
		return func() {}
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			logger.Warn("metrics: flush error", zap.Error(err))
		}
	}
}
