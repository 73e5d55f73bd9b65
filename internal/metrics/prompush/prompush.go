// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// The analysis run is a short-lived batch job, so instead of exposing a scrape
// endpoint the collected metrics are pushed to a Pushgateway on Flush. All
// Prometheus-specific dependencies stay in this package.
package prompush

import (
	"fmt"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // eda_step_total
	stepDuration *prometheus.SummaryVec // eda_step_duration_seconds

	rowCounter     *prometheus.CounterVec // eda_rows_total
	valueCounter   *prometheus.CounterVec // eda_values_total
	featureCounter *prometheus.CounterVec // eda_features_total
	batchCounter   prometheus.Counter     // eda_batches_total
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name (usually the analysis job).
// gatewayURL: base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "eda"
	}

	reg := prometheus.NewRegistry()

	// job is the Pushgateway grouping key, so it is not a metric label.
	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Total number of pipeline step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       metrics.StepDurationSeconds,
			Help:       "Duration of pipeline steps in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Row counts per kind (loaded, merged, saved, exported).",
		},
		[]string{"kind"},
	)
	valueCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.ValuesTotal,
			Help: "Cell counts per kind (e.g. coerced_missing).",
		},
		[]string{"kind"},
	)
	featureCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.FeaturesTotal,
			Help: "Feature derivations per feature and outcome (created, skipped).",
		},
		[]string{"feature", "outcome"},
	)
	batchCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Total number of export batches flushed for this job.",
		},
	)

	for _, c := range []struct {
		name string
		col  prometheus.Collector
	}{
		{"step counter", stepCounter},
		{"step summary", stepDuration},
		{"row counter", rowCounter},
		{"value counter", valueCounter},
		{"feature counter", featureCounter},
		{"batch counter", batchCounter},
	} {
		if err := reg.Register(c.col); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", c.name, err)
		}
	}

	return &Backend{
		gatewayURL:     gatewayURL,
		jobName:        jobName,
		reg:            reg,
		stepCounter:    stepCounter,
		stepDuration:   stepDuration,
		rowCounter:     rowCounter,
		valueCounter:   valueCounter,
		featureCounter: featureCounter,
		batchCounter:   batchCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter == nil {
			return
		}
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)

	case metrics.RowsTotal:
		if b.rowCounter == nil {
			return
		}
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)

	case metrics.ValuesTotal:
		if b.valueCounter == nil {
			return
		}
		b.valueCounter.WithLabelValues(labels["kind"]).Add(delta)

	case metrics.FeaturesTotal:
		if b.featureCounter == nil {
			return
		}
		b.featureCounter.WithLabelValues(labels["feature"], labels["outcome"]).Add(delta)

	case metrics.BatchesTotal:
		if b.batchCounter == nil {
			return
		}
		b.batchCounter.Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDurationSeconds || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
