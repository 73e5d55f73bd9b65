// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the analysis pipeline.
//
// It exposes a narrow Backend interface (counters and timings) and a global,
// pluggable backend that defaults to a no-op implementation, so every call is
// safe even when no real backend is configured. Concrete systems live in
// subpackages (prompush, datadog).
package metrics

import "time"

// Metric names emitted by the pipeline.
const (
	StepTotal           = "eda_step_total"
	StepDurationSeconds = "eda_step_duration_seconds"
	RowsTotal           = "eda_rows_total"
	ValuesTotal         = "eda_values_total"
	FeaturesTotal       = "eda_features_total"
	BatchesTotal        = "eda_batches_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing
// backend. Call it once during startup, before any step runs.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep records one execution of a pipeline step (load, clean, a
// feature, save, export) with its latency and outcome.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRows increments a row-level counter. Typical kinds: "loaded",
// "merged", "saved", "exported".
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordValues increments a cell-level counter, e.g. "coerced_missing" for
// timestamp cells that could not be parsed.
func RecordValues(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(ValuesTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordFeature counts a derivation outcome: "created" or "skipped".
func RecordFeature(job, feature, outcome string) {
	backend.IncCounter(FeaturesTotal, 1, Labels{
		"job":     job,
		"feature": feature,
		"outcome": outcome,
	})
}

// RecordBatches increments the export batch counter for the given job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), Labels{
		"job": job,
	})
}
