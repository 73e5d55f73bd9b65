// Package features derives numeric columns from a cleaned order table.
//
// Every derivation declares the columns it needs. When one is absent the
// derivation is skipped with a warning and the table comes back unchanged;
// when all are present it runs unconditionally and missing input cells simply
// produce missing output cells.
package features

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/metrics"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/report"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// Derivation computes one output column from a table.
type Derivation interface {
	// Name is the output column name.
	Name() string
	// Requires lists the input columns that must be present.
	Requires() []string
	// Derive returns a new table with the output column added (or replaced).
	// It assumes Requires() is satisfied; use Apply to get the skip policy.
	Derive(t *table.Table) (*table.Table, error)
}

// Apply runs d on t under the shared precondition policy: a missing input
// column is reported through rep and t is returned unchanged with a nil
// error. Only structural failures are returned as errors.
func Apply(t *table.Table, d Derivation, rep report.Reporter) (*table.Table, error) {
	return apply(t, d, report.OrNop(rep), "")
}

func apply(t *table.Table, d Derivation, rep report.Reporter, job string) (*table.Table, error) {
	if t == nil {
		return nil, table.ErrNilTable
	}
	if missing := missingColumns(t, d.Requires()); len(missing) > 0 {
		rep.Warnf("Warning: column(s) %s not found. The feature '%s' was not created.",
			quoteList(missing), d.Name())
		metrics.RecordFeature(job, d.Name(), "skipped")
		return t, nil
	}

	start := time.Now()
	out, err := d.Derive(t)
	metrics.RecordStep(job, "feature:"+d.Name(), err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("feature %s: %w", d.Name(), err)
	}
	metrics.RecordFeature(job, d.Name(), "created")
	return out, nil
}

// Chain is an ordered list of derivations.
type Chain []Derivation

// Apply runs every derivation in order, feeding each the previous output.
func (c Chain) Apply(t *table.Table, rep report.Reporter) (*table.Table, error) {
	return c.ApplyJob("", t, rep)
}

// ApplyJob is Apply with a job label for metrics.
func (c Chain) ApplyJob(job string, t *table.Table, rep report.Reporter) (*table.Table, error) {
	rep = report.OrNop(rep)
	out := t
	for _, d := range c {
		var err error
		out, err = apply(out, d, rep, job)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Names returns the output column names in order.
func (c Chain) Names() []string {
	out := make([]string, len(c))
	for i, d := range c {
		out[i] = d.Name()
	}
	return out
}

func missingColumns(t *table.Table, required []string) []string {
	var missing []string
	for _, name := range required {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

func quoteList(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = "'" + n + "'"
	}
	return strings.Join(q, ", ")
}
