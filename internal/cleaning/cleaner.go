// Package cleaning normalizes raw column types on the merged order table.
//
// Today that means one thing: every recognized timestamp column is converted
// from text to a typed datetime column. Values that cannot be parsed become
// missing cells; the step never fails on a per-value basis.
package cleaning

import (
	"strings"
	"time"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/metrics"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/report"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// Recognized timestamp columns, matched by exact name.
const (
	OrderPurchaseTimestamp     = "order_purchase_timestamp"
	OrderApprovedAt            = "order_approved_at"
	OrderDeliveredCarrierDate  = "order_delivered_carrier_date"
	OrderDeliveredCustomerDate = "order_delivered_customer_date"
	OrderEstimatedDeliveryDate = "order_estimated_delivery_date"
	ShippingLimitDate          = "shipping_limit_date"
	ReviewCreationDate         = "review_creation_date"
	ReviewAnswerTimestamp      = "review_answer_timestamp"
)

// TimestampColumns lists the recognized timestamp columns in processing order.
var TimestampColumns = []string{
	OrderPurchaseTimestamp,
	OrderApprovedAt,
	OrderDeliveredCarrierDate,
	OrderDeliveredCustomerDate,
	OrderEstimatedDeliveryDate,
	ShippingLimitDate,
	ReviewCreationDate,
	ReviewAnswerTimestamp,
}

type options struct {
	rep     report.Reporter
	parser  *Parser
	layouts []string
	loc     *time.Location
	job     string
}

// Option configures Clean.
type Option func(*options)

// WithReporter sets the progress sink.
func WithReporter(r report.Reporter) Option {
	return func(o *options) { o.rep = report.OrNop(r) }
}

// WithParser replaces the default timestamp parser. It takes precedence
// over WithLayouts and WithLocation.
func WithParser(p Parser) Option {
	return func(o *options) { o.parser = &p }
}

// WithLayouts adds layouts tried after DefaultLayouts.
func WithLayouts(layouts ...string) Option {
	return func(o *options) { o.layouts = append(o.layouts, layouts...) }
}

// WithLocation sets the zone for layouts that carry no offset.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// WithJob sets the job label used for metrics.
func WithJob(job string) Option {
	return func(o *options) { o.job = job }
}

// Clean returns a copy of t in which every recognized timestamp column that
// is present holds datetimes. Absent recognized columns are skipped and all
// other columns pass through unchanged. Columns that already hold datetimes
// are left as they are, so Clean is idempotent.
//
// Errors are structural only, e.g. table.ErrNilTable.
func Clean(t *table.Table, opts ...Option) (*table.Table, error) {
	o := options{rep: report.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	p := defaultParser
	switch {
	case o.parser != nil:
		p = *o.parser
	case o.loc != nil || len(o.layouts) > 0:
		p = NewParser(o.loc, o.layouts...)
	}
	if t == nil {
		return nil, table.ErrNilTable
	}

	start := time.Now()
	o.rep.Infof("--- Data Cleaning Step ---")
	o.rep.Infof("Converting timestamp columns to datetime objects...")

	out := t.Clone()
	var coerced int64
	for _, name := range TimestampColumns {
		col, err := out.Column(name)
		if err != nil {
			continue
		}
		if col.Kind() == table.KindTime {
			o.rep.Infof("  - Column '%s' already datetime.", name)
			continue
		}
		conv, lost := ToTime(col, p)
		out, err = out.WithColumn(conv)
		if err != nil {
			metrics.RecordStep(o.job, "clean", err, time.Since(start))
			return nil, err
		}
		coerced += int64(lost)
		if lost > 0 {
			o.rep.Infof("  - Column '%s' converted (%d unparsable values set to missing).", name, lost)
		} else {
			o.rep.Infof("  - Column '%s' converted.", name)
		}
	}

	o.rep.Infof("Data cleaning complete.")
	metrics.RecordValues(o.job, "coerced_missing", coerced)
	metrics.RecordStep(o.job, "clean", nil, time.Since(start))
	return out, nil
}

// ToTime converts col into a datetime column with the same name. It also
// returns how many present cells could not be parsed and were turned into
// missing cells.
//
//   - datetime columns are returned unchanged;
//   - string cells are parsed with p;
//   - numeric columns hold no timestamp text, so every present cell becomes
//     missing.
func ToTime(col *table.Column, p Parser) (*table.Column, int) {
	if col.Kind() == table.KindTime {
		return col, 0
	}
	n := col.Len()
	vals := make([]time.Time, n)
	valid := make([]bool, n)
	lost := 0
	for i := 0; i < n; i++ {
		if !col.Valid(i) {
			continue
		}
		s, ok := col.Str(i)
		if !ok {
			lost++
			continue
		}
		t, ok := p.Parse(s)
		if !ok {
			if strings.TrimSpace(s) != "" {
				lost++
			}
			continue
		}
		vals[i] = t
		valid[i] = true
	}
	return table.NewTimeColumn(col.Name(), vals, valid), lost
}
