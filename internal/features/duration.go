package features

import (
	"time"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/cleaning"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// Output column names.
const (
	ShippingTimeDays    = "shipping_time_days"
	DelayVsEstimateDays = "delay_vs_estimate_days"
	TotalDeliveryTime   = "total_delivery_time"
	DelayVsLimitDays    = "delay_vs_limit_days"
	OrderValueColumn    = "order_value"

	// LegacyShippingDelay is the old name of the estimate delay feature.
	LegacyShippingDelay = "shipping_delay_days"
)

// Input columns used outside the timestamp set.
const (
	OrderIDColumn = "order_id"
	PriceColumn   = "price"
)

const secondsPerDay = 24 * 60 * 60

// DayDiff computes (To − From) in whole days into a nullable-int column.
// Time-of-day remainders are floored, so 3 days 16 hours is 3 and −1 hour
// is −1. With ClipNegative set, negative results become 0.
type DayDiff struct {
	Output       string
	From         string
	To           string
	ClipNegative bool

	// Parser re-reads inputs that still hold text. Nil means the default
	// layouts in UTC.
	Parser *cleaning.Parser
}

// Name is the output column.
func (d DayDiff) Name() string { return d.Output }

// Requires returns From and To.
func (d DayDiff) Requires() []string { return []string{d.From, d.To} }

// Derive subtracts the columns row by row. Inputs still holding text are
// re-parsed; a missing or unparsable cell on either side yields a missing
// result.
func (d DayDiff) Derive(t *table.Table) (*table.Table, error) {
	p := cleaning.NewParser(nil)
	if d.Parser != nil {
		p = *d.Parser
	}
	from, err := timeColumn(t, d.From, p)
	if err != nil {
		return nil, err
	}
	to, err := timeColumn(t, d.To, p)
	if err != nil {
		return nil, err
	}

	n := t.NumRows()
	vals := make([]int64, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		a, ok1 := from.Time(i)
		b, ok2 := to.Time(i)
		if !ok1 || !ok2 {
			continue
		}
		days := DaysBetween(a, b)
		if d.ClipNegative && days < 0 {
			days = 0
		}
		vals[i] = days
		valid[i] = true
	}
	return t.WithColumn(table.NewNullableIntColumn(d.Output, vals, valid))
}

// DaysBetween floors b − a to whole days. It counts Unix seconds rather than
// a time.Duration, which saturates at about 292 years.
func DaysBetween(a, b time.Time) int64 {
	secs := b.Unix() - a.Unix()
	if b.Nanosecond() < a.Nanosecond() {
		secs--
	}
	days := secs / secondsPerDay
	if secs%secondsPerDay < 0 {
		days--
	}
	return days
}

// WithParser returns a copy of c whose day differences re-read text inputs
// with p, so they agree with a Cleaner configured the same way.
func (c Chain) WithParser(p cleaning.Parser) Chain {
	out := make(Chain, len(c))
	for i, d := range c {
		if dd, ok := d.(DayDiff); ok {
			dd.Parser = &p
			d = dd
		}
		out[i] = d
	}
	return out
}

func timeColumn(t *table.Table, name string, p cleaning.Parser) (*table.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	conv, _ := cleaning.ToTime(c, p)
	return conv, nil
}

// ShippingTime is purchase → customer delivery in whole days.
func ShippingTime() DayDiff {
	return DayDiff{
		Output: ShippingTimeDays,
		From:   cleaning.OrderPurchaseTimestamp,
		To:     cleaning.OrderDeliveredCustomerDate,
	}
}

// DelayVsEstimate is how many whole days the delivery came after the
// estimated date; early or on-time deliveries are 0.
func DelayVsEstimate() DayDiff {
	return DayDiff{
		Output:       DelayVsEstimateDays,
		From:         cleaning.OrderEstimatedDeliveryDate,
		To:           cleaning.OrderDeliveredCustomerDate,
		ClipNegative: true,
	}
}

// TotalDelivery has the same formula as ShippingTime under its own name.
func TotalDelivery() DayDiff {
	return DayDiff{
		Output: TotalDeliveryTime,
		From:   cleaning.OrderPurchaseTimestamp,
		To:     cleaning.OrderDeliveredCustomerDate,
	}
}

// DelayVsLimit is how many whole days the delivery came after the seller's
// shipping limit date; anything earlier is 0.
func DelayVsLimit() DayDiff {
	return DayDiff{
		Output:       DelayVsLimitDays,
		From:         cleaning.ShippingLimitDate,
		To:           cleaning.OrderDeliveredCustomerDate,
		ClipNegative: true,
	}
}
