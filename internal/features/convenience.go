package features

import (
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/report"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// AddOrderValue adds order_value (sum of price per order_id).
func AddOrderValue(t *table.Table, rep report.Reporter) (*table.Table, error) {
	return Apply(t, NewOrderValue(), rep)
}

// ComputeShippingTime adds shipping_time_days.
func ComputeShippingTime(t *table.Table, rep report.Reporter) (*table.Table, error) {
	return Apply(t, ShippingTime(), rep)
}

// ComputeDelayVsEstimate adds delay_vs_estimate_days.
func ComputeDelayVsEstimate(t *table.Table, rep report.Reporter) (*table.Table, error) {
	return Apply(t, DelayVsEstimate(), rep)
}

// ComputeTotalDeliveryTime adds total_delivery_time.
func ComputeTotalDeliveryTime(t *table.Table, rep report.Reporter) (*table.Table, error) {
	return Apply(t, TotalDelivery(), rep)
}

// ComputeDelayVsLimit adds delay_vs_limit_days.
func ComputeDelayVsLimit(t *table.Table, rep report.Reporter) (*table.Table, error) {
	return Apply(t, DelayVsLimit(), rep)
}
