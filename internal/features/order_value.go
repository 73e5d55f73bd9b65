package features

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// OrderValue sums the item prices of each order and writes the total on
// every row of that order. Sums are exact decimals, converted to float64
// only when the column is built.
type OrderValue struct {
	Output  string
	OrderID string
	Price   string
}

// NewOrderValue uses the standard column names.
func NewOrderValue() OrderValue {
	return OrderValue{Output: OrderValueColumn, OrderID: OrderIDColumn, Price: PriceColumn}
}

// Name is the output column.
func (o OrderValue) Name() string { return o.Output }

// Requires returns the order id and price columns.
func (o OrderValue) Requires() []string { return []string{o.OrderID, o.Price} }

// Derive builds the broadcast sum. A missing or unparsable price adds 0 to
// its order; a row without an order id gets a missing value.
func (o OrderValue) Derive(t *table.Table) (*table.Table, error) {
	ids, err := t.Column(o.OrderID)
	if err != nil {
		return nil, err
	}
	prices, err := t.Column(o.Price)
	if err != nil {
		return nil, err
	}

	n := t.NumRows()
	keys := make([]string, n)
	hasKey := make([]bool, n)
	sums := make(map[string]decimal.Decimal)
	for i := 0; i < n; i++ {
		k, ok := ids.Format(i)
		if !ok {
			continue
		}
		keys[i], hasKey[i] = k, true
		sums[k] = sums[k].Add(price(prices, i))
	}

	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		if hasKey[i] {
			vals[i] = sums[keys[i]].InexactFloat64()
		}
	}
	return t.WithColumn(table.NewFloatColumn(o.Output, vals, hasKey))
}

func price(c *table.Column, i int) decimal.Decimal {
	if !c.Valid(i) {
		return decimal.Zero
	}
	if c.Kind() == table.KindString {
		s, _ := c.Str(i)
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	if c.Kind() == table.KindInt || c.Kind() == table.KindNullableInt {
		v, _ := c.Int(i)
		return decimal.NewFromInt(v)
	}
	v, ok := c.Float(i)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
