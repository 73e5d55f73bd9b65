package features

import (
	"fmt"
	"sort"
)

var registry = map[string]func() Derivation{
	OrderValueColumn:    func() Derivation { return NewOrderValue() },
	ShippingTimeDays:    func() Derivation { return ShippingTime() },
	DelayVsEstimateDays: func() Derivation { return DelayVsEstimate() },
	TotalDeliveryTime:   func() Derivation { return TotalDelivery() },
	DelayVsLimitDays:    func() Derivation { return DelayVsLimit() },
}

// aliases map legacy kinds to registered ones.
var aliases = map[string]string{
	LegacyShippingDelay: DelayVsEstimateDays,
}

// Lookup returns the derivation registered under kind, resolving legacy
// aliases.
func Lookup(kind string) (Derivation, bool) {
	if canon, ok := aliases[kind]; ok {
		kind = canon
	}
	fn, ok := registry[kind]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// Kinds lists the registered kinds, sorted. Aliases are not included.
func Kinds() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsKind reports whether kind (or an alias of it) is registered.
func IsKind(kind string) bool {
	_, ok := Lookup(kind)
	return ok
}

// Build resolves kind and applies options. Recognized options:
//
//	output    rename the output column (all kinds)
//	order_id  order key column (order_value)
//	price     price column (order_value)
//
// An alias keeps its legacy output name unless output is set.
func Build(kind string, opts map[string]any) (Derivation, error) {
	d, ok := Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("features: unknown kind %q", kind)
	}
	output := str(opts, "output", "")
	if output == "" && aliases[kind] != "" {
		output = kind
	}

	switch v := d.(type) {
	case DayDiff:
		if output != "" {
			v.Output = output
		}
		return v, nil
	case OrderValue:
		if output != "" {
			v.Output = output
		}
		v.OrderID = str(opts, "order_id", v.OrderID)
		v.Price = str(opts, "price", v.Price)
		return v, nil
	}
	return d, nil
}

// FromKinds builds a Chain from plain kinds with no options.
func FromKinds(kinds ...string) (Chain, error) {
	c := make(Chain, 0, len(kinds))
	for _, k := range kinds {
		d, err := Build(k, nil)
		if err != nil {
			return nil, err
		}
		c = append(c, d)
	}
	return c, nil
}

func str(opts map[string]any, key, def string) string {
	if v, ok := opts[key].(string); ok && v != "" {
		return v
	}
	return def
}
