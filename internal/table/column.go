package table

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the physical type held by a Column.
type Kind uint8

const (
	KindString Kind = iota
	KindTime
	KindInt
	KindNullableInt
	KindFloat
)

// String returns the lowercase kind name used in logs and DDL mapping.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindTime:
		return "datetime"
	case KindInt:
		return "int"
	case KindNullableInt:
		return "nullable-int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Numeric reports whether values of this kind can be read with Column.Float.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindNullableInt || k == KindFloat
}

// Column is a named, typed, immutable vector of cells. Each cell is either a
// value of the column's kind or missing. KindInt columns never hold missing
// cells.
//
// Constructors take ownership of the slices passed in; callers must not
// modify them afterwards.
type Column struct {
	name   string
	kind   Kind
	n      int
	strs   []string
	times  []time.Time
	ints   []int64
	floats []float64
	valid  []bool // nil: every cell is present
}

// NewStringColumn builds a string column. A nil valid slice marks every cell
// present.
func NewStringColumn(name string, vals []string, valid []bool) *Column {
	return &Column{name: name, kind: KindString, n: len(vals), strs: vals, valid: normValid(valid, len(vals))}
}

// NewTimeColumn builds a datetime column.
func NewTimeColumn(name string, vals []time.Time, valid []bool) *Column {
	return &Column{name: name, kind: KindTime, n: len(vals), times: vals, valid: normValid(valid, len(vals))}
}

// NewIntColumn builds a non-nullable integer column.
func NewIntColumn(name string, vals []int64) *Column {
	return &Column{name: name, kind: KindInt, n: len(vals), ints: vals}
}

// NewNullableIntColumn builds an integer column that may hold missing cells.
func NewNullableIntColumn(name string, vals []int64, valid []bool) *Column {
	return &Column{name: name, kind: KindNullableInt, n: len(vals), ints: vals, valid: normValid(valid, len(vals))}
}

// NewFloatColumn builds a float column.
func NewFloatColumn(name string, vals []float64, valid []bool) *Column {
	return &Column{name: name, kind: KindFloat, n: len(vals), floats: vals, valid: normValid(valid, len(vals))}
}

// normValid drops a validity slice that marks everything present, and pads a
// short one with false so lookups never go out of range.
func normValid(valid []bool, n int) []bool {
	if valid == nil {
		return nil
	}
	all := len(valid) >= n
	for i := 0; i < n && i < len(valid); i++ {
		if !valid[i] {
			all = false
			break
		}
	}
	if all {
		return nil
	}
	if len(valid) < n {
		padded := make([]bool, n)
		copy(padded, valid)
		return padded
	}
	return valid[:n]
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }
func (c *Column) Len() int     { return c.n }

// Valid reports whether cell i holds a value.
func (c *Column) Valid(i int) bool {
	if c.valid == nil {
		return true
	}
	return c.valid[i]
}

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	if c.valid == nil {
		return 0
	}
	n := 0
	for _, ok := range c.valid {
		if !ok {
			n++
		}
	}
	return n
}

// Str returns the string at i. ok is false for missing cells and for
// non-string columns.
func (c *Column) Str(i int) (string, bool) {
	if c.kind != KindString || !c.Valid(i) {
		return "", false
	}
	return c.strs[i], true
}

// Time returns the datetime at i.
func (c *Column) Time(i int) (time.Time, bool) {
	if c.kind != KindTime || !c.Valid(i) {
		return time.Time{}, false
	}
	return c.times[i], true
}

// Int returns the integer at i for int and nullable-int columns.
func (c *Column) Int(i int) (int64, bool) {
	if (c.kind != KindInt && c.kind != KindNullableInt) || !c.Valid(i) {
		return 0, false
	}
	return c.ints[i], true
}

// Float returns the numeric value at i for any numeric column.
func (c *Column) Float(i int) (float64, bool) {
	if !c.Valid(i) {
		return 0, false
	}
	switch c.kind {
	case KindFloat:
		return c.floats[i], true
	case KindInt, KindNullableInt:
		return float64(c.ints[i]), true
	default:
		return 0, false
	}
}

// Value returns cell i as a Go value (string, time.Time, int64, float64), or
// nil when the cell is missing.
func (c *Column) Value(i int) any {
	if !c.Valid(i) {
		return nil
	}
	switch c.kind {
	case KindString:
		return c.strs[i]
	case KindTime:
		return c.times[i]
	case KindInt, KindNullableInt:
		return c.ints[i]
	case KindFloat:
		return c.floats[i]
	}
	return nil
}

// Format renders cell i as text. Datetimes use RFC 3339 with nanoseconds.
func (c *Column) Format(i int) (string, bool) {
	if !c.Valid(i) {
		return "", false
	}
	switch c.kind {
	case KindString:
		return c.strs[i], true
	case KindTime:
		return c.times[i].Format(time.RFC3339Nano), true
	case KindInt, KindNullableInt:
		return strconv.FormatInt(c.ints[i], 10), true
	case KindFloat:
		return strconv.FormatFloat(c.floats[i], 'g', -1, 64), true
	}
	return "", false
}

// Rename returns a column sharing c's data under a new name.
func (c *Column) Rename(name string) *Column {
	cp := *c
	cp.name = name
	return &cp
}

// take gathers cells by index; an index of -1 yields a missing cell. An int
// column that gains missing cells is widened to nullable-int.
func (c *Column) take(idx []int) *Column {
	n := len(idx)
	var valid []bool
	anyMissing := false
	for _, j := range idx {
		if j < 0 || !c.Valid(j) {
			anyMissing = true
			break
		}
	}
	if anyMissing {
		valid = make([]bool, n)
		for i, j := range idx {
			valid[i] = j >= 0 && c.Valid(j)
		}
	}

	switch c.kind {
	case KindString:
		out := make([]string, n)
		for i, j := range idx {
			if j >= 0 {
				out[i] = c.strs[j]
			}
		}
		return NewStringColumn(c.name, out, valid)
	case KindTime:
		out := make([]time.Time, n)
		for i, j := range idx {
			if j >= 0 {
				out[i] = c.times[j]
			}
		}
		return NewTimeColumn(c.name, out, valid)
	case KindInt, KindNullableInt:
		out := make([]int64, n)
		for i, j := range idx {
			if j >= 0 {
				out[i] = c.ints[j]
			}
		}
		if c.kind == KindInt && valid == nil {
			return NewIntColumn(c.name, out)
		}
		return NewNullableIntColumn(c.name, out, valid)
	default:
		out := make([]float64, n)
		for i, j := range idx {
			if j >= 0 {
				out[i] = c.floats[j]
			}
		}
		return NewFloatColumn(c.name, out, valid)
	}
}
