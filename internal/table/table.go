// Package table implements the in-memory, column-oriented table that flows
// through the cleaning and feature-derivation steps.
//
// A Table is a value: every operation that changes the set of columns returns
// a new *Table and leaves the receiver untouched. Columns are immutable once
// built, so tables may share them freely and may be read from several
// goroutines at once.
package table

import (
	"errors"
	"fmt"
)

// Structural errors. These are the only failures the core surfaces to callers;
// value-level and column-level problems degrade to missing cells or skipped
// features instead.
var (
	ErrNilTable        = errors.New("table: nil table")
	ErrLengthMismatch  = errors.New("table: column length mismatch")
	ErrDuplicateColumn = errors.New("table: duplicate column name")
	ErrNoSuchColumn    = errors.New("table: no such column")
	ErrKindMismatch    = errors.New("table: unexpected column kind")
)

// Table is an ordered set of uniquely named columns of equal length.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New builds a table from the given columns, in order.
func New(cols ...*Column) (*Table, error) {
	t := &Table{
		cols:  make([]*Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("table: column %d is nil", i)
		}
		if _, dup := t.index[c.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.name)
		}
		if i == 0 {
			t.rows = c.n
		} else if c.n != t.rows {
			return nil, fmt.Errorf("%w: %q has %d rows, want %d", ErrLengthMismatch, c.name, c.n, t.rows)
		}
		t.index[c.name] = len(t.cols)
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// MustNew is like New but panics on error. Intended for tests and fixtures.
func MustNew(cols ...*Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) NumRows() int { return t.rows }
func (t *Table) NumCols() int { return len(t.cols) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.name
	}
	return out
}

// Has reports whether a column with the given name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchColumn, name)
	}
	return t.cols[i], nil
}

// Columns returns the columns in order. The slice is a copy.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.cols...)
}

// Clone returns a table sharing t's columns.
func (t *Table) Clone() *Table {
	cp := &Table{
		cols:  append([]*Column(nil), t.cols...),
		index: make(map[string]int, len(t.index)),
		rows:  t.rows,
	}
	for k, v := range t.index {
		cp.index[k] = v
	}
	return cp
}

// WithColumn returns a new table with c appended, or with the same-named
// column replaced at its current position.
func (t *Table) WithColumn(c *Column) (*Table, error) {
	if c == nil {
		return nil, errors.New("table: nil column")
	}
	if len(t.cols) > 0 && c.n != t.rows {
		return nil, fmt.Errorf("%w: %q has %d rows, want %d", ErrLengthMismatch, c.name, c.n, t.rows)
	}
	out := t.Clone()
	if len(out.cols) == 0 {
		out.rows = c.n
	}
	if i, ok := out.index[c.name]; ok {
		out.cols[i] = c
		return out, nil
	}
	out.index[c.name] = len(out.cols)
	out.cols = append(out.cols, c)
	return out, nil
}

// Select returns a table with only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		out.rows = t.rows
	}
	return out, nil
}

// Drop returns a table without the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) *Table {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}
	keep := make([]*Column, 0, len(t.cols))
	for _, c := range t.cols {
		if _, ok := skip[c.name]; !ok {
			keep = append(keep, c)
		}
	}
	out := MustNew(keep...)
	out.rows = t.rows
	return out
}

// Row returns row i as a slice of Go values aligned with Names (missing
// cells are nil).
func (t *Table) Row(i int) []any {
	out := make([]any, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.Value(i)
	}
	return out
}
