package table

import "fmt"

// RightSuffix is appended to right-hand column names that collide with a
// left-hand column during LeftJoin.
const RightSuffix = "_right"

// LeftJoin merges right into t on the key column, keeping every row of t.
//
// Keys are compared by their text form, so a string key on one side matches
// an integer key on the other. A left row with several matches is repeated
// once per match, in right-table order. Left rows without a match (or with a
// missing key) get missing cells for every right column. Rows of right with a
// missing key never match.
func (t *Table) LeftJoin(right *Table, key string) (*Table, error) {
	if t == nil || right == nil {
		return nil, ErrNilTable
	}
	lk, err := t.Column(key)
	if err != nil {
		return nil, fmt.Errorf("left join: left: %w", err)
	}
	rk, err := right.Column(key)
	if err != nil {
		return nil, fmt.Errorf("left join: right: %w", err)
	}

	matches := make(map[string][]int, rk.Len())
	for i := 0; i < rk.Len(); i++ {
		k, ok := rk.Format(i)
		if !ok {
			continue
		}
		matches[k] = append(matches[k], i)
	}

	leftIdx := make([]int, 0, t.rows)
	rightIdx := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		k, ok := lk.Format(i)
		if !ok {
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, -1)
			continue
		}
		m := matches[k]
		if len(m) == 0 {
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, -1)
			continue
		}
		for _, j := range m {
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, j)
		}
	}

	cols := make([]*Column, 0, len(t.cols)+len(right.cols)-1)
	for _, c := range t.cols {
		cols = append(cols, c.take(leftIdx))
	}
	for _, c := range right.cols {
		if c.name == key {
			continue
		}
		rc := c.take(rightIdx)
		if t.Has(rc.name) {
			rc = rc.Rename(rc.name + RightSuffix)
		}
		cols = append(cols, rc)
	}
	out, err := New(cols...)
	if err != nil {
		return nil, fmt.Errorf("left join: %w", err)
	}
	return out, nil
}
