package table

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Table {
	return MustNew(
		NewStringColumn("order_id", []string{"a", "b", "c"}, nil),
		NewFloatColumn("price", []float64{10, 0, 2.5}, []bool{true, false, true}),
	)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New(
		NewStringColumn("x", []string{"a"}, nil),
		NewStringColumn("x", []string{"b"}, nil),
	)
	require.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = New(
		NewStringColumn("x", []string{"a"}, nil),
		NewIntColumn("y", []int64{1, 2}),
	)
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = New(nil)
	require.Error(t, err)
}

func TestColumnAccessors(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	c := NewTimeColumn("t", []time.Time{ts, {}}, []bool{true, false})

	got, ok := c.Time(0)
	require.True(t, ok)
	assert.Equal(t, ts, got)

	_, ok = c.Time(1)
	assert.False(t, ok, "missing cell must report ok=false")
	assert.Nil(t, c.Value(1))
	assert.Equal(t, 1, c.NullCount())

	_, ok = c.Str(0)
	assert.False(t, ok, "kind mismatch must report ok=false")

	n := NewNullableIntColumn("n", []int64{3, 0}, []bool{true, false})
	f, ok := n.Float(0)
	require.True(t, ok)
	assert.Equal(t, 3.0, f)
	assert.True(t, n.Kind().Numeric())
	assert.False(t, KindString.Numeric())
}

func TestNormValid_AllTrueCollapses(t *testing.T) {
	t.Parallel()

	c := NewFloatColumn("f", []float64{1, 2}, []bool{true, true})
	assert.Nil(t, c.valid)
	assert.Equal(t, 0, c.NullCount())
}

func TestWithColumn_DoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	base := sample()
	out, err := base.WithColumn(NewIntColumn("qty", []int64{1, 2, 3}))
	require.NoError(t, err)

	assert.Equal(t, 2, base.NumCols())
	assert.False(t, base.Has("qty"))
	assert.Equal(t, []string{"order_id", "price", "qty"}, out.Names())
}

func TestWithColumn_ReplacesInPlace(t *testing.T) {
	t.Parallel()

	base := sample()
	out, err := base.WithColumn(NewStringColumn("order_id", []string{"x", "y", "z"}, nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"order_id", "price"}, out.Names())
	c, err := out.Column("order_id")
	require.NoError(t, err)
	v, _ := c.Str(0)
	assert.Equal(t, "x", v)

	orig, _ := base.Column("order_id")
	v, _ = orig.Str(0)
	assert.Equal(t, "a", v)
}

func TestWithColumn_LengthMismatch(t *testing.T) {
	t.Parallel()

	_, err := sample().WithColumn(NewIntColumn("qty", []int64{1}))
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestSelectDrop(t *testing.T) {
	t.Parallel()

	tbl := sample()
	sel, err := tbl.Select("price")
	require.NoError(t, err)
	assert.Equal(t, []string{"price"}, sel.Names())
	assert.Equal(t, 3, sel.NumRows())

	_, err = tbl.Select("nope")
	require.True(t, errors.Is(err, ErrNoSuchColumn))

	dropped := tbl.Drop("price", "unknown")
	assert.Equal(t, []string{"order_id"}, dropped.Names())

	empty := tbl.Drop("price", "order_id")
	assert.Equal(t, 0, empty.NumCols())
	assert.Equal(t, 3, empty.NumRows())
}

func TestRow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []any{"b", nil}, sample().Row(1))
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := sample()
	b := sample()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	c, err := a.WithColumn(NewFloatColumn("price", []float64{10, 0, 2.5}, nil))
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint(), "validity must be part of the hash")

	d, err := a.WithColumn(NewStringColumn("order_id", []string{"a", "b", "d"}, nil))
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
}

func TestFingerprint_NameBoundariesAndMissingCells(t *testing.T) {
	t.Parallel()

	// Without a length prefix both hash as "a", 0x00, 0x00.
	oneMissing := MustNew(NewStringColumn("a", []string{""}, []bool{false}))
	empty := MustNew(NewStringColumn("a\x00", nil, nil))
	assert.NotEqual(t, oneMissing.Fingerprint(), empty.Fingerprint())

	split := MustNew(
		NewStringColumn("a", nil, nil),
		NewStringColumn("b", nil, nil),
	)
	joined := MustNew(NewStringColumn("a\x00b", nil, nil))
	assert.NotEqual(t, split.Fingerprint(), joined.Fingerprint())
}
