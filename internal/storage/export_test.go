package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

func exportFixture() *table.Table {
	ts := time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC)
	return table.MustNew(
		table.NewStringColumn("order_id", []string{"a", "b", "c"}, nil),
		table.NewTimeColumn("order_purchase_timestamp", []time.Time{ts, {}, ts}, []bool{true, false, true}),
		table.NewNullableIntColumn("shipping_time_days", []int64{3, 0, 8}, []bool{true, false, true}),
		table.NewFloatColumn("order_value", []float64{38.71, 141.46, 0}, []bool{true, true, false}),
	)
}

func TestExportTable_AllColumns(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	n, err := ExportTable(context.Background(), repo, exportFixture(), ExportOptions{BatchSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, 2, repo.calls)
	assert.Equal(t, []string{"order_id", "order_purchase_timestamp", "shipping_time_days", "order_value"}, repo.columns)
	require.Len(t, repo.rows, 3)
	assert.Equal(t, []any{"b", nil, nil, 141.46}, repo.rows[1])
	assert.Equal(t, int64(8), repo.rows[2][2])
	assert.Nil(t, repo.rows[2][3])
}

func TestExportTable_SelectedColumns(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	_, err := ExportTable(context.Background(), repo, exportFixture(), ExportOptions{Columns: []string{"order_value", "order_id"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"order_value", "order_id"}, repo.columns)
	assert.Equal(t, []any{38.71, "a"}, repo.rows[0])

	_, err = ExportTable(context.Background(), repo, exportFixture(), ExportOptions{Columns: []string{"nope"}})
	assert.Error(t, err)
}

func TestExportTable_CopyError(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{failOn: 2}
	n, err := ExportTable(context.Background(), repo, exportFixture(), ExportOptions{BatchSize: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export: copy failed")
	assert.EqualValues(t, 1, n)
}

func TestExportTable_NilInputs(t *testing.T) {
	t.Parallel()

	_, err := ExportTable(context.Background(), &fakeRepo{}, nil, ExportOptions{})
	assert.True(t, errors.Is(err, table.ErrNilTable))

	_, err = ExportTable(context.Background(), nil, exportFixture(), ExportOptions{})
	assert.Error(t, err)
}

func TestExportTable_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ExportTable(ctx, &fakeRepo{}, exportFixture(), ExportOptions{BatchSize: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
