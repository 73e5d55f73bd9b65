package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/ddl"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/storage"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

func newFileRepo(tb testing.TB, tableName string) *Repository {
	tb.Helper()
	dsn := filepath.Join(tb.TempDir(), "olist.db")
	r, closeFn, err := NewRepository(context.Background(), Config{DSN: dsn, Table: tableName})
	require.NoError(tb, err)
	tb.Cleanup(closeFn)
	return r
}

func processedFixture() *table.Table {
	ts := time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC)
	return table.MustNew(
		table.NewStringColumn("order id", []string{"e481f51c", "53cdb2fc"}, nil),
		table.NewTimeColumn("order_purchase_timestamp", []time.Time{ts, {}}, []bool{true, false}),
		table.NewNullableIntColumn("shipping_time_days", []int64{8, 0}, []bool{true, false}),
		table.NewFloatColumn("order_value", []float64{29.99, 118.70}, nil),
	)
}

func TestDialect_CreateTable(t *testing.T) {
	t.Parallel()

	got, err := ddl.BuildCreateTableSQL(ddl.FromTable("main.orders", processedFixture(), Dialect), Dialect)
	require.NoError(t, err)
	want := "CREATE TABLE IF NOT EXISTS \"main\".\"orders\" (\n" +
		"  \"order id\" TEXT,\n" +
		"  \"order_purchase_timestamp\" TEXT,\n" +
		"  \"shipping_time_days\" INTEGER,\n" +
		"  \"order_value\" REAL\n);"
	assert.Equal(t, want, got)
}

func TestExportRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newFileRepo(t, "orders_processed")
	tb := processedFixture()

	require.NoError(t, storage.EnsureTable(ctx, "sqlite", &wrappedRepo{Repository: r}, "orders_processed", tb))
	// Bootstrapping twice is a no-op.
	require.NoError(t, storage.EnsureTable(ctx, "sqlite", &wrappedRepo{Repository: r}, "orders_processed", tb))

	n, err := storage.ExportTable(ctx, &wrappedRepo{Repository: r}, tb, storage.ExportOptions{BatchSize: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	rows, err := r.db.QueryContext(ctx, `SELECT "order id", order_purchase_timestamp, shipping_time_days, order_value FROM orders_processed ORDER BY "order id"`)
	require.NoError(t, err)
	defer rows.Close()

	type rec struct {
		id    string
		ts    *string
		days  *int64
		value float64
	}
	var got []rec
	for rows.Next() {
		var x rec
		require.NoError(t, rows.Scan(&x.id, &x.ts, &x.days, &x.value))
		got = append(got, x)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 2)

	assert.Equal(t, "53cdb2fc", got[0].id)
	assert.Nil(t, got[0].ts)
	assert.Nil(t, got[0].days)
	assert.InDelta(t, 118.70, got[0].value, 1e-9)

	require.NotNil(t, got[1].ts)
	assert.Equal(t, "2017-10-02T10:56:33Z", *got[1].ts)
	require.NotNil(t, got[1].days)
	assert.EqualValues(t, 8, *got[1].days)
}

func TestCopyFrom_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newFileRepo(t, "t")
	require.NoError(t, r.Exec(ctx, `CREATE TABLE t (a TEXT, b INTEGER)`))

	_, err := r.CopyFrom(ctx, nil, [][]any{{1}})
	assert.ErrorContains(t, err, "columns must not be empty")

	_, err = r.CopyFrom(ctx, []string{"a", "b"}, [][]any{{"x"}})
	assert.ErrorContains(t, err, "row length 1 != columns length 2")

	_, err = r.CopyFrom(ctx, []string{"a", "missing"}, [][]any{{"x", 1}})
	assert.ErrorContains(t, err, "sqlite: prepare insert")

	n, err := r.CopyFrom(ctx, []string{"a"}, nil)
	assert.NoError(t, err)
	assert.Zero(t, n)

	// A failed batch rolls back entirely.
	var count int
	require.NoError(t, r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM t").Scan(&count))
	assert.Zero(t, count)
}

func TestExec_BlankIsNoop(t *testing.T) {
	t.Parallel()

	r := newFileRepo(t, "t")
	assert.NoError(t, r.Exec(context.Background(), "  "))
	err := r.Exec(context.Background(), "NOT SQL")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "sqlite: exec:"))
}
