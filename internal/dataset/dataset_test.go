package dataset

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/metrics"
	pcsv "github.com/Lucas-Ker/olist-data-analysis-project/internal/parser/csv"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/report"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rawDir = filepath.Join("..", "..", "testdata", "raw")

func enriched() *table.Table {
	d := func(s string) time.Time {
		v, err := time.Parse("2006-01-02 15:04:05", s)
		if err != nil {
			panic(err)
		}
		return v
	}
	return table.MustNew(
		table.NewStringColumn("order_id", []string{"a", "b", ""}, []bool{true, true, false}),
		table.NewTimeColumn("order_purchase_timestamp", []time.Time{
			d("2017-10-02 10:56:33"), d("2018-07-24 20:41:37"), {},
		}, []bool{true, true, false}),
		table.NewFloatColumn("price", []float64{29.99, 118.7, 0}, []bool{true, true, false}),
		table.NewIntColumn("order_item_id", []int64{1, 1, 2}),
		table.NewNullableIntColumn("shipping_time_days", []int64{8, 13, 0}, []bool{true, true, false}),
	)
}

func TestResolverPaths(t *testing.T) {
	t.Parallel()

	r := Resolver{RawDir: "data/raw", ProcessedDir: "data/processed"}
	assert.Equal(t, filepath.Join("data", "raw", "olist_orders_dataset.csv"), r.RawPath("olist_orders_dataset.csv"))
	assert.Equal(t, filepath.Join("data", "processed", "olist_enriched.parquet"), r.ProcessedPath("olist_enriched"))
	assert.Equal(t, filepath.Join("data", "processed", "x.parquet"), r.ProcessedPath("x.parquet"))
}

func TestLoadRaw(t *testing.T) {
	t.Parallel()

	var rec report.Recorder
	r := Resolver{RawDir: rawDir, Reporter: &rec}
	tb, err := r.LoadRaw(context.Background(), "olist_orders_dataset.csv", pcsv.Options{})
	require.NoError(t, err)

	assert.Equal(t, 8, tb.NumRows())
	assert.True(t, tb.Has("order_delivered_customer_date"))
	assert.Contains(t, rec.Lines()[0].Message, "Loading data from: ")

	_, err = r.LoadRaw(context.Background(), "missing.csv", pcsv.Options{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

// countingBackend sums counters by name and kind label.
type countingBackend struct {
	mu     sync.Mutex
	totals map[string]float64
}

func (b *countingBackend) IncCounter(name string, delta float64, labels metrics.Labels) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.totals == nil {
		b.totals = map[string]float64{}
	}
	b.totals[labels["job"]+"/"+name+"/"+labels["kind"]] += delta
}

func (b *countingBackend) ObserveHistogram(string, float64, metrics.Labels) {}
func (b *countingBackend) Flush() error                                     { return nil }

func (b *countingBackend) total(key string) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totals[key]
}

// Not parallel: installs a global metrics backend.
func TestLoadRaw_ReportsSkippedRowsAndBadNumbers(t *testing.T) {
	dir := t.TempDir()
	in := "order_id,price\na,1.5\nb,abc\nc\nd,2,extra\ne,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.csv"), []byte(in), 0o644))

	cb := &countingBackend{}
	metrics.SetBackend(cb)

	var rec report.Recorder
	r := Resolver{RawDir: dir, Reporter: &rec, Job: "load_counts"}
	tb, err := r.LoadRaw(context.Background(), "items.csv", pcsv.Options{Numeric: []string{"price"}})
	require.NoError(t, err)
	assert.Equal(t, 3, tb.NumRows())

	warnings := rec.Warnings()
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[len(warnings)-2], "items.csv: skipped 2 malformed row(s)")
	assert.Contains(t, warnings[len(warnings)-1], "items.csv: 1 numeric value(s) could not be parsed")

	assert.EqualValues(t, 3, cb.total("load_counts/"+metrics.RowsTotal+"/loaded"))
	assert.EqualValues(t, 2, cb.total("load_counts/"+metrics.RowsTotal+"/skipped"))
	assert.EqualValues(t, 1, cb.total("load_counts/"+metrics.ValuesTotal+"/bad_number"))
}

func TestLoadRawAll_PreservesOrder(t *testing.T) {
	t.Parallel()

	r := Resolver{RawDir: rawDir}
	tables, err := r.LoadRawAll(context.Background(),
		RawFile{File: "olist_order_items_dataset.csv", Options: pcsv.Options{Numeric: []string{"price"}}},
		RawFile{File: "olist_orders_dataset.csv"},
	)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.True(t, tables[0].Has("price"))
	assert.True(t, tables[1].Has("order_status"))
}

func TestLoadRawAll_FailsFast(t *testing.T) {
	t.Parallel()

	r := Resolver{RawDir: rawDir}
	_, err := r.LoadRawAll(context.Background(),
		RawFile{File: "olist_orders_dataset.csv"},
		RawFile{File: "olist_customers_dataset.csv"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "olist_customers_dataset.csv")
}

func TestParquetRoundTrip(t *testing.T) {
	t.Parallel()

	var rec report.Recorder
	r := Resolver{ProcessedDir: filepath.Join(t.TempDir(), "nested", "processed"), Reporter: &rec}
	in := enriched()

	path, err := r.SaveProcessed(context.Background(), in, "olist_enriched")
	require.NoError(t, err)
	assert.Equal(t, r.ProcessedPath("olist_enriched"), path)
	assert.FileExists(t, path)
	assert.Contains(t, rec.Lines()[0].Message, "Data saved to: ")

	out, err := r.LoadProcessed(context.Background(), "olist_enriched")
	require.NoError(t, err)

	assert.Equal(t, in.Names(), out.Names())
	for _, name := range in.Names() {
		a, _ := in.Column(name)
		b, _ := out.Column(name)
		assert.Equal(t, a.Kind(), b.Kind(), name)
		for i := 0; i < in.NumRows(); i++ {
			assert.Equal(t, a.Valid(i), b.Valid(i), "%s[%d] validity", name, i)
			if a.Valid(i) {
				av, _ := a.Format(i)
				bv, _ := b.Format(i)
				assert.Equal(t, av, bv, "%s[%d]", name, i)
			}
		}
	}
	assert.Equal(t, in.Fingerprint(), out.Fingerprint())
}

func TestSaveParquet_Schema(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, SaveParquet(&buf, enriched()))

	rdr, err := file.NewParquetReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer rdr.Close()
	assert.EqualValues(t, 3, rdr.NumRows())

	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, Pool)
	require.NoError(t, err)
	schema, err := fr.Schema()
	require.NoError(t, err)

	ts := schema.Field(1).Type.String()
	assert.Contains(t, ts, "timestamp[us")
	assert.Contains(t, ts, "UTC")
	assert.Equal(t, "float64", schema.Field(2).Type.String())
	assert.Equal(t, "int64", schema.Field(3).Type.String())
}

func TestSaveParquet_NilTable(t *testing.T) {
	t.Parallel()

	err := SaveParquet(&bytes.Buffer{}, nil)
	require.True(t, errors.Is(err, table.ErrNilTable))
}

func TestSaveProcessed_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Resolver{ProcessedDir: t.TempDir()}.SaveProcessed(ctx, enriched(), "x")
	require.ErrorIs(t, err, context.Canceled)
}
