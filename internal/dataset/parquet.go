package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/metrics"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// Pool is the allocator used for Arrow buffers.
var Pool = memory.NewGoAllocator()

// kindKey is the field metadata key recording the table kind, so nullable
// integer columns without any missing cell round-trip exactly.
const kindKey = "eda.kind"

var timestampType = &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}

// Schema maps a table onto an Arrow schema. Every field is nullable.
func Schema(t *table.Table) *arrow.Schema {
	cols := t.Columns()
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = arrow.Field{
			Name:     c.Name(),
			Type:     arrowType(c.Kind()),
			Nullable: true,
			Metadata: arrow.NewMetadata([]string{kindKey}, []string{c.Kind().String()}),
		}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(k table.Kind) arrow.DataType {
	switch k {
	case table.KindTime:
		return timestampType
	case table.KindInt, table.KindNullableInt:
		return arrow.PrimitiveTypes.Int64
	case table.KindFloat:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

// Record converts t into an Arrow record. Datetimes are stored as UTC
// microseconds. The caller releases the record.
func Record(t *table.Table) arrow.Record {
	schema := Schema(t)
	b := array.NewRecordBuilder(Pool, schema)
	defer b.Release()

	n := t.NumRows()
	for j, c := range t.Columns() {
		switch fb := b.Field(j).(type) {
		case *array.StringBuilder:
			fb.Reserve(n)
			for i := 0; i < n; i++ {
				if v, ok := c.Str(i); ok {
					fb.Append(v)
				} else {
					fb.AppendNull()
				}
			}
		case *array.TimestampBuilder:
			fb.Reserve(n)
			for i := 0; i < n; i++ {
				if v, ok := c.Time(i); ok {
					fb.Append(arrow.Timestamp(v.UnixMicro()))
				} else {
					fb.AppendNull()
				}
			}
		case *array.Int64Builder:
			fb.Reserve(n)
			for i := 0; i < n; i++ {
				if v, ok := c.Int(i); ok {
					fb.Append(v)
				} else {
					fb.AppendNull()
				}
			}
		case *array.Float64Builder:
			fb.Reserve(n)
			for i := 0; i < n; i++ {
				if v, ok := c.Float(i); ok {
					fb.Append(v)
				} else {
					fb.AppendNull()
				}
			}
		}
	}
	return b.NewRecord()
}

// SaveParquet writes t to w as a single-row-group Parquet file with Snappy
// compression. The Arrow schema is embedded so kinds and the UTC zone
// survive a round trip.
func SaveParquet(w io.Writer, t *table.Table) error {
	if t == nil {
		return table.ErrNilTable
	}
	rec := Record(t)
	defer rec.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithAllocator(Pool),
	)
	arrProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	fw, err := pqarrow.NewFileWriter(rec.Schema(), w, props, arrProps)
	if err != nil {
		return fmt.Errorf("parquet: writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("parquet: write: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("parquet: close: %w", err)
	}
	return nil
}

// SaveProcessed writes t to ProcessedPath(name), creating ProcessedDir when
// needed, and returns the path written.
func (r Resolver) SaveProcessed(ctx context.Context, t *table.Table, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := r.ProcessedPath(name)
	start := time.Now()
	err := saveFile(path, t)
	metrics.RecordStep(r.Job, "save", err, time.Since(start))
	if err != nil {
		return "", err
	}
	metrics.RecordRows(r.Job, "saved", int64(t.NumRows()))
	r.rep().Infof("Data saved to: %s", path)
	return path, nil
}

func saveFile(path string, t *table.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := SaveParquet(f, t); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// LoadParquet reads a Parquet file into a table. Columns carrying the kind
// written by SaveParquet get it back; others are inferred from the Arrow
// type, with int64 columns that contain nulls becoming nullable-int.
func LoadParquet(ctx context.Context, path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	at, err := pqarrow.ReadTable(ctx, f, parquet.NewReaderProperties(Pool), pqarrow.ArrowReadProperties{}, Pool)
	if err != nil {
		return nil, fmt.Errorf("parquet: read %s: %w", path, err)
	}
	defer at.Release()

	return FromArrow(at)
}

// LoadProcessed reads ProcessedPath(name).
func (r Resolver) LoadProcessed(ctx context.Context, name string) (*table.Table, error) {
	path := r.ProcessedPath(name)
	r.rep().Infof("Loading data from: %s", path)
	start := time.Now()
	t, err := LoadParquet(ctx, path)
	metrics.RecordStep(r.Job, "load_processed", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	metrics.RecordRows(r.Job, "loaded", int64(t.NumRows()))
	return t, nil
}

// FromArrow converts an Arrow table into a table.
func FromArrow(at arrow.Table) (*table.Table, error) {
	n := int(at.NumRows())
	schema := at.Schema()
	cols := make([]*table.Column, 0, int(at.NumCols()))
	for j := 0; j < int(at.NumCols()); j++ {
		field := schema.Field(j)
		c, err := fromChunks(field, at.Column(j).Data().Chunks(), n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return table.New(cols...)
}

func fromChunks(field arrow.Field, chunks []arrow.Array, n int) (*table.Column, error) {
	valid := make([]bool, 0, n)
	switch field.Type.ID() {
	case arrow.STRING:
		vals := make([]string, 0, n)
		for _, ch := range chunks {
			a := ch.(*array.String)
			for i := 0; i < a.Len(); i++ {
				vals = append(vals, a.Value(i))
				valid = append(valid, a.IsValid(i))
			}
		}
		return table.NewStringColumn(field.Name, vals, valid), nil

	case arrow.TIMESTAMP:
		unit := field.Type.(*arrow.TimestampType).Unit
		vals := make([]time.Time, 0, n)
		for _, ch := range chunks {
			a := ch.(*array.Timestamp)
			for i := 0; i < a.Len(); i++ {
				if a.IsValid(i) {
					vals = append(vals, a.Value(i).ToTime(unit))
				} else {
					vals = append(vals, time.Time{})
				}
				valid = append(valid, a.IsValid(i))
			}
		}
		return table.NewTimeColumn(field.Name, vals, valid), nil

	case arrow.INT64:
		vals := make([]int64, 0, n)
		nulls := 0
		for _, ch := range chunks {
			a := ch.(*array.Int64)
			nulls += a.NullN()
			for i := 0; i < a.Len(); i++ {
				vals = append(vals, a.Value(i))
				valid = append(valid, a.IsValid(i))
			}
		}
		if storedKind(field) == table.KindNullableInt.String() || nulls > 0 {
			return table.NewNullableIntColumn(field.Name, vals, valid), nil
		}
		return table.NewIntColumn(field.Name, vals), nil

	case arrow.FLOAT64:
		vals := make([]float64, 0, n)
		for _, ch := range chunks {
			a := ch.(*array.Float64)
			for i := 0; i < a.Len(); i++ {
				vals = append(vals, a.Value(i))
				valid = append(valid, a.IsValid(i))
			}
		}
		return table.NewFloatColumn(field.Name, vals, valid), nil
	}
	return nil, fmt.Errorf("parquet: column %s: unsupported arrow type %s", field.Name, field.Type)
}

func storedKind(f arrow.Field) string {
	if i := f.Metadata.FindKey(kindKey); i >= 0 {
		return f.Metadata.Values()[i]
	}
	return ""
}
