// Package probe samples the head of a raw CSV export and infers a type per
// column. The result can be turned into a draft source entry for an analysis
// file, including any timestamp layouts the cleaner does not already know.
package probe

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/cleaning"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/datasource"
	pcsv "github.com/Lucas-Ker/olist-data-analysis-project/internal/parser/csv"
)

// Options control the sampling.
type Options struct {
	// MaxBytes to sample from the start of the file. Default 1 MiB.
	MaxBytes int
	// MaxRows caps the sampled data rows. Default 10000.
	MaxRows int
	// Delimiter (single rune). Default ','.
	Delimiter rune
}

// Inferred types, narrowest first.
const (
	TypeInteger   = "integer"
	TypeBoolean   = "boolean"
	TypeReal      = "real"
	TypeTimestamp = "timestamp"
	TypeDate      = "date"
	TypeText      = "text"
)

// Column is the inference for one header.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
	// Layout is set for timestamp and date columns the cleaner cannot parse
	// with its built-in layouts.
	Layout string `json:"layout,omitempty"`
	// Empty counts blank cells in the sample.
	Empty int `json:"empty"`
	// Recognized reports whether the cleaner converts this column.
	Recognized bool `json:"recognized,omitempty"`
}

// Result is the outcome of a probe.
type Result struct {
	Source  string   `json:"source"`
	Rows    int      `json:"rows"`
	Columns []Column `json:"columns"`
}

// Probe samples src and infers column types. Malformed or misaligned rows in
// the sample are skipped.
func Probe(ctx context.Context, src datasource.Source, opt Options) (Result, error) {
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = 1 << 20
	}
	if opt.MaxRows <= 0 {
		opt.MaxRows = 10000
	}
	if opt.Delimiter == 0 {
		opt.Delimiter = ','
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return Result{}, err
	}
	defer rc.Close()

	sample, err := io.ReadAll(io.LimitReader(rc, int64(opt.MaxBytes)))
	if err != nil {
		return Result{}, fmt.Errorf("probe %s: read: %w", src, err)
	}
	// A truncated sample ends mid-line; drop the partial record.
	if len(sample) == opt.MaxBytes {
		if i := bytes.LastIndexByte(sample, '\n'); i > 0 {
			sample = sample[:i+1]
		}
	}

	headers, rows := readSample(sample, opt.Delimiter, opt.MaxRows)
	if len(headers) == 0 {
		return Result{}, fmt.Errorf("probe %s: %w", src, pcsv.ErrNoHeader)
	}

	res := Result{Source: fmt.Sprint(src), Rows: len(rows), Columns: make([]Column, len(headers))}
	recognized := make(map[string]bool, len(cleaning.TimestampColumns))
	for _, n := range cleaning.TimestampColumns {
		recognized[n] = true
	}
	for i, h := range headers {
		vals := make([]string, len(rows))
		for j, r := range rows {
			vals[j] = r[i]
		}
		nonEmpty := nonEmptyTrimmed(vals)
		c := Column{
			Name:       h,
			Type:       inferType(nonEmpty),
			Empty:      len(vals) - len(nonEmpty),
			Recognized: recognized[h],
		}
		if c.Type == TypeTimestamp || c.Type == TypeDate {
			c.Layout = layoutFor(c.Type, nonEmpty)
		}
		res.Columns[i] = c
	}
	return res, nil
}

// readSample reads a header and up to maxRows rows. Header cells are
// normalized the same way the loader normalizes them.
func readSample(data []byte, delim rune, maxRows int) ([]string, [][]string) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var headers []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil || len(rec) == 0 {
			continue
		}
		headers = pcsv.StripHeaderBOM(rec)
		for i, h := range headers {
			headers[i] = pcsv.NormalizeHeader(h)
		}
		break
	}

	var rows [][]string
	for len(rows) < maxRows {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) != len(headers) {
			continue
		}
		rows = append(rows, rec)
	}
	return headers, rows
}
