// Package csv reads a whole CSV file into a columnar table. Every column is
// loaded as text except the ones named numeric, which are parsed as floats.
// Empty cells become missing cells in both cases.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/report"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// ErrNoHeader is returned for input without a header row.
var ErrNoHeader = errors.New("csv: missing header row")

// Options configures ReadTable. All fields are optional.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims surrounding whitespace from every value.
	TrimSpace bool

	// Numeric names columns (after header normalization) parsed as float64.
	// A cell that does not parse becomes missing and is counted in Result.
	Numeric []string

	// HeaderMap renames normalized headers.
	HeaderMap map[string]string

	// Reporter receives skipped-row lines. Nil discards them.
	Reporter report.Reporter

	// MaxSkipReports caps how many skipped rows are reported. Default 50.
	MaxSkipReports int
}

// Result describes what ReadTable dropped on the way.
type Result struct {
	// Skipped counts rows rejected for malformed quoting or a field count
	// that differs from the header.
	Skipped int
	// BadNumbers counts non-empty numeric cells that failed to parse.
	BadNumbers int
}

// ReadTable consumes r and returns the table. Malformed rows are skipped and
// counted; only a missing header or an I/O error fails the read.
func ReadTable(r io.Reader, opt Options) (*table.Table, Result, error) {
	rep := report.OrNop(opt.Reporter)
	maxReports := opt.MaxSkipReports
	if maxReports <= 0 {
		maxReports = 50
	}

	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var res Result
	h, err := cr.Read()
	if err == io.EOF {
		return nil, res, ErrNoHeader
	}
	if err != nil {
		return nil, res, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(append([]string(nil), h...), opt.HeaderMap)

	numeric := make(map[string]bool, len(opt.Numeric))
	for _, n := range opt.Numeric {
		numeric[n] = true
	}

	cols := make([]columnBuilder, len(headers))
	for i, name := range headers {
		cols[i] = columnBuilder{name: name, numeric: numeric[name]}
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, res, fmt.Errorf("read csv: %w", err)
			}
			if res.Skipped < maxReports {
				rep.Warnf("Skipping row %d: %v", line, err)
			}
			res.Skipped++
			continue
		}
		if len(row) != len(headers) {
			if res.Skipped < maxReports {
				rep.Warnf("Skipping row %d: incorrect number of fields (expected %d, got %d)", line, len(headers), len(row))
			}
			res.Skipped++
			continue
		}
		for i, val := range row {
			if opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			if !cols[i].add(val) {
				res.BadNumbers++
			}
		}
	}

	out := make([]*table.Column, len(cols))
	for i := range cols {
		out[i] = cols[i].build()
	}
	t, err := table.New(out...)
	if err != nil {
		return nil, res, fmt.Errorf("csv: %w", err)
	}
	return t, res, nil
}

type columnBuilder struct {
	name    string
	numeric bool
	strs    []string
	floats  []float64
	valid   []bool
}

// add appends one cell. It reports false for a non-empty numeric cell that
// did not parse.
func (b *columnBuilder) add(val string) bool {
	if b.numeric {
		s := strings.TrimSpace(val)
		if s == "" {
			b.floats = append(b.floats, 0)
			b.valid = append(b.valid, false)
			return true
		}
		f, err := strconv.ParseFloat(s, 64)
		b.floats = append(b.floats, f)
		b.valid = append(b.valid, err == nil)
		return err == nil
	}
	b.strs = append(b.strs, val)
	b.valid = append(b.valid, val != "")
	return true
}

func (b *columnBuilder) build() *table.Column {
	if b.numeric {
		return table.NewFloatColumn(b.name, b.floats, b.valid)
	}
	return table.NewStringColumn(b.name, b.strs, b.valid)
}
