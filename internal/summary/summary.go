// Package summary computes descriptive statistics over numeric columns, in
// the shape of a pandas describe() table.
package summary

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// Stats describes one column. Statistics of an empty column are NaN.
type Stats struct {
	Column  string
	Count   int
	Missing int
	Mean    float64
	Std     float64
	Min     float64
	P25     float64
	P50     float64
	P75     float64
	Max     float64
}

// Describe returns statistics for the named columns, or for every numeric
// column when none are named. Named columns that are absent or not numeric
// are skipped.
func Describe(t *table.Table, columns ...string) []Stats {
	if t == nil {
		return nil
	}
	if len(columns) == 0 {
		for _, c := range t.Columns() {
			if c.Kind().Numeric() {
				columns = append(columns, c.Name())
			}
		}
	}
	out := make([]Stats, 0, len(columns))
	for _, name := range columns {
		c, err := t.Column(name)
		if err != nil || !c.Kind().Numeric() {
			continue
		}
		out = append(out, describe(c))
	}
	return out
}

func describe(c *table.Column) Stats {
	xs := make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.Float(i); ok && !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	s := Stats{Column: c.Name(), Count: len(xs), Missing: c.Len() - len(xs)}
	if len(xs) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sort.Float64s(xs)
	s.Mean, s.Std = stat.MeanStdDev(xs, nil)
	s.Min = xs[0]
	s.Max = xs[len(xs)-1]
	s.P25 = quantile(0.25, xs)
	s.P50 = quantile(0.50, xs)
	s.P75 = quantile(0.75, xs)
	return s
}

// quantile interpolates linearly between the closest ranks of sorted xs at
// position (n-1)p, the default of pandas describe(). gonum's Quantile kinds
// place the position at np instead.
func quantile(p float64, xs []float64) float64 {
	h := float64(len(xs)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(xs) {
		return xs[len(xs)-1]
	}
	return xs[i] + (h-lo)*(xs[i+1]-xs[i])
}

// Render writes stats as an aligned text table.
func Render(w io.Writer, stats []Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "column\tcount\tmissing\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.Column, s.Count, s.Missing,
			num(s.Mean), num(s.Std), num(s.Min), num(s.P25), num(s.P50), num(s.P75), num(s.Max))
	}
	return tw.Flush()
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
