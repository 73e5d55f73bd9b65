// Package dataset moves tables across the process boundary: raw CSV exports
// in, processed Parquet files out (and back in for later analysis).
//
// Paths are pure functions of a Resolver's directories and a file name; no
// project root is discovered implicitly.
package dataset

import (
	"path/filepath"
	"strings"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/report"
)

// ProcessedExt is the extension of processed files.
const ProcessedExt = ".parquet"

// Resolver anchors raw and processed files.
type Resolver struct {
	RawDir       string
	ProcessedDir string

	// Reporter receives "Loading data from" / "Data saved to" lines.
	Reporter report.Reporter
	// Job labels metrics.
	Job string
}

// RawPath joins file onto RawDir.
func (r Resolver) RawPath(file string) string {
	return filepath.Join(r.RawDir, file)
}

// ProcessedPath returns <ProcessedDir>/<name>.parquet. A name that already
// carries the extension is not suffixed twice.
func (r Resolver) ProcessedPath(name string) string {
	if !strings.EqualFold(filepath.Ext(name), ProcessedExt) {
		name += ProcessedExt
	}
	return filepath.Join(r.ProcessedDir, name)
}

func (r Resolver) rep() report.Reporter { return report.OrNop(r.Reporter) }
