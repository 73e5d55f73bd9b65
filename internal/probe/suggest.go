package probe

import (
	"path/filepath"
	"strings"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/config"
)

// Draft is a starting point for an analysis file built from one probe.
type Draft struct {
	Source  config.Source `json:"source"`
	Layouts []string      `json:"layouts,omitempty"`
	Columns []Column      `json:"columns"`
}

// Suggest builds a Draft for res. Integer and real columns become numeric
// except identifiers (names ending in "_id") and zip code prefixes, which
// stay text. joinOn is copied when res has that column.
func Suggest(res Result, joinOn string) Draft {
	d := Draft{
		Source:  config.Source{File: filepath.Base(res.Source)},
		Columns: res.Columns,
	}
	seen := map[string]bool{}
	for _, c := range res.Columns {
		switch c.Type {
		case TypeInteger, TypeReal:
			if !isIdentifier(c.Name) {
				d.Source.Numeric = append(d.Source.Numeric, c.Name)
			}
		case TypeTimestamp, TypeDate:
			if c.Layout != "" && !seen[c.Layout] {
				seen[c.Layout] = true
				d.Layouts = append(d.Layouts, c.Layout)
			}
		}
		if joinOn != "" && c.Name == joinOn {
			d.Source.JoinOn = joinOn
		}
	}
	return d
}

func isIdentifier(name string) bool {
	return strings.HasSuffix(name, "_id") || strings.Contains(name, "zip_code")
}
