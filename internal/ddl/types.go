// Package ddl is a small, dialect-agnostic model of a CREATE TABLE statement.
// Backends supply a Dialect for quoting, type mapping and the statement
// envelope.
package ddl

import (
	"fmt"
	"strings"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// ColumnDef describes a single column. Name is unquoted.
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef holds the dotted table name and ordered columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Dialect renders a TableDef for one backend.
type Dialect struct {
	// Name prefixes error messages, e.g. "sqlite ddl".
	Name string
	// QuoteIdent quotes a single identifier segment.
	QuoteIdent func(string) string
	// MapKind returns the SQL type for a column kind.
	MapKind func(table.Kind) string
	// Wrap builds the full statement from the quoted table name and the
	// rendered column list.
	Wrap func(quotedFQN, columns string) string
}

// FromTable derives a TableDef from t. Every column is nullable because any
// cell may be missing.
func FromTable(fqn string, t *table.Table, d Dialect) TableDef {
	cols := t.Columns()
	td := TableDef{FQN: fqn, Columns: make([]ColumnDef, len(cols))}
	for i, c := range cols {
		td.Columns[i] = ColumnDef{Name: c.Name(), SQLType: d.MapKind(c.Kind()), Nullable: true}
	}
	return td
}

// BuildCreateTableSQL renders td in dialect d.
func BuildCreateTableSQL(td TableDef, d Dialect) (string, error) {
	fqn := strings.TrimSpace(td.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s: table FQN must not be empty", d.Name)
	}
	if len(td.Columns) == 0 {
		return "", fmt.Errorf("%s: at least one column is required", d.Name)
	}

	cols := make([]string, 0, len(td.Columns))
	for _, c := range td.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("%s: column with empty name in table %s", d.Name, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("%s: column %s missing SQLType", d.Name, name)
		}
		def := d.QuoteIdent(name) + " " + typ
		if !c.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}
	return d.Wrap(QuoteFQN(fqn, d.QuoteIdent), strings.Join(cols, ",\n  ")), nil
}

// QuoteFQN quotes each dotted segment of fqn, dropping empty ones.
func QuoteFQN(fqn string, quote func(string) string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, quote(p))
		}
	}
	return strings.Join(out, ".")
}

// DoubleQuote is the ANSI identifier quote used by Postgres and SQLite.
func DoubleQuote(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
