package ddl

import (
	"strings"
	"testing"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

var testDialect = Dialect{
	Name:       "test ddl",
	QuoteIdent: DoubleQuote,
	MapKind: func(k table.Kind) string {
		if k.Numeric() {
			return "NUM"
		}
		return "TEXT"
	},
	Wrap: func(fqn, cols string) string { return "CREATE TABLE " + fqn + " (\n  " + cols + "\n);" },
}

func TestBuildCreateTableSQL_FromTable(t *testing.T) {
	t.Parallel()

	tb := table.MustNew(
		table.NewStringColumn("order_id", []string{"a"}, nil),
		table.NewFloatColumn("order_value", []float64{1}, nil),
	)
	got, err := BuildCreateTableSQL(FromTable("main.orders", tb, testDialect), testDialect)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "CREATE TABLE \"main\".\"orders\" (\n  \"order_id\" TEXT,\n  \"order_value\" NUM\n);"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildCreateTableSQL_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		td   TableDef
		msg  string
	}{
		{"empty fqn", TableDef{Columns: []ColumnDef{{Name: "a", SQLType: "TEXT"}}}, "FQN must not be empty"},
		{"no columns", TableDef{FQN: "t"}, "at least one column"},
		{"empty name", TableDef{FQN: "t", Columns: []ColumnDef{{SQLType: "TEXT"}}}, "empty name"},
		{"missing type", TableDef{FQN: "t", Columns: []ColumnDef{{Name: "a"}}}, "missing SQLType"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := BuildCreateTableSQL(tt.td, testDialect)
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("err = %v, want substring %q", err, tt.msg)
			}
			if !strings.HasPrefix(err.Error(), "test ddl: ") {
				t.Fatalf("err %q lacks dialect prefix", err)
			}
		})
	}
}

func TestNotNullAndQuoting(t *testing.T) {
	t.Parallel()

	td := TableDef{FQN: ` a . b"c `, Columns: []ColumnDef{{Name: `x"y`, SQLType: "TEXT", Nullable: false}}}
	got, err := BuildCreateTableSQL(td, testDialect)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `"a"."b""c"`) || !strings.Contains(got, `"x""y" TEXT NOT NULL`) {
		t.Fatalf("got %s", got)
	}
}
