package config

import (
	"strings"
	"testing"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

func validAnalysis() Analysis {
	return Analysis{
		Job:     "olist_eda",
		Dataset: "olist_enriched",
		Sources: []Source{
			{File: "orders.csv"},
			{File: "items.csv", JoinOn: "order_id", Numeric: []string{"price"}},
		},
		Features: []Feature{{Kind: "order_value"}, {Kind: "shipping_time_days"}},
		Storage: Storage{
			Kind: "sqlite",
			DB:   DBConfig{DSN: "eda.db", Table: "orders_enriched"},
		},
	}
}

func TestValidateAnalysis_ValidMinimal(t *testing.T) {
	t.Parallel()

	if issues := ValidateAnalysis(validAnalysis()); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestValidateAnalysis_NoStorageIsFine(t *testing.T) {
	t.Parallel()

	a := validAnalysis()
	a.Storage = Storage{}
	if issues := ValidateAnalysis(a); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestValidateAnalysis_Issues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Analysis)
		sev    IssueSeverity
		path   string
		msg    string
	}{
		{"missing job", func(a *Analysis) { a.Job = " " }, SeverityError, "job", "must not be empty"},
		{"missing dataset", func(a *Analysis) { a.Dataset = "" }, SeverityError, "dataset", "must not be empty"},
		{"dataset path", func(a *Analysis) { a.Dataset = "../x" }, SeverityError, "dataset", "bare name"},
		{"no sources", func(a *Analysis) { a.Sources = nil }, SeverityError, "sources", "at least one"},
		{"empty file", func(a *Analysis) { a.Sources[1].File = "" }, SeverityError, "sources[1].file", "must not be empty"},
		{"missing join key", func(a *Analysis) { a.Sources[1].JoinOn = "" }, SeverityError, "sources[1].join_on", "join_on key"},
		{"join on first", func(a *Analysis) { a.Sources[0].JoinOn = "order_id" }, SeverityWarning, "sources[0].join_on", "ignored"},
		{"duplicate file", func(a *Analysis) { a.Sources[1].File = "orders.csv" }, SeverityWarning, "sources[1].file", "already loaded"},
		{"bad comma", func(a *Analysis) { a.Sources[0].Comma = ";;" }, SeverityError, "sources[0].comma", "single character"},
		{"bad zone", func(a *Analysis) { a.Clean.Location = "Mars/Olympus" }, SeverityError, "clean.location", "unknown time zone"},
		{"blank layout", func(a *Analysis) { a.Clean.Layouts = []string{" "} }, SeverityWarning, "clean.layouts[0]", "ignored"},
		{"no features", func(a *Analysis) { a.Features = nil }, SeverityWarning, "features", "saved as-is"},
		{"empty kind", func(a *Analysis) { a.Features[0].Kind = "" }, SeverityError, "features[0].kind", "must not be empty"},
		{"unknown kind", func(a *Analysis) { a.Features[0].Kind = "speed" }, SeverityError, "features[0].kind", "unknown feature kind"},
		{"legacy kind", func(a *Analysis) { a.Features[0].Kind = "shipping_delay_days" }, SeverityWarning, "features[0].kind", "legacy alias"},
		{"duplicate output", func(a *Analysis) {
			a.Features = append(a.Features, Feature{Kind: "total_delivery_time", Options: Options{"output": "shipping_time_days"}})
		}, SeverityWarning, "features[2]", "overwrites"},
		{"unknown storage", func(a *Analysis) { a.Storage.Kind = "mysql" }, SeverityError, "storage.kind", "unknown storage kind"},
		{"missing dsn", func(a *Analysis) { a.Storage.DB.DSN = "" }, SeverityError, "storage.db.dsn", "must not be empty"},
		{"missing table", func(a *Analysis) { a.Storage.DB.Table = "" }, SeverityError, "storage.db.table", "must not be empty"},
		{"negative batch", func(a *Analysis) { a.Storage.DB.BatchSize = -1 }, SeverityError, "storage.db.batch_size", "negative"},
		{"log format", func(a *Analysis) { a.Logging.Format = "xml" }, SeverityWarning, "logging.format", "console is used"},
		{"log level", func(a *Analysis) { a.Logging.Level = "loud" }, SeverityError, "logging.level", "unknown log level"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := validAnalysis()
			tt.mutate(&a)
			issues := ValidateAnalysis(a)
			if !hasIssue(t, issues, tt.sev, tt.path, tt.msg) {
				t.Fatalf("expected %s at %s containing %q; got %+v", tt.sev, tt.path, tt.msg, issues)
			}
		})
	}
}

func TestHasErrors(t *testing.T) {
	t.Parallel()

	if HasErrors([]Issue{{Severity: SeverityWarning}}) {
		t.Fatal("warnings alone are not errors")
	}
	if !HasErrors([]Issue{{Severity: SeverityWarning}, {Severity: SeverityError}}) {
		t.Fatal("expected error")
	}
	if got := (Issue{Severity: SeverityError, Path: "job", Message: "m"}).Error(); got != "error at job: m" {
		t.Fatalf("Error() = %q", got)
	}
}
