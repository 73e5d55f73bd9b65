// Package config defines the JSON analysis file consumed by cmd/eda.
//
// An analysis names the raw files to load and how to join them, the cleaning
// knobs, the ordered feature chain, the columns to summarize, and where the
// enriched table goes. Decoding uses encoding/json; per-feature settings live
// in a free-form Options bag read through typed helpers.
//
// Example (trimmed):
//
//	{
//	  "job": "olist_eda",
//	  "dataset": "olist_enriched",
//	  "paths":   { "raw_dir": "data/raw", "processed_dir": "data/processed" },
//	  "sources": [
//	    { "file": "olist_orders_dataset.csv" },
//	    { "file": "olist_order_items_dataset.csv", "join_on": "order_id", "numeric": ["price"] }
//	  ],
//	  "features": [ { "kind": "order_value" }, { "kind": "shipping_time_days" } ],
//	  "storage":  { "kind": "sqlite", "db": { "dsn": "eda.db", "table": "orders_enriched" } }
//	}
package config

import "encoding/json"

// Analysis is the top-level object decoded from an analysis file.
type Analysis struct {
	// Job labels metrics and log lines for this run.
	Job string `json:"job"`

	// Dataset is the base name of the processed output (<dataset>.parquet).
	Dataset string `json:"dataset"`

	Paths Paths `json:"paths"`

	// Sources are loaded concurrently and then left-joined in order onto the
	// first one.
	Sources []Source `json:"sources"`

	Clean Clean `json:"clean"`

	// Features is the ordered derivation chain.
	Features []Feature `json:"features"`

	// Summary lists the columns described at the end of the run. Empty means
	// every numeric column.
	Summary []string `json:"summary"`

	// Storage is optional; an empty kind skips the database export.
	Storage Storage `json:"storage"`

	Logging Logging `json:"logging"`
}

// Paths anchors raw and processed files.
type Paths struct {
	RawDir       string `json:"raw_dir"`
	ProcessedDir string `json:"processed_dir"`
}

// Source is one raw CSV file.
type Source struct {
	// File is relative to Paths.RawDir.
	File string `json:"file"`

	// JoinOn is the key used to left-join this source onto the accumulated
	// table. Ignored for the first source.
	JoinOn string `json:"join_on"`

	// Numeric lists columns parsed as floats instead of text.
	Numeric []string `json:"numeric"`

	// Comma overrides the field delimiter (default ",").
	Comma string `json:"comma"`

	// TrimSpace trims surrounding whitespace from every cell.
	TrimSpace bool `json:"trim_space"`

	// HeaderMap renames columns after header normalization, e.g.
	// {"seller": "seller_id"}.
	HeaderMap map[string]string `json:"header_map"`
}

// Clean configures timestamp parsing.
type Clean struct {
	// Layouts are tried after the built-in ones (Go reference layouts).
	Layouts []string `json:"layouts"`

	// Location is an IANA zone for layouts without offset. Default UTC.
	Location string `json:"location"`
}

// Feature selects one derivation.
type Feature struct {
	Kind    string  `json:"kind"`
	Options Options `json:"options"`
}

// Storage selects the database sink.
type Storage struct {
	Kind string   `json:"kind"`
	DB   DBConfig `json:"db"`
}

// DBConfig configures the DB sink.
type DBConfig struct {
	// DSN is the backend connection string.
	DSN string `json:"dsn"`

	// Table is the destination table, optionally schema-qualified.
	Table string `json:"table"`

	// Columns restricts and orders the exported columns. Empty exports all.
	Columns []string `json:"columns"`

	// AutoCreateTable issues CREATE TABLE IF NOT EXISTS derived from the
	// table's column kinds before loading.
	AutoCreateTable bool `json:"auto_create_table"`

	// BatchSize is the number of rows per COPY. Default 5000.
	BatchSize int `json:"batch_size"`
}

// Logging configures the process logger.
type Logging struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Options fetches typed values from a JSON object with minimal coercion. A
// missing key or a value of the wrong type yields the supplied default.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers arrive as float64.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// StringSlice returns the string elements of an array value, or nil.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// UnmarshalJSON decodes a missing or null object to an empty, non-nil map.
func (o *Options) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	var tmp map[string]any
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
