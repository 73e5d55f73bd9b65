package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a file path or URI understood by modernc.org/sqlite, e.g.
	// "data/processed/olist.db" or "file:olist.db?_pragma=busy_timeout(5000)".
	DSN string

	// Table is the target table. "main.orders" style names are accepted.
	Table string

	// Columns is the ordered list of destination columns. When empty the
	// columns passed to CopyFrom are used as-is.
	Columns []string
}
