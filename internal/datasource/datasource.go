// Package datasource abstracts where raw bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source opens a fresh reader on each call. Callers close it.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
