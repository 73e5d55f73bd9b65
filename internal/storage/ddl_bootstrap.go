package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/table"
)

// DDLBootstrapper creates the target table fqn for t when it does not exist,
// using repo.Exec. Backends register one per kind at init time.
type DDLBootstrapper func(ctx context.Context, repo Repository, fqn string, t *table.Table) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) the bootstrapper for kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable runs the bootstrapper registered for kind.
func EnsureTable(ctx context.Context, kind string, repo Repository, fqn string, t *table.Table) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, fqn, t)
}
