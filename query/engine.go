package query

import (
	"context"
	"fmt"

	"github.com/alitto/pond"

	"github.com/n6ul/ulsdb/store"
)

// Engine is the query-engine handle bound to one open store: it owns
// the lookup cache and the worker pool that fans out per-FRN and
// per-service work across the store's read connection pool.
type Engine struct {
	store *store.Store
	cache *lookupCache
	pool  *pond.WorkerPool
}

// NewEngine builds an Engine over an already-open store.
func NewEngine(s *store.Store) *Engine {
	return &Engine{
		store: s,
		cache: newLookupCache(1024),
		pool:  newWorkerPool(),
	}
}

// Close stops the worker pool, waiting for in-flight work to finish. It
// does not close the underlying store, which the caller still owns.
func (e *Engine) Close() {
	e.pool.StopAndWait()
}

// InvalidateCache discards cached lookups. Callers invoke this after a
// successful import: the cache has no TTL of its own, so this is the
// only thing that keeps it from serving pre-import results forever.
func (e *Engine) InvalidateCache() {
	e.cache.purge()
}

// Search runs a compiled Filter against the licenses table and returns
// every matching row in the filter's sort order.
func (e *Engine) Search(ctx context.Context, f Filter) ([]License, error) {
	c := f.Compile()
	q := fmt.Sprintf(`SELECT %s FROM licenses l WHERE %s ORDER BY %s %s`,
		licenseSelectColumns, whereOrTrue(c.Where), c.Order, c.Limit)

	rows, err := e.store.DB().QueryContext(ctx, q, c.Args...)
	if err != nil {
		return nil, fmt.Errorf("query: search: %w", err)
	}
	defer rows.Close()

	var out []License
	for rows.Next() {
		lic, err := scanLicense(rows)
		if err != nil {
			return nil, fmt.Errorf("query: search: scan: %w", err)
		}
		out = append(out, lic)
	}
	return out, rows.Err()
}

// Count reports how many rows match f's filter conditions, ignoring its
// pagination (Limit/Offset) so callers can compute total-pages for a
// Search result run with the same filter.
func (e *Engine) Count(ctx context.Context, f Filter) (int, error) {
	c := f.Compile()
	q := fmt.Sprintf(`SELECT count(*) FROM licenses l WHERE %s`, whereOrTrue(c.Where))
	var n int
	if err := e.store.DB().QueryRowContext(ctx, q, c.Args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("query: count: %w", err)
	}
	return n, nil
}

func whereOrTrue(w string) string {
	if w == "" {
		return "1=1"
	}
	return w
}
