// Package memory holds in-process repositories used when the portal runs
// without MongoDB, and as fast fakes in tests. Every repository is safe for
// concurrent use and hands out copies, never its own records.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// collection stores slug-addressed records keyed by ID, in insertion order.
type collection[T domain.Record] struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]T
	clone func(T) T
}

func newCollection[T domain.Record](clone func(T) T) *collection[T] {
	return &collection[T]{byID: make(map[string]T), clone: clone}
}

func (c *collection[T]) Create(_ context.Context, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := rec.RecordID()
	if _, ok := c.byID[id]; !ok {
		c.order = append(c.order, id)
	}
	c.byID[id] = c.clone(rec)
	return nil
}

func (c *collection[T]) Update(_ context.Context, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[rec.RecordID()]; !ok {
		return domain.ErrContentNotFound
	}
	c.byID[rec.RecordID()] = c.clone(rec)
	return nil
}

func (c *collection[T]) FindByID(_ context.Context, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.byID[id]
	if !ok {
		var zero T
		return zero, domain.ErrContentNotFound
	}
	return c.clone(rec), nil
}

// FindBySlug prefers the live record when a deleted one shares its slug.
func (c *collection[T]) FindBySlug(_ context.Context, slug string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var found T
	ok := false
	for _, id := range c.order {
		rec := c.byID[id]
		if rec.RecordSlug() != slug {
			continue
		}
		if !rec.State().Deleted() {
			return c.clone(rec), nil
		}
		if !ok {
			found, ok = rec, true
		}
	}
	if !ok {
		return found, domain.ErrContentNotFound
	}
	return c.clone(found), nil
}

func (c *collection[T]) SlugInUse(_ context.Context, slug, exceptID string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for id, rec := range c.byID {
		if id != exceptID && rec.RecordSlug() == slug && !rec.State().Deleted() {
			return true, nil
		}
	}
	return false, nil
}

// query returns one page of the records accepted by keep, ordered by cmp,
// together with the number of matches.
func (c *collection[T]) query(f ports.ListFilter, keep func(T) bool, cmp func(a, b T) int) ([]T, int64) {
	c.mu.RLock()
	matched := make([]T, 0, len(c.order))
	for _, id := range c.order {
		rec := c.byID[id]
		if rec.State().Matches(f.Status) && (keep == nil || keep(rec)) {
			matched = append(matched, c.clone(rec))
		}
	}
	c.mu.RUnlock()

	if cmp != nil {
		slices.SortStableFunc(matched, cmp)
	}
	page := domain.Paginate(matched, f.Page)
	return page.Items, page.Pagination.Total
}
