// Package discovery maintains the process-wide view of plugin entry
// points for an embedding host. The host owns how entry points are
// dispatched; this package's obligations are to enumerate them on demand,
// memoize the result, and forget the memo when installed packages change
// so a just-installed plugin becomes visible without a restart.
package discovery

import (
	"context"
	"sort"
	"sync"
)

// Source enumerates the live environment's entry points for a set of
// groups. pyenv.Interpreter implements it.
type Source interface {
	EntryPoints(ctx context.Context, groups []string) (map[string][]string, error)
}

// Cache memoizes one enumeration of entry points and supports best-effort,
// idempotent invalidation. It can also take a snapshot before a
// reconciliation run and report entry points that appeared since.
type Cache struct {
	source Source
	groups []string

	mu       sync.Mutex
	points   map[string][]string
	valid    bool
	snapshot map[string][]string
}

// NewCache returns a cache over the given source and entry-point groups.
func NewCache(source Source, groups []string) *Cache {
	return &Cache{source: source, groups: groups}
}

// EntryPoints returns the entry points per group, enumerating from the
// source only when no valid memo exists.
func (c *Cache) EntryPoints(ctx context.Context) (map[string][]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.refreshLocked(ctx); err != nil {
		return nil, err
	}
	return copyPoints(c.points), nil
}

// Invalidate drops the memoized enumeration so the next lookup recomputes
// it. Calling it when nothing changed, or repeatedly, is a no-op — never
// an error.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.points = nil
}

// TakeSnapshot records the current entry points for later comparison with
// NewSince.
func (c *Cache) TakeSnapshot(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.refreshLocked(ctx); err != nil {
		return err
	}
	c.snapshot = copyPoints(c.points)
	return nil
}

// NewSince returns the entry points present now that were absent from the
// last snapshot, sorted within each group. Without a prior snapshot every
// current entry point is reported.
func (c *Cache) NewSince(ctx context.Context) (map[string][]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.refreshLocked(ctx); err != nil {
		return nil, err
	}

	diff := make(map[string][]string)
	for group, current := range c.points {
		before := make(map[string]bool, len(c.snapshot[group]))
		for _, ep := range c.snapshot[group] {
			before[ep] = true
		}
		for _, ep := range current {
			if !before[ep] {
				diff[group] = append(diff[group], ep)
			}
		}
		sort.Strings(diff[group])
	}
	return diff, nil
}

// refreshLocked re-enumerates from the source if the memo is invalid.
// Callers hold c.mu.
func (c *Cache) refreshLocked(ctx context.Context) error {
	if c.valid {
		return nil
	}
	points, err := c.source.EntryPoints(ctx, c.groups)
	if err != nil {
		return err
	}
	c.points = points
	c.valid = true
	return nil
}

func copyPoints(points map[string][]string) map[string][]string {
	out := make(map[string][]string, len(points))
	for group, eps := range points {
		out[group] = append([]string(nil), eps...)
	}
	return out
}
