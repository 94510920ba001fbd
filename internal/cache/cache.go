// Package cache provides a small bounded cache in front of the download
// backend's expensive calls. Entries are cheap to recompute, so eviction is
// deliberately arbitrary-entry rather than LRU; swapping in a real LRU would
// not change the Get/Put contract.
package cache

import (
	"tunedeck/internal/shared"
)

type entry struct {
	ok     bool
	path   string
	isPath bool
}

// ResultCache is a capacity-bounded key/value cache for backend results.
// It is NOT safe for concurrent use on its own; all access happens under
// the orchestrator's bookkeeping lock.
type ResultCache struct {
	capacity int
	entries  map[string]entry
}

// New creates a ResultCache holding at most capacity entries.
func New(capacity int) *ResultCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &ResultCache{
		capacity: capacity,
		entries:  make(map[string]entry, capacity),
	}
}

// PutResult caches the boolean outcome of a download-by-query call.
// Callers must not cache failures as successes; a false value only records
// that the backend reported failure, it never satisfies a success lookup.
func (c *ResultCache) PutResult(query string, ok bool) {
	c.put(shared.NormalizeQuery(query), entry{ok: ok})
}

// GetResult returns a cached download outcome for the query.
func (c *ResultCache) GetResult(query string) (ok, found bool) {
	e, found := c.entries[shared.NormalizeQuery(query)]
	if !found || e.isPath {
		return false, false
	}
	return e.ok, true
}

// PutPath caches a file-path-valued result, such as the latest produced
// audio file.
func (c *ResultCache) PutPath(key, path string) {
	c.put(shared.NormalizeQuery(key), entry{path: path, isPath: true})
}

// GetPath returns a cached file path. An entry whose file no longer exists
// on disk is treated as suspect: it is evicted and reported as a miss.
func (c *ResultCache) GetPath(key string) (string, bool) {
	norm := shared.NormalizeQuery(key)
	e, found := c.entries[norm]
	if !found || !e.isPath {
		return "", false
	}
	if !shared.FileExists(e.path) {
		delete(c.entries, norm)
		return "", false
	}
	return e.path, true
}

// Invalidate removes a cached entry, if present.
func (c *ResultCache) Invalidate(key string) {
	delete(c.entries, shared.NormalizeQuery(key))
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	return len(c.entries)
}

// Capacity returns the configured entry limit.
func (c *ResultCache) Capacity() int {
	return c.capacity
}

// Clear drops all entries.
func (c *ResultCache) Clear() {
	c.entries = make(map[string]entry, c.capacity)
}

func (c *ResultCache) put(key string, e entry) {
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		// Arbitrary-entry eviction: map iteration order picks the victim.
		for victim := range c.entries {
			delete(c.entries, victim)
			break
		}
	}
	c.entries[key] = e
}
