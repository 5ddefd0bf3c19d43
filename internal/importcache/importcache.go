// Package importcache implements the process-wide module cache spec.md
// §5 and §6 describe: "map from module name to already-evaluated value",
// mutated by Import/FromImport evaluation, consulted before re-parsing and
// re-evaluating a `.lom` file. Because internal/interp's evaluator is
// single-threaded (§5: "single-threaded, cooperative... strictly
// sequential"), the cache itself needs no locking for the core's own use;
// the mutex here exists purely for the documented concurrent
// reimplementation contract in §5 ("in a concurrent re-implementation the
// cache must be protected by a mutex with a read-then-compute-then-insert
// protocol") and costs nothing on the single-threaded path.
package importcache

import (
	"sync"

	"github.com/lomda-lang/lomda/internal/runtime"
)

// Cache is a process-wide, optionally-enabled module cache keyed by
// module name (the file's base name without its .lom extension).
type Cache struct {
	mu      sync.Mutex
	enabled bool
	values  map[string]runtime.Value
}

// New creates a cache. enabled mirrors --use-module-caching; when false,
// Get always misses and Put is a no-op, matching spec.md §6's "module
// caching" flag being opt-in.
func New(enabled bool) *Cache {
	return &Cache{enabled: enabled, values: map[string]runtime.Value{}}
}

// Get returns the cached value for module, if caching is enabled and the
// module has already been evaluated once this process.
func (c *Cache) Get(module string) (runtime.Value, bool) {
	if !c.enabled {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[module]
	return v, ok
}

// Put records module's evaluated top-level value, retaining a reference
// on behalf of the cache so later importers can share it without racing
// the importer that first evaluated it.
func (c *Cache) Put(module string, v runtime.Value) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[module] = runtime.Retain(v)
}

// Clear releases every cached value and empties the cache — invoked on
// process shutdown per spec.md §5.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.values {
		runtime.Release(v)
		delete(c.values, k)
	}
}
