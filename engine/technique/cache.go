package technique

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-phase/common"
)

// Cache memoizes Compile per Kernel. Lookups of cached kernels take only a read lock,
// and each kernel is compiled at most once per cache lifetime.
type Cache struct {
	tech    Technique
	mu      sync.RWMutex
	entries map[Kernel]*Compiled
}

// NewCache creates an empty cache over tech.
//
// Parameters:
//   - tech: the technique to compile with
//
// Returns:
//   - *Cache: the cache
func NewCache(tech Technique) *Cache {
	return &Cache{
		tech:    tech,
		entries: make(map[Kernel]*Compiled),
	}
}

// GetOrCompile returns the compiled variant of k, compiling it on first use. The returned
// value is shared and must not be modified; copy Params before refining.
//
// Parameters:
//   - k: the kernel
//
// Returns:
//   - *Compiled: the compiled variant
func (c *Cache) GetOrCompile(k Kernel) *Compiled {
	c.mu.RLock()
	entry, ok := c.entries[k]
	c.mu.RUnlock()
	if ok {
		return entry
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok = c.entries[k]; ok {
		return entry
	}
	compiled := c.tech.Compile(k)
	entry = &compiled
	c.entries[k] = entry
	common.Logger().Debug("technique kernel compiled", "kernel", k.String(), "cached", len(c.entries))
	return entry
}

// Len returns the number of cached kernels.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every cached kernel.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
