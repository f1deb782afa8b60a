package archive

import (
	"sync"

	"codenerd/internal/phenotype"
)

// PriorityCache memoizes interpret-priority results by exact input string
// (spec §9: implementers must cache interpretations to avoid per-turn
// latency). It is safe for concurrent use and shared across Select calls
// for the lifetime of a session or process.
type PriorityCache struct {
	mu    sync.RWMutex
	byKey map[string]phenotype.Phenotype
}

// NewPriorityCache returns an empty cache.
func NewPriorityCache() *PriorityCache {
	return &PriorityCache{byKey: make(map[string]phenotype.Phenotype)}
}

// Get returns the cached target Phenotype for a priority string, if any.
func (c *PriorityCache) Get(priority string) (phenotype.Phenotype, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byKey[priority]
	return p, ok
}

// Put records the interpreted target Phenotype for a priority string.
func (c *PriorityCache) Put(priority string, target phenotype.Phenotype) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byKey[priority] = target
}
