package metadata

import (
	"context"
	"sync"
)

// Cache holds resolved type code mappings. Mappings are immutable for a
// schema version, so entries never need invalidating here.
type Cache interface {
	Get(ctx context.Context, typeCode int) (string, bool, error)
	Set(ctx context.Context, typeCode int, logicalName string) error
}

type NoCache struct{}

func (NoCache) Get(ctx context.Context, typeCode int) (string, bool, error) {
	return "", false, nil
}

func (NoCache) Set(ctx context.Context, typeCode int, logicalName string) error {
	return nil
}

type MemoryCache struct {
	mu    sync.RWMutex
	names map[int]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{names: make(map[int]string)}
}

func (c *MemoryCache) Get(ctx context.Context, typeCode int) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name, ok := c.names[typeCode]
	return name, ok, nil
}

func (c *MemoryCache) Set(ctx context.Context, typeCode int, logicalName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.names[typeCode] = logicalName
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}
