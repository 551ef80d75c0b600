package types

import "sync"

// Cache holds resolved types by exact type name and loaded assemblies by identity. Entries are never removed.
// A Cache may be shared by several resolvers, since values for the same key are deterministic.
type Cache struct {
	mu         sync.RWMutex
	types      map[string]*Type
	assemblies map[string]*Assembly
}

func NewCache() *Cache {
	return &Cache{
		types:      make(map[string]*Type),
		assemblies: make(map[string]*Assembly),
	}
}

func (c *Cache) Type(name string) (*Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[name]
	return t, ok
}

func (c *Cache) PutType(name string, t *Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[name] = t
}

func (c *Cache) Assembly(id Identity) (*Assembly, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.assemblies[id.String()]
	return a, ok
}

func (c *Cache) PutAssembly(id Identity, a *Assembly) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assemblies[id.String()] = a
}

// Len returns the number of cached types and assemblies
func (c *Cache) Len() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.types), len(c.assemblies)
}
