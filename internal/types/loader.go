package types

import (
	"errors"
	"fmt"
	"sync"
)

var ErrAssemblyNotFound = errors.New("assembly not found")

// Loader loads assemblies that are not part of the universe, e.g. the candidate assemblies configured for a reader
type Loader interface {
	Load(id Identity) (*Assembly, error)
}

// LoaderFunc adapts a function to Loader
type LoaderFunc func(id Identity) (*Assembly, error)

func (f LoaderFunc) Load(id Identity) (*Assembly, error) {
	return f(id)
}

// Catalog is a Loader serving a fixed set of assemblies. When several assemblies match a request, the one with the
// highest version is returned.
type Catalog struct {
	mu         sync.RWMutex
	assemblies []*Assembly
}

func NewCatalog(as ...*Assembly) *Catalog {
	return &Catalog{assemblies: as}
}

func (c *Catalog) Add(as ...*Assembly) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assemblies = append(c.assemblies, as...)
}

func (c *Catalog) Load(id Identity) (*Assembly, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var found *Assembly
	for _, a := range c.assemblies {
		if !a.Identity.Matches(id) {
			continue
		}
		if found == nil || compareVersions(a.Identity.Version, found.Identity.Version) > 0 {
			found = a
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrAssemblyNotFound, id)
	}
	return found, nil
}
