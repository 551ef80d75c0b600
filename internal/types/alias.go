package types

import "sync"

// AliasTable maps the short assembly aliases declared in a container header to full assembly identities
type AliasTable struct {
	mu      sync.RWMutex
	aliases map[string]Identity
}

func NewAliasTable() *AliasTable {
	return &AliasTable{aliases: make(map[string]Identity)}
}

// Push registers an alias. Empty aliases are ignored, a repeated alias replaces the earlier one.
func (t *AliasTable) Push(alias string, id Identity) {
	if alias == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.aliases[alias] = id
}

// Resolve returns the identity registered for alias
func (t *AliasTable) Resolve(alias string) (Identity, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.aliases[alias]
	return id, ok
}

func (t *AliasTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.aliases)
}
