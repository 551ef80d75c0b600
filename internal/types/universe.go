package types

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Assembly is a named set of types
type Assembly struct {
	Identity Identity

	mu    sync.RWMutex
	types map[string]*Type
	order []*Type
}

func NewAssembly(id Identity) *Assembly {
	return &Assembly{Identity: id, types: make(map[string]*Type)}
}

// Add registers types with the assembly. A type can only belong to one assembly.
func (a *Assembly) Add(ts ...*Type) *Assembly {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, t := range ts {
		if t.assembly != nil && t.assembly != a {
			panic(fmt.Sprintf("type %s is already registered in %s", t.Name, t.assembly.Identity))
		}
		t.assembly = a
		if _, ok := a.types[t.Name]; !ok {
			a.order = append(a.order, t)
		}
		a.types[t.Name] = t
	}
	return a
}

// Type returns the type with the exact full name. Assembly-qualified names are not accepted.
func (a *Assembly) Type(name string) (*Type, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	t, ok := a.types[name]
	return t, ok
}

// Types returns the registered types in registration order
func (a *Assembly) Types() []*Type {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]*Type(nil), a.order...)
}

// Universe is the globally visible set of assemblies of the host application. It resolves type names without
// loading anything and is safe for concurrent use.
type Universe struct {
	mu         sync.RWMutex
	assemblies []*Assembly
	redirects  map[string]string
	byGoType   map[reflect.Type]*Type
}

func NewEmptyUniverse() *Universe {
	return &Universe{
		redirects: make(map[string]string),
		byGoType:  make(map[reflect.Type]*Type),
	}
}

// Register adds assemblies to the universe. Types are indexed by their Go type; the first registration of a
// Go type wins.
func (u *Universe) Register(as ...*Assembly) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, a := range as {
		u.assemblies = append(u.assemblies, a)
		for _, t := range a.Types() {
			if t.GoType == nil {
				continue
			}
			if _, ok := u.byGoType[t.GoType]; !ok {
				u.byGoType[t.GoType] = t
			}
		}
	}
}

// Redirect makes references to the assembly named from resolve against the assembly named to
func (u *Universe) Redirect(from, to string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.redirects[strings.ToLower(from)] = to
}

// Assembly returns the first registered assembly matching id
func (u *Universe) Assembly(id Identity) (*Assembly, bool) {
	id = u.redirect(id)
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, a := range u.assemblies {
		if a.Identity.Matches(id) {
			return a, true
		}
	}
	return nil, false
}

// GetType resolves a type name against the universe. Names without assembly are searched in all assemblies in
// registration order; assembly-qualified names only in assemblies matching the qualifier.
func (u *Universe) GetType(typeName string) (*Type, bool) {
	typePart, asmPart := SplitTypeName(typeName)
	if typePart == "" {
		return nil, false
	}
	var req *Identity
	if asmPart != "" {
		id, err := ParseIdentity(asmPart)
		if err != nil {
			return nil, false
		}
		id = u.redirect(id)
		req = &id
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, a := range u.assemblies {
		if req != nil && !a.Identity.Matches(*req) {
			continue
		}
		if t, ok := a.Type(typePart); ok {
			return t, true
		}
	}
	return nil, false
}

// TypeOf returns the registered type of a Go value. Nil values are of the object type.
func (u *Universe) TypeOf(v any) (*Type, bool) {
	if v == nil {
		return u.GetType(TypeObject)
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	t, ok := u.byGoType[reflect.TypeOf(v)]
	return t, ok
}

func (u *Universe) redirect(id Identity) Identity {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if to, ok := u.redirects[strings.ToLower(id.Name)]; ok {
		id.Name = to
	}
	return id
}
