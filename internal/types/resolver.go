package types

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/wot-oss/resx/internal/model"
)

// Resolver resolves type names, which may be partially qualified, against a universe and a list of candidate
// assemblies. Resolved types and loaded assemblies are kept in a Cache.
type Resolver struct {
	universe   *Universe
	loader     Loader
	candidates []Identity
	cache      *Cache
}

type ResolverOption func(*Resolver)

// WithCandidates sets the candidate assemblies searched for type names the universe does not resolve directly
func WithCandidates(ids ...Identity) ResolverOption {
	return func(r *Resolver) {
		r.candidates = append([]Identity(nil), ids...)
	}
}

// WithLoader sets the loader for candidate assemblies which are not part of the universe
func WithLoader(l Loader) ResolverOption {
	return func(r *Resolver) {
		r.loader = l
	}
}

// WithCache makes the resolver share c with other resolvers. By default, every resolver owns an isolated cache.
func WithCache(c *Cache) ResolverOption {
	return func(r *Resolver) {
		r.cache = c
	}
}

func WithUniverse(u *Universe) ResolverOption {
	return func(r *Resolver) {
		r.universe = u
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{}
	for _, o := range opts {
		o(r)
	}
	if r.universe == nil {
		r.universe = DefaultUniverse()
	}
	if r.cache == nil {
		r.cache = NewCache()
	}
	return r
}

func (r *Resolver) Universe() *Universe {
	return r.universe
}

// ResolveType resolves typeName, stopping at the first step that succeeds:
//  1. the type cache
//  2. the universe, for assembly-qualified names
//  3. the candidate assemblies, those named by the qualifier of typeName first; with the full name,
//     then with the type part only
//  4. the universe with typeName as given, then with typeName reduced to type and simple assembly name
//
// If the name cannot be resolved, a *model.TypeResolutionError is returned when throwOnFailure is set,
// otherwise (nil, nil). Candidate assemblies which fail to load are skipped unless throwOnFailure is set.
func (r *Resolver) ResolveType(typeName string, throwOnFailure bool) (*Type, error) {
	if t, ok := r.cache.Type(typeName); ok {
		return t, nil
	}

	typePart, asmPart := SplitTypeName(typeName)
	var t *Type
	triedUniverse := false
	if asmPart != "" {
		t, _ = r.universe.GetType(typeName)
		triedUniverse = true
	}

	if t == nil && len(r.candidates) > 0 {
		for _, id := range r.orderCandidates(asmPart) {
			a, err := r.loadAssembly(id)
			if err != nil {
				if throwOnFailure {
					return nil, fmt.Errorf("cannot load candidate assembly %s: %w", id, err)
				}
				slog.Default().Debug("skipping candidate assembly", "assembly", id.String(), "error", err)
				continue
			}
			if found, ok := a.Type(typeName); ok {
				t = found
				break
			}
			if asmPart != "" {
				if found, ok := a.Type(typePart); ok {
					t = found
					break
				}
			}
		}
	}

	if t == nil && !triedUniverse {
		t, _ = r.universe.GetType(typeName)
	}
	if t == nil {
		if short := FirstSegments(typeName, 2); short != typeName {
			t, _ = r.universe.GetType(short)
		}
	}

	if t != nil {
		r.cache.PutType(typeName, t)
		return t, nil
	}
	if throwOnFailure {
		return nil, &model.TypeResolutionError{TypeName: typeName}
	}
	return nil, nil
}

// orderCandidates returns the candidates with those whose simple name equals the assembly qualifier of the type
// name moved to the front. The configured order is never changed.
func (r *Resolver) orderCandidates(asmPart string) []Identity {
	if asmPart == "" {
		return r.candidates
	}
	simple, _, _ := strings.Cut(asmPart, ",")
	simple = strings.TrimSpace(simple)
	ordered := make([]Identity, 0, len(r.candidates))
	var rest []Identity
	for _, c := range r.candidates {
		if strings.EqualFold(c.Name, simple) {
			ordered = append(ordered, c)
		} else {
			rest = append(rest, c)
		}
	}
	return append(ordered, rest...)
}

func (r *Resolver) loadAssembly(id Identity) (*Assembly, error) {
	if a, ok := r.cache.Assembly(id); ok {
		return a, nil
	}
	a, ok := r.universe.Assembly(id)
	if !ok {
		if r.loader == nil {
			return nil, fmt.Errorf("%w: %s", ErrAssemblyNotFound, id)
		}
		var err error
		a, err = r.loader.Load(id)
		if err != nil {
			return nil, err
		}
	}
	r.cache.PutAssembly(id, a)
	return a, nil
}
