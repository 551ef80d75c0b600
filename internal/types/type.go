package types

import (
	"io"
	"reflect"
	"strings"
)

// Type is an entry of the type universe: a named type of an assembly together with the factories that
// create its values from the representations found in a container
type Type struct {
	// Name is the full type name without assembly, e.g. "System.Int32"
	Name string
	// GoType is the Go type of values produced by the factories. It may be nil for marker types
	GoType reflect.Type
	// FromString converts an invariant string representation. Nil if the type has no string conversion
	FromString func(s string) (any, error)
	// FromBytes converts a byte array representation. Nil if the type has no byte array conversion
	FromBytes func(b []byte) (any, error)
	// FromStream creates a value from the content of a stream, e.g. a referenced file
	FromStream func(r io.Reader) (any, error)

	assembly *Assembly
}

// Assembly returns the assembly the type is registered in, or nil for unregistered types
func (t *Type) Assembly() *Assembly {
	return t.assembly
}

// QualifiedName returns the assembly-qualified name of the type
func (t *Type) QualifiedName() string {
	if t.assembly == nil {
		return t.Name
	}
	return t.Name + ", " + t.assembly.Identity.String()
}

func (t *Type) String() string {
	return t.QualifiedName()
}

// TypeResolver resolves type names to types. When a name cannot be resolved, implementations return
// a *model.TypeResolutionError if throwOnFailure is set, and (nil, nil) otherwise.
type TypeResolver interface {
	ResolveType(typeName string, throwOnFailure bool) (*Type, error)
}

// ResolverFunc adapts a function to TypeResolver
type ResolverFunc func(typeName string, throwOnFailure bool) (*Type, error)

func (f ResolverFunc) ResolveType(typeName string, throwOnFailure bool) (*Type, error) {
	return f(typeName, throwOnFailure)
}

// SplitTypeName splits an assembly-qualified type name at the first comma outside of generic argument brackets.
// The returned assembly part is empty for names that are not assembly-qualified.
func SplitTypeName(typeName string) (typePart, assemblyPart string) {
	i := topLevelComma(typeName, 0)
	if i < 0 {
		return strings.TrimSpace(typeName), ""
	}
	return strings.TrimSpace(typeName[:i]), strings.TrimSpace(typeName[i+1:])
}

// FirstSegments returns the type name reduced to its first n comma-separated segments, i.e. with n=2 the
// type and the simple assembly name without version, culture and public key token
func FirstSegments(typeName string, n int) string {
	start := 0
	var segs []string
	for len(segs) < n {
		i := topLevelComma(typeName, start)
		if i < 0 {
			segs = append(segs, strings.TrimSpace(typeName[start:]))
			break
		}
		segs = append(segs, strings.TrimSpace(typeName[start:i]))
		start = i + 1
	}
	return strings.Join(segs, ", ")
}

func topLevelComma(s string, from int) int {
	depth := 0
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
