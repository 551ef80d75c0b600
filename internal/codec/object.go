package codec

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/wot-oss/resx/internal/model"
	"github.com/wot-oss/resx/internal/types"
)

//go:embed object.schema.json
var objectSchema string

const (
	objectSchemaUrl = "resource://object.schema.json"
	objectFormat    = "resx-object"
	objectVersion   = 1
)

var objectValidator = jsonschema.MustCompileString(objectSchemaUrl, objectSchema)

var ErrInvalidObject = errors.New("invalid object payload")

// ObjectCodec serializes opaque object payloads. Types are named on encoding and bound back to types on decoding.
type ObjectCodec interface {
	Encode(v any, namer Namer) ([]byte, error)
	Decode(data []byte, binder Binder) (any, error)
}

// Namer returns the type name written for a value
type Namer interface {
	TypeNameOf(v any) (string, error)
}

// Binder binds a type name read from a payload to a type
type Binder interface {
	BindToType(typeName string) (*types.Type, error)
}

// NewBinder returns a binder resolving type names with r. A name which does not resolve is retried
// without its assembly version, and then as a bare type name.
func NewBinder(r types.TypeResolver) Binder {
	return &resolverBinder{r: r}
}

type resolverBinder struct {
	r types.TypeResolver
}

func (b *resolverBinder) BindToType(typeName string) (*types.Type, error) {
	typePart, _ := types.SplitTypeName(typeName)
	for _, name := range []string{typeName, withoutVersion(typeName), typePart} {
		t, err := b.r.ResolveType(name, false)
		if err != nil {
			return nil, err
		}
		if t != nil {
			return t, nil
		}
	}
	return nil, &model.TypeResolutionError{TypeName: typeName}
}

func withoutVersion(typeName string) string {
	parts := strings.Split(typeName, ",")
	res := parts[:0]
	for _, p := range parts {
		if k, _, ok := strings.Cut(p, "="); ok && strings.EqualFold(strings.TrimSpace(k), "Version") {
			continue
		}
		res = append(res, p)
	}
	return strings.Join(res, ",")
}

// UniverseNamer names values by their type in a universe
type UniverseNamer struct {
	Universe *types.Universe
}

func (n UniverseNamer) TypeNameOf(v any) (string, error) {
	if v == nil {
		t, ok := n.Universe.GetType(types.TypeNullRef)
		if !ok {
			return types.TypeNullRef, nil
		}
		return t.QualifiedName(), nil
	}
	t, ok := n.Universe.TypeOf(v)
	if !ok {
		return "", fmt.Errorf("no type registered for %T", v)
	}
	return t.QualifiedName(), nil
}

// JSONObjectCodec encodes objects as a versioned JSON envelope:
//
//	{"format":"resx-object","version":1,"type":"System.Int32, mscorlib","value":42}
type JSONObjectCodec struct{}

type envelope struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
	Type    string `json:"type"`
	Value   any    `json:"value"`
}

func (JSONObjectCodec) Encode(v any, namer Namer) ([]byte, error) {
	name, err := namer.TypeNameOf(v)
	if err != nil {
		return nil, err
	}
	if _, isNull := v.(types.NullRef); isNull {
		v = nil
	}
	return json.Marshal(envelope{Format: objectFormat, Version: objectVersion, Type: name, Value: v})
}

func (JSONObjectCodec) Decode(data []byte, binder Binder) (any, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidObject, err)
	}
	if err := objectValidator.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidObject, err)
	}
	typeName, err := jsonparser.GetString(data, "type")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidObject, err)
	}
	raw, dataType, _, err := jsonparser.Get(data, "value")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidObject, err)
	}

	t, err := binder.BindToType(typeName)
	if err != nil {
		return nil, err
	}
	if t.Name == types.TypeNullRef || dataType == jsonparser.Null {
		return nil, nil
	}
	if dataType == jsonparser.String && t.FromString != nil {
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidObject, err)
		}
		return t.FromString(s)
	}
	if dataType == jsonparser.String {
		// jsonparser.Get strips the quotes of strings
		raw = append(append([]byte{'"'}, raw...), '"')
	}
	if t.GoType == nil || t.GoType.Kind() == reflect.Interface {
		var v any
		err = json.Unmarshal(raw, &v)
		return v, err
	}
	ptr := reflect.New(t.GoType)
	if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", t.Name, err)
	}
	return ptr.Elem().Interface(), nil
}
