package resx

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/wot-oss/resx/internal/codec"
	"github.com/wot-oss/resx/internal/model"
	"github.com/wot-oss/resx/internal/types"
)

var ErrEmptyName = errors.New("resource name must not be empty")

// Kind tells which of the mutually exclusive states a Node is in
type Kind int

const (
	// KindValue nodes hold a value given at construction
	KindValue Kind = iota
	// KindFileRef nodes load their value from a referenced file on each access
	KindFileRef
	// KindRecord nodes decode their value from the raw record read from a container on each access
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindFileRef:
		return "fileref"
	case KindRecord:
		return "record"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// TypeNameConverter names types, e.g. to write names valid for another target framework
type TypeNameConverter func(t *types.Type) string

// env holds the collaborators a node needs to materialize its value. Nodes created by a reader share the reader's env.
type env struct {
	universe  *types.Universe
	resolver  types.TypeResolver
	decoder   *codec.Decoder
	files     *FileLoader
	converter TypeNameConverter
}

func defaultEnv() *env {
	u := types.DefaultUniverse()
	return &env{
		universe: u,
		resolver: types.NewResolver(types.WithUniverse(u)),
		decoder:  codec.NewDecoder(),
		files:    NewFileLoader(nil),
	}
}

func (e *env) qualifiedName(t *types.Type) string {
	if e.converter != nil {
		if n := e.converter(t); n != "" {
			return n
		}
	}
	return t.QualifiedName()
}

func (e *env) objectTypeName() string {
	if t, ok := e.universe.GetType(types.TypeObject); ok {
		return e.qualifiedName(t)
	}
	return types.TypeObject
}

type NodeOption func(*env)

// WithTypeNameConverter sets the function naming the types of directly constructed values
func WithTypeNameConverter(c TypeNameConverter) NodeOption {
	return func(e *env) {
		e.converter = c
	}
}

// WithNodeUniverse sets the universe used to name and resolve the types of a directly constructed node
func WithNodeUniverse(u *types.Universe) NodeOption {
	return func(e *env) {
		e.universe = u
		e.resolver = types.NewResolver(types.WithUniverse(u))
	}
}

// WithNodeFileOpener sets the opener used to load referenced files
func WithNodeFileOpener(o Opener) NodeOption {
	return func(e *env) {
		e.files = NewFileLoader(o)
	}
}

// Node is a named resource: a value given directly, a reference to a file, or a record read from a container.
// The values of file references and records are materialized on every call to Value, since the result may
// depend on the type resolver passed in.
type Node struct {
	kind Kind

	name     string
	comment  string
	typeName string
	value    any
	fileRef  *model.FileRef
	record   *model.Record

	env *env
}

// NewValueNode creates a node holding value. A *model.FileRef value creates a file reference node.
func NewValueNode(name string, value any, opts ...NodeOption) (*Node, error) {
	if ref, ok := value.(*model.FileRef); ok {
		return NewFileRefNode(name, ref, opts...)
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	n := &Node{kind: KindValue, name: name, value: value, env: nodeEnv(opts)}
	n.typeName = n.env.typeNameOf(value)
	return n, nil
}

// NewFileRefNode creates a node loading its value from the file referenced by ref
func NewFileRefNode(name string, ref *model.FileRef, opts ...NodeOption) (*Node, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if ref == nil {
		return nil, errors.New("file reference must not be nil")
	}
	if _, err := model.NewFileRef(ref.Path, ref.TypeName, ref.Encoding); err != nil {
		return nil, err
	}
	return &Node{kind: KindFileRef, name: name, fileRef: ref.Clone(), env: nodeEnv(opts)}, nil
}

func nodeEnv(opts []NodeOption) *env {
	e := defaultEnv()
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *env) typeNameOf(v any) string {
	if v == nil {
		if t, ok := e.universe.GetType(types.TypeNullRef); ok {
			return e.qualifiedName(t)
		}
		return types.TypeNullRef
	}
	if t, ok := e.universe.TypeOf(v); ok {
		return e.qualifiedName(t)
	}
	return reflect.TypeOf(v).String()
}

// newRecordNode creates the node for a record read by a reader. Records of the file reference type become
// file reference nodes; relative paths are resolved against basePath.
func newRecordNode(rec *model.Record, basePath string, e *env) (*Node, error) {
	n := &Node{kind: KindRecord, record: rec, env: e}
	if !strings.Contains(rec.TypeName, "ResXFileRef") {
		return n, nil
	}
	ref, err := model.ParseFileRef(rec.Payload)
	if err != nil {
		return nil, model.NewInvalidFormatError(rec.Position, "entry %q: %w", rec.Name, err)
	}
	if basePath != "" && !isRooted(ref.Path) {
		ref.Path = filepath.Join(basePath, ref.Path)
	}
	n.kind = KindFileRef
	n.fileRef = ref
	return n, nil
}

// isRooted reports whether p is absolute on any platform, i.e. starts with a separator or a drive letter
func isRooted(p string) bool {
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return true
	}
	return len(p) >= 2 && p[1] == ':' && ('a' <= p[0] && p[0] <= 'z' || 'A' <= p[0] && p[0] <= 'Z')
}

func (n *Node) Kind() Kind {
	return n.kind
}

// Name returns the name set on the node, or the name of the backing record
func (n *Node) Name() string {
	if n.name == "" && n.record != nil {
		return n.record.Name
	}
	return n.name
}

func (n *Node) SetName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	n.name = name
	return nil
}

// Comment returns the comment set on the node, or the comment of the backing record
func (n *Node) Comment() string {
	if n.comment == "" && n.record != nil {
		return n.record.Comment
	}
	return n.comment
}

func (n *Node) SetComment(comment string) {
	n.comment = comment
}

// FileRef returns a copy of the file reference of the node, or nil if the node does not reference a file
func (n *Node) FileRef() *model.FileRef {
	return n.fileRef.Clone()
}

// Position returns the position of the node's element in the container. It is zero for constructed nodes.
func (n *Node) Position() model.Position {
	if n.record == nil {
		return model.Position{}
	}
	return n.record.Position
}

// Record returns a copy of the raw record backing the node, or nil for constructed nodes
func (n *Node) Record() *model.Record {
	return n.record.Clone()
}

// Clone returns a deep copy of the node. Directly held values are shared.
func (n *Node) Clone() *Node {
	c := *n
	c.fileRef = n.fileRef.Clone()
	c.record = n.record.Clone()
	return &c
}

// Value materializes the node's value. Types are resolved with r first, if given, and then with the resolver
// of the reader which created the node.
func (n *Node) Value(r types.TypeResolver) (any, error) {
	switch n.kind {
	case KindValue:
		return n.value, nil
	case KindFileRef:
		t, err := n.resolveType(n.fileRef.TypeName, r)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, &model.TypeResolutionError{TypeName: n.fileRef.TypeName, Position: n.Position()}
		}
		v, err := n.env.files.Load(n.fileRef, t)
		if err != nil {
			var ce *model.ConversionError
			if errors.As(err, &ce) && ce.Position.IsZero() {
				ce.Position = n.Position()
			}
			return nil, err
		}
		return v, nil
	case KindRecord:
		if !n.record.HasPayload {
			return nil, nil
		}
		return n.env.decoder.Decode(n.resolver(r), n.record.TypeName, n.record.MimeType, n.record.Payload, n.record.Position)
	}
	return nil, fmt.Errorf("unknown node kind %v", n.kind)
}

// ValueTypeName returns the assembly-qualified name of the type of the node's value. Names which cannot be
// resolved are returned as declared. Entries without type name but with a mime type are decoded to learn
// the type of their value.
func (n *Node) ValueTypeName(r types.TypeResolver) string {
	switch n.kind {
	case KindValue:
		if strings.HasPrefix(n.typeName, types.TypeNullRef) {
			return n.env.objectTypeName()
		}
		return n.typeName
	case KindFileRef:
		t, _ := n.resolveType(n.fileRef.TypeName, r)
		if t == nil {
			return n.fileRef.TypeName
		}
		return n.nameOf(t)
	case KindRecord:
		if n.record.TypeName != "" {
			t, _ := n.resolveType(n.record.TypeName, r)
			if t == nil {
				return n.record.TypeName
			}
			return n.nameOf(t)
		}
		if n.record.MimeType == "" {
			t, ok := n.env.universe.GetType(types.TypeString)
			if !ok {
				return types.TypeString
			}
			return n.env.qualifiedName(t)
		}
		v, err := n.Value(r)
		if err != nil || v == nil {
			return n.env.objectTypeName()
		}
		return n.env.typeNameOf(v)
	}
	return ""
}

func (n *Node) nameOf(t *types.Type) string {
	if t.Name == types.TypeNullRef {
		return n.env.objectTypeName()
	}
	return n.env.qualifiedName(t)
}

// resolveType resolves typeName with r, also in its short form of type and simple assembly name, and then
// with the node's own resolver. It returns nil if the name does not resolve.
func (n *Node) resolveType(typeName string, r types.TypeResolver) (*types.Type, error) {
	if r != nil {
		t, err := r.ResolveType(typeName, false)
		if err != nil {
			return nil, err
		}
		if t != nil {
			return t, nil
		}
		if short := types.FirstSegments(typeName, 2); short != typeName {
			t, err = r.ResolveType(short, false)
			if err != nil {
				return nil, err
			}
			if t != nil {
				return t, nil
			}
		}
	}
	return n.env.resolver.ResolveType(typeName, false)
}

// resolver returns the resolver used by the decoder, combining r with the node's own resolver
func (n *Node) resolver(r types.TypeResolver) types.TypeResolver {
	return types.ResolverFunc(func(typeName string, throwOnFailure bool) (*types.Type, error) {
		t, err := n.resolveType(typeName, r)
		if err != nil {
			return nil, err
		}
		if t == nil && throwOnFailure {
			return nil, &model.TypeResolutionError{TypeName: typeName}
		}
		return t, nil
	})
}
