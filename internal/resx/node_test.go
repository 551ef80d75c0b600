package resx

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wot-oss/resx/internal/model"
	"github.com/wot-oss/resx/internal/types"
)

func qualified(name string) string {
	t, ok := types.DefaultUniverse().GetType(name)
	if !ok {
		panic("unknown builtin type " + name)
	}
	return t.QualifiedName()
}

func TestNewValueNode(t *testing.T) {
	n, err := NewValueNode("answer", int32(42))
	require.NoError(t, err)

	assert.Equal(t, KindValue, n.Kind())
	assert.Equal(t, "answer", n.Name())
	assert.True(t, n.Position().IsZero())
	assert.Nil(t, n.Record())
	assert.Nil(t, n.FileRef())
	v, err := n.Value(nil)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)
	assert.Equal(t, qualified(types.TypeInt32), n.ValueTypeName(nil))
}

func TestNewValueNode_Nil(t *testing.T) {
	n, err := NewValueNode("nothing", nil)
	require.NoError(t, err)

	v, err := n.Value(nil)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, qualified(types.TypeObject), n.ValueTypeName(nil))
}

func TestNewValueNode_UnregisteredType(t *testing.T) {
	type custom struct{ A int }
	n, err := NewValueNode("c", custom{A: 1})
	require.NoError(t, err)

	assert.Equal(t, "resx.custom", n.ValueTypeName(nil))
}

func TestNewValueNode_TypeNameConverter(t *testing.T) {
	n, err := NewValueNode("s", "text", WithTypeNameConverter(func(t *types.Type) string {
		return t.Name + ", netstandard"
	}))
	require.NoError(t, err)

	assert.Equal(t, "System.String, netstandard", n.ValueTypeName(nil))
}

func TestNewValueNode_EmptyName(t *testing.T) {
	_, err := NewValueNode("", "x")
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = NewFileRefNode("", &model.FileRef{Path: "a", TypeName: "System.String"})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestNewValueNode_FileRefValue(t *testing.T) {
	dir := writeFiles(t, map[string][]byte{"a.txt": []byte("from file")})
	ref := &model.FileRef{Path: filepath.Join(dir, "a.txt"), TypeName: "System.String, mscorlib"}

	n, err := NewValueNode("a", ref)

	require.NoError(t, err)
	assert.Equal(t, KindFileRef, n.Kind())
	v, err := n.Value(nil)
	require.NoError(t, err)
	assert.Equal(t, "from file", v)
	assert.Equal(t, qualified(types.TypeString), n.ValueTypeName(nil))

	ref.Path = "changed"
	assert.Equal(t, filepath.Join(dir, "a.txt"), n.FileRef().Path, "node keeps its own copy")
}

func TestNewFileRefNode_Invalid(t *testing.T) {
	_, err := NewFileRefNode("a", nil)
	assert.Error(t, err)
	_, err = NewFileRefNode("a", &model.FileRef{Path: "a.txt"})
	assert.ErrorIs(t, err, model.ErrInvalidFormat)
}

func TestNewFileRefNode_Opener(t *testing.T) {
	var opened string
	n, err := NewFileRefNode("a", &model.FileRef{Path: `dir\a.bin`, TypeName: "System.Byte[], mscorlib"},
		WithNodeFileOpener(func(name string) (io.ReadCloser, error) {
			opened = name
			return io.NopCloser(strings.NewReader("xyz")), nil
		}))
	require.NoError(t, err)

	v, err := n.Value(nil)

	require.NoError(t, err)
	assert.Equal(t, []byte("xyz"), v)
	assert.Equal(t, filepath.Join("dir", "a.bin"), opened)
}

func TestNode_ValueTypeNameOfRecords(t *testing.T) {
	r := FromString(container(`
  <data name="int" type="System.Int32, mscorlib"><value>1</value></data>
  <data name="str"><value>s</value></data>
  <data name="unknown" type="Acme.Thing, Acme"><value>s</value></data>
  <data name="null" type="System.Resources.ResXNullRef, System.Windows.Forms"><value></value></data>
  <data name="unknownMime" mimetype="text/x-whatever"><value>s</value></data>`), WithNodes(true))

	entries, err := r.Entries()
	require.NoError(t, err)
	got := map[string]string{}
	for _, e := range entries {
		assert.Equal(t, KindRecord, e.Node.Kind())
		got[e.Name] = e.Node.ValueTypeName(nil)
	}

	assert.Equal(t, map[string]string{
		"int":         qualified(types.TypeInt32),
		"str":         qualified(types.TypeString),
		"unknown":     "Acme.Thing, Acme",
		"null":        qualified(types.TypeObject),
		"unknownMime": qualified(types.TypeObject),
	}, got)
}

func TestNode_NameAndCommentOverrides(t *testing.T) {
	r := FromString(container(`
  <data name="a"><value>1</value><comment>c</comment></data>`), WithNodes(true))
	entries, err := r.Entries()
	require.NoError(t, err)
	n := entries[0].Node

	require.NoError(t, n.SetName("renamed"))
	n.SetComment("new comment")

	assert.Equal(t, "renamed", n.Name())
	assert.Equal(t, "new comment", n.Comment())
	assert.Equal(t, "a", n.Record().Name)
	assert.Equal(t, "c", n.Record().Comment)
	assert.ErrorIs(t, n.SetName(""), ErrEmptyName)
}

func TestNode_Clone(t *testing.T) {
	dir := writeFiles(t, map[string][]byte{"a.txt": []byte("x")})
	r := FromString(container(`
  <data name="f" `+fileRefType+`><value>a.txt;System.String</value></data>`), WithBasePath(dir), WithNodes(true))
	entries, err := r.Entries()
	require.NoError(t, err)
	orig := entries[0].Node

	c := orig.Clone()
	require.NoError(t, c.SetName("copy"))
	c.fileRef.Path = "elsewhere"
	c.record.Payload = "changed"

	assert.Equal(t, "f", orig.Name())
	assert.Equal(t, filepath.Join(dir, "a.txt"), orig.FileRef().Path)
	assert.Equal(t, "a.txt;System.String", orig.Record().Payload)
}

func TestNode_RecordIsACopy(t *testing.T) {
	r := FromString(container(`
  <data name="a"><value>1</value></data>`), WithNodes(true))
	entries, err := r.Entries()
	require.NoError(t, err)
	n := entries[0].Node

	rec := n.Record()
	rec.Payload = "2"

	v, err := n.Value(nil)
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestIsRooted(t *testing.T) {
	assert.True(t, isRooted("/abs/path"))
	assert.True(t, isRooted(`\share\x`))
	assert.True(t, isRooted(`C:\x`))
	assert.True(t, isRooted("d:/x"))
	assert.False(t, isRooted("rel/x"))
	assert.False(t, isRooted(`rel\x`))
	assert.False(t, isRooted("1:x"))
}

func TestFileLoader_BitmapFromIcon(t *testing.T) {
	dir := writeFiles(t, map[string][]byte{"broken.ico": []byte("not an icon")})
	l := NewFileLoader(nil)
	bitmap, ok := types.DefaultUniverse().GetType(types.TypeBitmap)
	require.True(t, ok)

	_, err := l.Load(&model.FileRef{Path: filepath.Join(dir, "broken.ico"), TypeName: types.TypeBitmap}, bitmap)

	assert.ErrorIs(t, err, &model.ConversionError{})
}
