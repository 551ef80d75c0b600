package utils

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetResxVersion(t *testing.T) {
	org := ResxVersion
	defer func() { ResxVersion = org }()

	ResxVersion = "v1.2.3"
	assert.Equal(t, "1.2.3", GetResxVersion())
	ResxVersion = "n/a"
	assert.Equal(t, "n/a", GetResxVersion())
}

func TestParseAsList(t *testing.T) {

	tests := []struct {
		in   string
		sep  string
		trim bool
		out  []string
	}{
		{"1,2,3,4,5", ",", true, []string{"1", "2", "3", "4", "5"}},
		{"1,2,3,4,5,4,3,1", ",", true, []string{"1", "2", "3", "4", "5", "4", "3", "1"}},
		{"1,2,3,,4,,5", ",", true, []string{"1", "2", "3", "4", "5"}},
		{"1, 2 ,3 ,4,5 ", ",", true, []string{"1", "2", "3", "4", "5"}},
		{"1, 2 ,3 ,4,5 ", ",", false, []string{"1", " 2 ", "3 ", "4", "5 "}},
		{"1,2,3,4,5", "/", true, []string{"1,2,3,4,5"}},
	}

	for i, test := range tests {
		assert.Equal(t, test.out, ParseAsList(test.in, test.sep, test.trim), "in test %d", i)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in  string
		exp string
	}{
		{in: "", exp: ""},
		{in: " ", exp: ""},
		{in: "&", exp: "-"},
		{in: "_", exp: "-"},
		{in: "=", exp: "-"},
		{in: "+", exp: "-"},
		{in: ":", exp: "-"},
		{in: "/", exp: "-"},
		{in: "a b&c=D+e:f/G", exp: "a-b-c-d-e-f-g"},
		{in: "a++:b", exp: "a-b"},
		{in: "a//b", exp: "a-b"},
		{in: "//a/b", exp: "-a-b"},
		{in: "a\\b", exp: "ab"},
		{in: "a#b", exp: "ab"},
		{in: " a b ", exp: "a-b"},
		{in: "äö/ôm/før mи", exp: "aeoe-om-foer-m"},
		{in: "a_b 123c", exp: "a-b-123c"},
		{in: "a\r\nb", exp: "ab"},
		{in: "Ñ-É-Þ", exp: "n-e-th"},
	}

	for i, test := range tests {
		out := SanitizeName(test.in)
		assert.Equal(t, test.exp, out, "failed for %s (test %d)", test.in, i)
	}
}

func TestDetectMediaType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	assert.Equal(t, "image/png", DetectMediaType("", "logo", ReadCloserGetterFromBytes(png)))
	assert.Equal(t, "text/plain; charset=utf-8", DetectMediaType("", "", ReadCloserGetterFromBytes([]byte("hello"))))
	assert.Equal(t, "application/json", DetectMediaType("application/json", "x.bin", ReadCloserGetterFromBytes(png)))
	assert.Equal(t, "application/octet-stream", DetectMediaType("", "", ReadCloserGetterFromBytes([]byte{0, 1, 2, 0xff})))
}

func TestAtomicWriteFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, AtomicWriteFile(name, []byte("first"), 0660))
	require.NoError(t, AtomicWriteFile(name, []byte("second"), 0660))

	b, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, err := ExpandHome("~/resources")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "resources"), p)

	p, err = ExpandHome("/abs/~x")
	require.NoError(t, err)
	assert.Equal(t, "/abs/~x", p)
}

func TestGetLogger(t *testing.T) {
	l := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.WithValue(context.Background(), CtxKeyLogger, l)

	assert.NotNil(t, GetLogger(ctx, "component"))
	assert.Equal(t, l, GetLogger(ctx, ""))
	assert.Equal(t, slog.Default(), GetLogger(context.Background(), ""))
}
