package resx

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wot-oss/resx/internal/imaging"
	"github.com/wot-oss/resx/internal/model"
	"github.com/wot-oss/resx/internal/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Opener opens referenced files for reading
type Opener func(name string) (io.ReadCloser, error)

func osOpen(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// FileLoader materializes the values of file references. Each Load opens the referenced file and closes it
// before returning.
type FileLoader struct {
	open Opener
}

// NewFileLoader returns a loader opening files with open, or from the local file system if open is nil
func NewFileLoader(open Opener) *FileLoader {
	if open == nil {
		open = osOpen
	}
	return &FileLoader{open: open}
}

// Load reads the file referenced by ref and converts its content to a value of type t:
// strings are decoded with the reference's encoding (UTF-8 by default, byte order marks take precedence),
// byte arrays and memory streams hold the raw content, icon files requested as bitmaps are decoded as icons,
// and all other types are created from the file stream.
func (l *FileLoader) Load(ref *model.FileRef, t *types.Type) (any, error) {
	path := normalizePath(ref.Path)
	f, err := l.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch t.Name {
	case types.TypeString:
		enc, err := textEncoding(ref.Encoding)
		if err != nil {
			return nil, &model.ConversionError{TypeName: ref.TypeName, Err: err}
		}
		b, err := io.ReadAll(transform.NewReader(f, unicode.BOMOverride(enc.NewDecoder())))
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case types.TypeByteArray:
		return io.ReadAll(f)
	case types.TypeMemoryStream:
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(b), nil
	case types.TypeBitmap:
		if strings.EqualFold(filepath.Ext(path), ".ico") {
			icon, err := imaging.DecodeIcon(f)
			if err != nil {
				return nil, &model.ConversionError{TypeName: ref.TypeName, Err: err}
			}
			return icon, nil
		}
	}

	if t.FromStream == nil {
		return nil, &model.ConversionError{TypeName: ref.TypeName, Err: fmt.Errorf("type %s cannot be created from a file", t.Name)}
	}
	v, err := t.FromStream(f)
	if err != nil {
		return nil, &model.ConversionError{TypeName: ref.TypeName, Err: err}
	}
	return v, nil
}

func textEncoding(label string) (encoding.Encoding, error) {
	if label == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported text encoding %q: %w", label, err)
	}
	return enc, nil
}

// normalizePath converts the separators of paths written on other platforms
func normalizePath(p string) string {
	if filepath.Separator == '/' {
		p = strings.ReplaceAll(p, `\`, "/")
	}
	return filepath.Clean(p)
}
