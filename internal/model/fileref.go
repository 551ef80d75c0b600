package model

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
)

// FileRef is a reference from a container entry to an external file, which is loaded when the entry's value
// is requested.
type FileRef struct {
	// Path of the referenced file. Relative paths are resolved against the reader's base path
	Path string
	// TypeName is the name of the type the file content is converted to
	TypeName string
	// Encoding is the optional label of the text encoding used when TypeName denotes a string
	Encoding string
}

var errEmptyFileRefField = errors.New("file reference requires a path and a type name")

// NewFileRef creates a file reference. Path and typeName must not be empty
func NewFileRef(path, typeName, encoding string) (*FileRef, error) {
	if path == "" || typeName == "" {
		return nil, NewInvalidFormatError(Position{}, "%w", errEmptyFileRefField)
	}
	return &FileRef{Path: path, TypeName: typeName, Encoding: encoding}, nil
}

// ParseFileRef parses the textual form of a file reference: <path>;<typeName>[;<encoding>].
// The path must be enclosed in double quotes if it contains a semicolon or a double quote.
func ParseFileRef(s string) (*FileRef, error) {
	s = strings.TrimSpace(s)
	var path, rest string
	if strings.HasPrefix(s, `"`) {
		lastQuote := strings.LastIndex(s, `"`)
		if lastQuote < 1 {
			return nil, NewInvalidFormatError(Position{}, "unterminated quote in file reference %q", s)
		}
		path = s[1:lastQuote]
		if lastQuote+2 > len(s) || s[lastQuote+1] != ';' {
			return nil, NewInvalidFormatError(Position{}, "missing type name in file reference %q", s)
		}
		rest = s[lastQuote+2:]
	} else {
		var found bool
		path, rest, found = strings.Cut(s, ";")
		if !found {
			return nil, NewInvalidFormatError(Position{}, "missing semicolon in file reference %q", s)
		}
	}
	parts := strings.Split(rest, ";")
	ref := &FileRef{Path: path, TypeName: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		ref.Encoding = strings.TrimSpace(parts[1])
	}
	if ref.Path == "" || ref.TypeName == "" {
		return nil, NewInvalidFormatError(Position{}, "%w: %q", errEmptyFileRefField, s)
	}
	return ref, nil
}

// String renders the reference in the form accepted by ParseFileRef
func (f *FileRef) String() string {
	var b strings.Builder
	if strings.ContainsAny(f.Path, `;"`) {
		b.WriteString(`"` + f.Path + `";`)
	} else {
		b.WriteString(f.Path + ";")
	}
	b.WriteString(f.TypeName)
	if f.Encoding != "" {
		b.WriteString(";" + f.Encoding)
	}
	return b.String()
}

func (f *FileRef) Clone() *FileRef {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// MakeRelative returns a copy of the reference whose path is expressed relative to basePath.
// Path components are compared case-insensitively.
func (f *FileRef) MakeRelative(basePath string) *FileRef {
	c := f.Clone()
	if basePath == "" {
		return c
	}
	c.Path = pathDifference(basePath, f.Path)
	return c
}

// pathDifference returns the relative path p such that joining base and p yields target
func pathDifference(base, target string) string {
	const sep = filepath.Separator
	if !strings.HasSuffix(base, string(sep)) {
		base += string(sep)
	}
	i, si := 0, -1
	for ; i < len(base) && i < len(target); i++ {
		if base[i] != target[i] && unicode.ToLower(rune(base[i])) != unicode.ToLower(rune(target[i])) {
			break
		}
		if base[i] == sep {
			si = i
		}
	}
	if i == 0 {
		return target
	}
	if i == len(base) && i == len(target) {
		return ""
	}
	var rel strings.Builder
	for ; i < len(base); i++ {
		if base[i] == sep {
			rel.WriteString(".." + string(sep))
		}
	}
	return rel.String() + target[si+1:]
}
