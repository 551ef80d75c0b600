package sources

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// FileSource opens files from the local file system. Relative names are resolved against its root directory.
type FileSource struct {
	root string
}

func NewFileSource(root string) *FileSource {
	return &FileSource{root: root}
}

func (f *FileSource) Root() string {
	return f.root
}

// Open opens the named file. Errors of the file system are returned unchanged.
func (f *FileSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	p := filepath.FromSlash(slashPath(name))
	if !filepath.IsAbs(p) {
		p = filepath.Join(f.root, p)
	}
	return os.Open(p)
}
