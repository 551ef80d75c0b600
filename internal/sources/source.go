// Package sources opens containers and the files they reference from the local file system, HTTP servers or
// S3 buckets.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound      = errors.New("file not found")
	ErrInvalidLoc    = errors.New("invalid location")
	ErrSourceOp      = errors.New("operational error")
	ErrSourceUnknown = errors.New("unknown error")
)

const (
	SchemeS3    = "s3"
	SchemeHttp  = "http"
	SchemeHttps = "https"
)

// Source opens named files relative to its root
//
//go:generate mockery --name Source --outpkg sourcesmocks --output ../testutils/sourcesmocks
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Root returns the location names are resolved against
	Root() string
}

// Options configures the sources created by Parse
type Options struct {
	S3 S3Options
}

// Parse splits the location of a container into a source rooted at the container's directory and the
// container's name within it. Locations are local paths, http(s) URLs or s3://bucket/key URLs.
func Parse(ctx context.Context, loc string, opts Options) (Source, string, error) {
	if loc == "" {
		return nil, "", fmt.Errorf("%w: empty location", ErrInvalidLoc)
	}
	u, err := url.Parse(loc)
	if err != nil || !isRemoteScheme(u.Scheme) {
		// windows paths like C:\x parse as URLs with scheme "c"
		abs, err := filepath.Abs(loc)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrInvalidLoc, err)
		}
		return NewFileSource(filepath.Dir(abs)), filepath.Base(abs), nil
	}

	switch strings.ToLower(u.Scheme) {
	case SchemeS3:
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, "", fmt.Errorf("%w: s3 location must be s3://<bucket>/<key>: %s", ErrInvalidLoc, loc)
		}
		src, err := NewS3Source(ctx, u.Host, path.Dir(key), opts.S3)
		if err != nil {
			return nil, "", err
		}
		return src, path.Base(key), nil
	default:
		name := path.Base(u.Path)
		if name == "/" || name == "." {
			return nil, "", fmt.Errorf("%w: url does not name a file: %s", ErrInvalidLoc, loc)
		}
		root := *u
		root.Path = strings.TrimSuffix(path.Dir(u.Path), "/") + "/"
		root.RawQuery = ""
		root.Fragment = ""
		return NewHTTPSource(&root), name, nil
	}
}

func isRemoteScheme(s string) bool {
	switch strings.ToLower(s) {
	case SchemeS3, SchemeHttp, SchemeHttps:
		return true
	}
	return false
}

// slashPath converts names written with backslash separators to slash separated paths
func slashPath(name string) string {
	return strings.ReplaceAll(name, `\`, "/")
}
