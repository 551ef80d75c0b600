package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/wot-oss/resx/internal/config"
	"github.com/wot-oss/resx/internal/utils"
)

var httpTransport http.RoundTripper
var once sync.Once

func getCachingTransport() http.RoundTripper {
	once.Do(func() {
		if config.ConfigDir == "" { // this is probably a test run, but even if it isn't, we don't want to write the cache in the working directory
			httpTransport = http.DefaultTransport
			return
		}
		cacheDir := filepath.Join(config.ConfigDir, ".http-cache")
		err := os.MkdirAll(cacheDir, 0770)
		if err != nil {
			panic(err)
		}
		cache := diskcache.New(cacheDir)
		httpTransport = httpcache.NewTransport(cache)
	})
	return httpTransport
}

// HTTPSource fetches files below a root URL. Responses are cached on disk in the config directory.
type HTTPSource struct {
	root   *url.URL
	client *http.Client
}

func NewHTTPSource(root *url.URL) *HTTPSource {
	return &HTTPSource{
		root:   root,
		client: &http.Client{Transport: getCachingTransport()},
	}
}

func (h *HTTPSource) Root() string {
	return h.root.String()
}

func (h *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	ref, err := url.Parse(strings.TrimPrefix(slashPath(name), "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLoc, err)
	}
	u := h.root.ResolveReference(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	utils.GetLogger(ctx, "HTTPSource").Debug("fetching", "url", u.String())
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceOp, err)
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, nil
	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, u.String())
	default:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status code %d from %s", ErrSourceUnknown, resp.StatusCode, u.String())
	}
}
