package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/wot-oss/resx/internal/resx"
	"github.com/wot-oss/resx/internal/utils"
)

const (
	ManifestFilename = "resx-manifest.json"
	extractLockFile  = ".resx-extract.lock"

	extractLockTimeout    = 5 * time.Second
	extractLockRetryDelay = 50 * time.Millisecond

	defaultDirPermissions  = 0775
	defaultFilePermissions = 0664
)

var ErrOutputLocked = errors.New("output directory is locked by another extraction")

// ExtractedFile is an entry of the extraction manifest
type ExtractedFile struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	Type      string `json:"type"`
	MediaType string `json:"mediaType"`
	Comment   string `json:"comment,omitempty"`
}

// EntryError records an entry whose value could not be extracted
type EntryError struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

func (e EntryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e EntryError) Unwrap() error {
	return e.Err
}

type ExtractResult struct {
	Files  []ExtractedFile `json:"files"`
	Errors []EntryError    `json:"-"`
}

// Extract writes the value of every data entry matching filter to its own file in outDir, followed by a
// manifest mapping entry names to files. Entries whose values fail to materialize are reported in the result
// and skipped. Concurrent extractions into the same directory are serialized with a lock file.
func Extract(ctx context.Context, r *resx.Reader, outDir string, filter Filter) (ExtractResult, error) {
	log := utils.GetLogger(ctx, "commands.Extract")
	nodes, err := nodes(r, false)
	if err != nil {
		return ExtractResult{}, err
	}
	if err := os.MkdirAll(outDir, defaultDirPermissions); err != nil {
		return ExtractResult{}, err
	}
	unlock, err := lockOutput(ctx, outDir)
	defer unlock()
	if err != nil {
		return ExtractResult{}, err
	}

	match := filter.matcher()
	var res ExtractResult
	taken := map[string]bool{ManifestFilename: true}
	for _, e := range nodes {
		n := e.node
		if !match(n.Name()) {
			continue
		}
		typeName := n.ValueTypeName(nil)
		v, err := n.Value(nil)
		if err != nil {
			log.Warn("cannot materialize value", "entry", n.Name(), "error", err)
			res.Errors = append(res.Errors, EntryError{Name: n.Name(), Err: err})
			continue
		}
		rendered, err := Render(v, typeName)
		if err != nil {
			res.Errors = append(res.Errors, EntryError{Name: n.Name(), Err: err})
			continue
		}
		file := uniqueFileName(fileBaseName(n.Name()), rendered.Ext(), taken)
		if err := utils.AtomicWriteFile(filepath.Join(outDir, file), rendered.Data, defaultFilePermissions); err != nil {
			return res, err
		}
		log.Debug("extracted entry", "entry", n.Name(), "file", file)
		res.Files = append(res.Files, ExtractedFile{
			Name:      n.Name(),
			File:      file,
			Type:      typeName,
			MediaType: rendered.MediaType,
			Comment:   n.Comment(),
		})
	}

	manifest, err := utils.EncodeJSONWithoutEscapeHTML(res)
	if err != nil {
		return res, err
	}
	if err := utils.AtomicWriteFile(filepath.Join(outDir, ManifestFilename), manifest, defaultFilePermissions); err != nil {
		return res, err
	}
	return res, nil
}

type unlockFunc func()

func lockOutput(ctx context.Context, outDir string) (unlockFunc, error) {
	fl := flock.New(filepath.Join(outDir, extractLockFile))
	ctx, cancel := context.WithTimeout(ctx, extractLockTimeout)
	unlock := func() {
		cancel()
		_ = fl.Unlock()
	}
	locked, err := fl.TryLockContext(ctx, extractLockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return unlock, err
	}
	if !locked {
		return unlock, ErrOutputLocked
	}
	return unlock, nil
}

func fileBaseName(entryName string) string {
	n := utils.SanitizeName(strings.ReplaceAll(entryName, ".", "-"))
	n = strings.Trim(n, "-")
	if n == "" {
		return "entry"
	}
	return n
}

func uniqueFileName(base, ext string, taken map[string]bool) string {
	name := base + ext
	for i := 2; taken[name]; i++ {
		name = base + "-" + strconv.Itoa(i) + ext
	}
	taken[name] = true
	return name
}
