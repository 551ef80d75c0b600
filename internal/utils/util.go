package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ResxVersion is set at build time with -ldflags "-X github.com/wot-oss/resx/internal/utils.ResxVersion=v1.2.3"
var ResxVersion = "n/a"

// GetResxVersion returns the version without a leading "v", or the raw value if it is not a semantic version
func GetResxVersion() string {
	v, err := semver.NewVersion(ResxVersion)
	if err != nil {
		return ResxVersion
	}
	return strings.TrimPrefix(v.Original(), "v")
}

// ExpandHome expands ~ in path with user's home directory, but only if path begins with ~ or /~
// Otherwise, returns path unchanged
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") && !strings.HasPrefix(path, "/~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand user home directory: %w", err)
	}
	_, rest, found := strings.Cut(path, "~")
	if !found {
		panic(errors.New("should have checked for ~ before"))
	}
	return filepath.Join(home, rest), nil
}

func EncodeJSONWithoutEscapeHTML(v any) ([]byte, error) {
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("unexpected encoding error %w", err)
	}
	return buffer.Bytes(), nil
}

// AtomicWriteFile writes data to the named file quasi-atomically, creating it if necessary.
// On unix-like systems, the function uses github.com/google/renameio.
// On Windows, it has a simpler implementation using os.Rename(), which is believed to be atomic on NTFS,
// but there is no hard guarantee from Microsoft on that.
func AtomicWriteFile(name string, data []byte, perm os.FileMode) error {
	return atomicWriteFile(name, data, perm)
}

func ParseAsList(list, separator string, trim bool) []string {
	ret := make([]string, 0)

	for _, entry := range strings.Split(list, separator) {
		if trim {
			entry = strings.TrimSpace(entry)
		}
		if entry != "" {
			ret = append(ret, entry)
		}
	}
	return ret
}

var (
	removableChars   = regexp.MustCompile(`[^\[a-zA-Z0-9-]`)
	replaceableChars = regexp.MustCompile(`[ &_=+:/]`)
	dashes           = regexp.MustCompile(`[\-]+`)

	accents = map[rune]string{
		'à': "a",
		'á': "a",
		'â': "a",
		'ã': "a",
		'ä': "ae",
		'å': "aa",
		'æ': "ae",
		'ç': "c",
		'è': "e",
		'é': "e",
		'ê': "e",
		'ë': "e",
		'ì': "i",
		'í': "i",
		'î': "i",
		'ï': "i",
		'ð': "d",
		'ł': "l",
		'ñ': "n",
		'ń': "n",
		'ò': "o",
		'ó': "o",
		'ô': "o",
		'õ': "o",
		'ō': "o",
		'ö': "oe",
		'ø': "oe",
		'œ': "oe",
		'ś': "s",
		'ù': "u",
		'ú': "u",
		'û': "u",
		'ū': "u",
		'ü': "ue",
		'ý': "y",
		'ÿ': "y",
		'ż': "z",
		'þ': "th",
		'ß': "ss",
	}
)

func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return name
	}
	name = strings.ToLower(name)
	name = replaceableChars.ReplaceAllString(name, "-")
	name = sanitizeAccents(name)
	name = removableChars.ReplaceAllString(name, "")
	name = dashes.ReplaceAllString(name, "-")
	return name
}

func sanitizeAccents(s string) string {
	bs := bytes.NewBufferString("")
	for _, c := range s {
		if val, ok := accents[c]; ok {
			bs.WriteString(val)
		} else {
			bs.WriteRune(c)
		}
	}
	return bs.String()
}

type ReadCloserGetter func() (io.ReadCloser, error)

func ReadCloserGetterFromBytes(raw []byte) ReadCloserGetter {
	return func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewBuffer(raw)), nil }
}

// DetectMediaType detects the media type of the file. The type provided by the user always takes precedence over
// automatic detection, unless it is empty. The type is detected by http.DetectContentType. If that returns the
// generic 'application/octet-stream', then the type is guessed from the filename extension.
// If all of the above fails, it returns 'application/octet-stream'
func DetectMediaType(userGivenType string, filename string, getReader ReadCloserGetter) string {
	const mediaOctetStream = "application/octet-stream"
	if userGivenType != "" {
		return userGivenType
	}

	reader, err := getReader()
	if err == nil {
		defer reader.Close()
		truncatedContent, err := io.ReadAll(io.LimitReader(reader, 512))
		if err == nil {
			ct := http.DetectContentType(truncatedContent)
			if ct != mediaOctetStream {
				return ct
			}
		}
	}

	ct := mime.TypeByExtension(filepath.Ext(filename))
	if ct != "" {
		return ct
	}
	return mediaOctetStream
}

const CtxKeyLogger = "logger"

// GetLogger returns the logger that is valid in the context
// If component is not empty, the logger is extended with the field "where" having that value.
func GetLogger(ctx context.Context, component string) *slog.Logger {
	cv := ctx.Value(CtxKeyLogger)
	l, ok := cv.(*slog.Logger)
	if !ok || l == nil {
		l = slog.Default()
	}
	if component != "" {
		l = l.With("where", component)
	}
	return l
}
