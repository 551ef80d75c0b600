package commands

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/big"
	"mime"
	"strings"
	"time"

	"github.com/wot-oss/resx/internal/imaging"
	"github.com/wot-oss/resx/internal/model"
	"github.com/wot-oss/resx/internal/types"
	"github.com/wot-oss/resx/internal/utils"
)

const (
	MediaTypeText = "text/plain; charset=utf-8"
	MediaTypeJSON = "application/json"
	MediaTypePNG  = "image/png"

	mediaOctetStream = "application/octet-stream"

	maxDecimalDigits = 28
)

// Rendered is the byte representation of a value
type Rendered struct {
	MediaType string
	Data      []byte
}

// Ext returns a file name extension for the media type of the rendered value
func (r Rendered) Ext() string {
	mt, _, _ := mime.ParseMediaType(r.MediaType)
	switch mt {
	case "text/plain":
		return ".txt"
	case MediaTypePNG:
		return ".png"
	case MediaTypeJSON:
		return ".json"
	case mediaOctetStream:
		return ".bin"
	}
	if exts, err := mime.ExtensionsByType(mt); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// IsText reports whether the rendered value is human-readable text
func (r Rendered) IsText() bool {
	return strings.HasPrefix(r.MediaType, "text/")
}

// Render converts a value of the named type to bytes: strings and scalars to their invariant text form,
// byte arrays and streams to their content, images to PNG and everything else to JSON
func Render(v any, typeName string) (Rendered, error) {
	if s, ok := Text(v, typeName); ok {
		return Rendered{MediaType: MediaTypeText, Data: []byte(s)}, nil
	}
	switch t := v.(type) {
	case []byte:
		return binary(t), nil
	case *bytes.Reader:
		b, err := io.ReadAll(io.NewSectionReader(t, 0, t.Size()))
		if err != nil {
			return Rendered{}, err
		}
		return binary(b), nil
	case *imaging.Icon:
		return encodePNG(t.Image)
	case image.Image:
		return encodePNG(t)
	}
	b, err := utils.EncodeJSONWithoutEscapeHTML(v)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{MediaType: MediaTypeJSON, Data: b}, nil
}

func binary(b []byte) Rendered {
	return Rendered{MediaType: utils.DetectMediaType("", "", utils.ReadCloserGetterFromBytes(b)), Data: b}
}

func encodePNG(img image.Image) (Rendered, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Rendered{}, err
	}
	return Rendered{MediaType: MediaTypePNG, Data: buf.Bytes()}, nil
}

// Text returns the invariant text form of strings and scalar values. It returns false for values without one.
// The type name tells chars from 32 bit integers.
func Text(v any, typeName string) (string, bool) {
	if r, ok := v.(rune); ok && strings.HasPrefix(typeName, types.TypeChar+",") {
		return string(r), true
	}
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case bool:
		if t {
			return "True", true
		}
		return "False", true
	case int8, int16, int32, int64, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(t), true
	case *big.Rat:
		return decimalString(t), true
	case time.Time:
		return t.Format(time.RFC3339Nano), true
	case time.Duration:
		return t.String(), true
	case color.NRGBA:
		return fmt.Sprintf("#%02X%02X%02X%02X", t.A, t.R, t.G, t.B), true
	case image.Point:
		return fmt.Sprintf("%d, %d", t.X, t.Y), true
	case types.Size:
		return fmt.Sprintf("%d, %d", t.Width, t.Height), true
	case *model.FileRef:
		return t.String(), true
	case fmt.Stringer:
		return t.String(), true
	}
	return "", false
}

// decimalString renders r as a decimal fraction with the fewest digits that represent it exactly,
// rounding after maxDecimalDigits
func decimalString(r *big.Rat) string {
	for prec := 0; prec < maxDecimalDigits; prec++ {
		s := r.FloatString(prec)
		if p, ok := new(big.Rat).SetString(s); ok && p.Cmp(r) == 0 {
			return s
		}
	}
	return r.FloatString(maxDecimalDigits)
}
