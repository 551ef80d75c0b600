package types

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"io"
	"math/big"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wot-oss/resx/internal/imaging"
	"github.com/wot-oss/resx/internal/model"
	"golang.org/x/image/colornames"
	"golang.org/x/text/language"
)

const (
	TypeObject       = "System.Object"
	TypeString       = "System.String"
	TypeBoolean      = "System.Boolean"
	TypeChar         = "System.Char"
	TypeSByte        = "System.SByte"
	TypeByte         = "System.Byte"
	TypeInt16        = "System.Int16"
	TypeUInt16       = "System.UInt16"
	TypeInt32        = "System.Int32"
	TypeUInt32       = "System.UInt32"
	TypeInt64        = "System.Int64"
	TypeUInt64       = "System.UInt64"
	TypeSingle       = "System.Single"
	TypeDouble       = "System.Double"
	TypeDecimal      = "System.Decimal"
	TypeDateTime     = "System.DateTime"
	TypeTimeSpan     = "System.TimeSpan"
	TypeGuid         = "System.Guid"
	TypeByteArray    = "System.Byte[]"
	TypeMemoryStream = "System.IO.MemoryStream"
	TypeCultureInfo  = "System.Globalization.CultureInfo"
	TypeUri          = "System.Uri"
	TypeBitmap       = "System.Drawing.Bitmap"
	TypeIcon         = "System.Drawing.Icon"
	TypePoint        = "System.Drawing.Point"
	TypeSize         = "System.Drawing.Size"
	TypeColor        = "System.Drawing.Color"
	TypeNullRef      = "System.Resources.ResXNullRef"
	TypeFileRef      = "System.Resources.ResXFileRef"
)

var (
	MscorlibIdentity = MustParseIdentity("mscorlib, Version=4.0.0.0, Culture=neutral, PublicKeyToken=b77a5c561934e089")
	SystemIdentity   = MustParseIdentity("System, Version=4.0.0.0, Culture=neutral, PublicKeyToken=b77a5c561934e089")
	DrawingIdentity  = MustParseIdentity("System.Drawing.Common, Version=4.0.0.0, Culture=neutral, PublicKeyToken=b03f5f7f11d50a3a")
	FormsIdentity    = MustParseIdentity("System.Windows.Forms, Version=4.0.0.0, Culture=neutral, PublicKeyToken=b77a5c561934e089")
)

// NullRef is the value type of the null reference placeholder
type NullRef struct{}

// Size is the value type of System.Drawing.Size
type Size struct {
	Width, Height int
}

var (
	defaultUniverse     *Universe
	defaultUniverseOnce sync.Once
)

// DefaultUniverse returns the process-wide universe with the builtin assemblies
func DefaultUniverse() *Universe {
	defaultUniverseOnce.Do(func() {
		defaultUniverse = NewUniverse()
	})
	return defaultUniverse
}

// NewUniverse returns a new universe with the builtin assemblies registered
func NewUniverse() *Universe {
	u := NewEmptyUniverse()
	u.Register(mscorlib(), system(), drawing(), forms())
	u.Redirect("System.Drawing", DrawingIdentity.Name)
	return u
}

func mscorlib() *Assembly {
	return NewAssembly(MscorlibIdentity).Add(
		&Type{Name: TypeObject, GoType: reflect.TypeFor[any]()},
		&Type{Name: TypeString, GoType: reflect.TypeFor[string](), FromString: func(s string) (any, error) { return s, nil }},
		&Type{Name: TypeBoolean, GoType: reflect.TypeFor[bool](), FromString: parseBool},
		intType[int8](TypeSByte, 8),
		uintType[uint8](TypeByte, 8),
		intType[int16](TypeInt16, 16),
		uintType[uint16](TypeUInt16, 16),
		intType[int32](TypeInt32, 32),
		uintType[uint32](TypeUInt32, 32),
		intType[int64](TypeInt64, 64),
		uintType[uint64](TypeUInt64, 64),
		// rune is int32, so chars are registered after the integers to keep TypeOf(int32) an Int32
		&Type{Name: TypeChar, GoType: reflect.TypeFor[rune](), FromString: parseChar},
		&Type{Name: TypeSingle, GoType: reflect.TypeFor[float32](), FromString: func(s string) (any, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
			return float32(f), err
		}},
		&Type{Name: TypeDouble, GoType: reflect.TypeFor[float64](), FromString: func(s string) (any, error) {
			return strconv.ParseFloat(strings.TrimSpace(s), 64)
		}},
		&Type{Name: TypeDecimal, GoType: reflect.TypeFor[*big.Rat](), FromString: parseDecimal},
		&Type{Name: TypeDateTime, GoType: reflect.TypeFor[time.Time](), FromString: parseDateTime},
		&Type{Name: TypeTimeSpan, GoType: reflect.TypeFor[time.Duration](), FromString: func(s string) (any, error) {
			return ParseTimeSpan(s)
		}},
		&Type{Name: TypeGuid, GoType: reflect.TypeFor[uuid.UUID](), FromString: func(s string) (any, error) {
			return uuid.Parse(strings.TrimSpace(s))
		}},
		&Type{Name: TypeByteArray, GoType: reflect.TypeFor[[]byte](),
			FromString: func(s string) (any, error) {
				return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
			},
			FromBytes:  func(b []byte) (any, error) { return b, nil },
			FromStream: func(r io.Reader) (any, error) { return io.ReadAll(r) },
		},
		&Type{Name: TypeMemoryStream, GoType: reflect.TypeFor[*bytes.Reader](),
			FromBytes: func(b []byte) (any, error) { return bytes.NewReader(b), nil },
			FromStream: func(r io.Reader) (any, error) {
				b, err := io.ReadAll(r)
				if err != nil {
					return nil, err
				}
				return bytes.NewReader(b), nil
			},
		},
		&Type{Name: TypeCultureInfo, GoType: reflect.TypeFor[language.Tag](), FromString: func(s string) (any, error) {
			s = strings.TrimSpace(s)
			if s == "" {
				return language.Und, nil
			}
			return language.Parse(s)
		}},
	)
}

func system() *Assembly {
	return NewAssembly(SystemIdentity).Add(
		&Type{Name: TypeUri, GoType: reflect.TypeFor[*url.URL](), FromString: func(s string) (any, error) {
			return url.Parse(strings.TrimSpace(s))
		}},
	)
}

func drawing() *Assembly {
	return NewAssembly(DrawingIdentity).Add(
		&Type{Name: TypeBitmap, GoType: reflect.TypeFor[image.Image](),
			FromBytes: func(b []byte) (any, error) { return imaging.DecodeImage(bytes.NewReader(b)) },
			FromStream: func(r io.Reader) (any, error) {
				return imaging.DecodeImage(r)
			},
		},
		&Type{Name: TypeIcon, GoType: reflect.TypeFor[*imaging.Icon](),
			FromBytes: func(b []byte) (any, error) { return imaging.DecodeIcon(bytes.NewReader(b)) },
			FromStream: func(r io.Reader) (any, error) {
				return imaging.DecodeIcon(r)
			},
		},
		&Type{Name: TypePoint, GoType: reflect.TypeFor[image.Point](), FromString: parsePoint},
		&Type{Name: TypeSize, GoType: reflect.TypeFor[Size](), FromString: func(s string) (any, error) {
			p, err := parsePoint(s)
			if err != nil {
				return nil, err
			}
			pt := p.(image.Point)
			return Size{Width: pt.X, Height: pt.Y}, nil
		}},
		&Type{Name: TypeColor, GoType: reflect.TypeFor[color.NRGBA](), FromString: parseColor},
	)
}

func forms() *Assembly {
	return NewAssembly(FormsIdentity).Add(
		&Type{Name: TypeNullRef, GoType: reflect.TypeFor[NullRef]()},
		&Type{Name: TypeFileRef, GoType: reflect.TypeFor[*model.FileRef](), FromString: func(s string) (any, error) {
			ref, err := model.ParseFileRef(s)
			if err != nil {
				return nil, err
			}
			return ref, nil
		}},
	)
}

type signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

func intType[T signed](name string, bits int) *Type {
	return &Type{Name: name, GoType: reflect.TypeFor[T](), FromString: func(s string) (any, error) {
		s, base := intBase(s)
		if base == 16 {
			u, err := strconv.ParseUint(s, 16, bits)
			if err != nil {
				return nil, err
			}
			// hex literals denote the two's complement bit pattern
			return T(u), nil
		}
		i, err := strconv.ParseInt(s, 10, bits)
		if err != nil {
			return nil, err
		}
		return T(i), nil
	}}
}

func uintType[T unsigned](name string, bits int) *Type {
	return &Type{Name: name, GoType: reflect.TypeFor[T](), FromString: func(s string) (any, error) {
		s, base := intBase(s)
		u, err := strconv.ParseUint(s, base, bits)
		if err != nil {
			return nil, err
		}
		return T(u), nil
	}}
}

func intBase(s string) (string, int) {
	s = strings.TrimSpace(s)
	switch {
	case len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X" || s[:2] == "&h" || s[:2] == "&H"):
		return s[2:], 16
	case len(s) > 1 && s[0] == '#':
		return s[1:], 16
	}
	return strings.TrimPrefix(s, "+"), 10
}

func parseBool(s string) (any, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	}
	return nil, fmt.Errorf("%q is not a valid boolean", s)
}

func parseChar(s string) (any, error) {
	r := []rune(s)
	if len(r) != 1 {
		return nil, fmt.Errorf("%q is not a single character", s)
	}
	return r[0], nil
}

func parseDecimal(s string) (any, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, fmt.Errorf("%q is not a valid decimal", s)
	}
	return r, nil
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

func parseDateTime(s string) (any, error) {
	s = strings.TrimSpace(s)
	for _, l := range dateTimeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%q is not a valid date and time", s)
}

// ParseTimeSpan parses the invariant form of a time span: [-][d.]hh:mm[:ss[.fffffff]] or [-]d
func ParseTimeSpan(s string) (time.Duration, error) {
	orig := s
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	invalid := fmt.Errorf("%q is not a valid time span", orig)

	var days int64
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		d, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, invalid
		}
		return sign(neg, time.Duration(d)*24*time.Hour), nil
	}
	if dot := strings.IndexByte(s[:colon], '.'); dot >= 0 {
		d, err := strconv.ParseInt(s[:dot], 10, 64)
		if err != nil {
			return 0, invalid
		}
		days = d
		s = s[dot+1:]
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, invalid
	}
	var frac time.Duration
	if len(parts) == 3 {
		sec, f, found := strings.Cut(parts[2], ".")
		parts[2] = sec
		if found {
			if f == "" || len(f) > 7 {
				return 0, invalid
			}
			ticks, err := strconv.ParseInt(f+strings.Repeat("0", 7-len(f)), 10, 64)
			if err != nil {
				return 0, invalid
			}
			frac = time.Duration(ticks) * 100
		}
	}
	limits := []int64{23, 59, 59}
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	d := time.Duration(days) * 24 * time.Hour
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil || v < 0 || v > limits[i] {
			return 0, invalid
		}
		d += time.Duration(v) * units[i]
	}
	return sign(neg, d+frac), nil
}

func sign(neg bool, d time.Duration) time.Duration {
	if neg {
		return -d
	}
	return d
}

func parseInts(s string, n int) ([]int, error) {
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("%q: expected %d comma separated values", s, n)
	}
	res := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

func parsePoint(s string) (any, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return nil, err
	}
	return image.Pt(v[0], v[1]), nil
}

func parseColor(s string) (any, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		h, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return nil, err
		}
		switch len(s) - 1 {
		case 6:
			return color.NRGBA{R: uint8(h >> 16), G: uint8(h >> 8), B: uint8(h), A: 0xff}, nil
		case 8:
			return color.NRGBA{A: uint8(h >> 24), R: uint8(h >> 16), G: uint8(h >> 8), B: uint8(h)}, nil
		}
		return nil, fmt.Errorf("%q is not a valid color", s)
	}
	if strings.Contains(s, ",") {
		parts := strings.Count(s, ",") + 1
		v, err := parseInts(s, parts)
		if err != nil {
			return nil, err
		}
		for _, c := range v {
			if c < 0 || c > 255 {
				return nil, fmt.Errorf("%q: color component out of range", s)
			}
		}
		switch parts {
		case 3:
			return color.NRGBA{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2]), A: 0xff}, nil
		case 4:
			return color.NRGBA{A: uint8(v[0]), R: uint8(v[1]), G: uint8(v[2]), B: uint8(v[3])}, nil
		}
		return nil, fmt.Errorf("%q is not a valid color", s)
	}
	if strings.EqualFold(s, "Transparent") {
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return nil, fmt.Errorf("unknown color %q", s)
}
