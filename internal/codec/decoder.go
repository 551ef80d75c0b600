// Package codec decodes the raw payloads of resource entries into values.
package codec

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"

	"github.com/wot-oss/resx/internal/imaging"
	"github.com/wot-oss/resx/internal/model"
	"github.com/wot-oss/resx/internal/types"
)

const (
	MimeBinarySerialized       = "application/x-microsoft.net.object.binary.base64"
	MimeBeta2CompatSerialized  = "text/microsoft-urt/psuedoml-serialized/base64"
	MimeCompatBinarySerialized = "text/microsoft-urt/binary-serialized/base64"
	MimeByteArraySerialized    = "application/x-microsoft.net.object.bytearray.base64"
)

const (
	byteArrayMarker = "System.Byte[]"
	byteArrayOwner  = "mscorlib"
)

// IsObjectMimeType reports whether mimeType denotes a payload decoded by an ObjectCodec
func IsObjectMimeType(mimeType string) bool {
	switch mimeType {
	case MimeBinarySerialized, MimeBeta2CompatSerialized, MimeCompatBinarySerialized:
		return true
	}
	return false
}

// IsByteArrayTypeName reports whether typeName denotes the byte array type of any version
func IsByteArrayTypeName(typeName string) bool {
	return strings.Contains(typeName, byteArrayMarker) && strings.Contains(typeName, byteArrayOwner)
}

// Decoder decodes entry payloads according to their mime type and type name
type Decoder struct {
	objects ObjectCodec
	log     *slog.Logger
}

type DecoderOption func(*Decoder)

func WithObjectCodec(c ObjectCodec) DecoderOption {
	return func(d *Decoder) {
		d.objects = c
	}
}

func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		objects: JSONObjectCodec{},
		log:     slog.Default().With("where", "codec"),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ObjectCodec returns the codec used for opaque object payloads
func (d *Decoder) ObjectCodec() ObjectCodec {
	return d.objects
}

// Decode decodes a payload. Failures are reported as *model.TypeResolutionError or *model.ConversionError
// located at pos. A resolved type without string conversion is not an error: the payload is left undecoded
// and the value is nil.
func (d *Decoder) Decode(r types.TypeResolver, typeName, mimeType, payload string, pos model.Position) (any, error) {
	if mimeType != "" {
		return d.decodeMime(r, typeName, mimeType, payload, pos)
	}
	if typeName == "" {
		return payload, nil
	}
	if IsByteArrayTypeName(typeName) {
		b, err := FromBase64Wrapped(payload)
		if err != nil {
			return nil, &model.ConversionError{TypeName: typeName, Position: pos, Err: err}
		}
		return b, nil
	}

	t, err := resolve(r, typeName, pos)
	if err != nil {
		return nil, err
	}
	if t.Name == types.TypeNullRef {
		return nil, nil
	}
	if t.FromString == nil {
		d.log.Warn("type does not support conversion from string, value left undecoded", "type", t.QualifiedName(), "position", pos.String())
		return nil, nil
	}
	v, err := t.FromString(payload)
	if err != nil {
		return nil, &model.ConversionError{TypeName: typeName, Position: pos, Err: err}
	}
	return v, nil
}

func (d *Decoder) decodeMime(r types.TypeResolver, typeName, mimeType, payload string, pos model.Position) (any, error) {
	switch {
	case IsObjectMimeType(mimeType):
		data, err := FromBase64Wrapped(payload)
		if err != nil {
			return nil, &model.ConversionError{TypeName: typeName, Position: pos, Err: err}
		}
		if len(data) == 0 {
			return nil, nil
		}
		v, err := d.objects.Decode(data, NewBinder(r))
		if err != nil {
			var tre *model.TypeResolutionError
			if errors.As(err, &tre) {
				return nil, tre.WithPosition(pos)
			}
			return nil, &model.ConversionError{TypeName: typeName, Position: pos, Err: err}
		}
		if _, isNull := v.(types.NullRef); isNull {
			return nil, nil
		}
		return v, nil
	case mimeType == MimeByteArraySerialized:
		// entries without a type are strings, which leaves the image check
		if typeName == "" {
			typeName = types.TypeString
		}
		t, err := resolve(r, typeName, pos)
		if err != nil {
			return nil, err
		}
		data, err := FromBase64Wrapped(payload)
		if err != nil {
			return nil, &model.ConversionError{TypeName: typeName, Position: pos, Err: err}
		}
		if t.FromBytes != nil {
			v, err := t.FromBytes(data)
			if err != nil {
				return nil, &model.ConversionError{TypeName: typeName, Position: pos, Err: err}
			}
			return v, nil
		}
		if imaging.LooksLikeImage(data) {
			v, err := imaging.DecodeImage(bytes.NewReader(data))
			if err != nil {
				return nil, &model.ConversionError{TypeName: typeName, Position: pos, Err: err}
			}
			return v, nil
		}
		d.log.Warn("type does not support conversion from bytes, value left undecoded", "type", t.QualifiedName(), "position", pos.String())
		return nil, nil
	}
	d.log.Debug("unsupported mime type", "mimeType", mimeType, "position", pos.String())
	return nil, nil
}

func resolve(r types.TypeResolver, typeName string, pos model.Position) (*types.Type, error) {
	t, err := r.ResolveType(typeName, true)
	if err != nil {
		var tre *model.TypeResolutionError
		if errors.As(err, &tre) {
			return nil, tre.WithPosition(pos)
		}
		return nil, err
	}
	if t == nil {
		return nil, &model.TypeResolutionError{TypeName: typeName, Position: pos}
	}
	return t, nil
}
