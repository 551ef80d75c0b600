package codec

import (
	"encoding/base64"
	"strings"
)

const (
	lineWidth  = 80
	lineIndent = "        "
	newLine    = "\r\n"
)

var wrapStripper = strings.NewReplacer(" ", "", "\r", "", "\n", "")

// FromBase64Wrapped decodes a base64 payload. Spaces and line breaks are removed first, so that both
// wrapped and single line payloads are accepted.
func FromBase64Wrapped(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(wrapStripper.Replace(s))
}

// ToBase64Wrapped encodes data as base64. Encodings longer than one line are broken into indented lines of
// fixed width, each followed by a line break.
func ToBase64Wrapped(data []byte) string {
	raw := base64.StdEncoding.EncodeToString(data)
	if len(raw) <= lineWidth {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw) + (len(raw)/lineWidth+2)*(len(lineIndent)+len(newLine)))
	b.WriteString(newLine)
	for i := 0; i < len(raw); i += lineWidth {
		end := min(i+lineWidth, len(raw))
		b.WriteString(lineIndent)
		b.WriteString(raw[i:end])
		b.WriteString(newLine)
	}
	return b.String()
}
