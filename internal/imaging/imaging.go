// Package imaging decodes the image payloads found in resource containers: bitmaps in any of the registered
// formats and icon files.
package imaging

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
)

var ErrNotAnImage = errors.New("not an image")

// DecodeImage decodes a bitmap in any registered image format. Icon files are decoded as icons.
func DecodeImage(r io.Reader) (image.Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if IsIcon(b) {
		icon, err := DecodeIcon(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		return icon, nil
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrNotAnImage
		}
		return nil, err
	}
	return img, nil
}

// LooksLikeImage reports whether b starts with the header of a supported image format
func LooksLikeImage(b []byte) bool {
	if IsIcon(b) {
		return true
	}
	_, _, err := image.DecodeConfig(bytes.NewReader(b))
	return err == nil
}
