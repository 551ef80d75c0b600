package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
)

var ErrInvalidIcon = errors.New("invalid icon")

const (
	iconDirSize      = 6
	iconDirEntrySize = 16
	fileHeaderSize   = 14

	// icon directories store sides in a byte, 0 meaning 256
	maxIconSide = 256
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// Icon is a decoded icon file. The embedded image is the largest entry with the highest color depth.
type Icon struct {
	image.Image
	// Sizes lists the dimensions of all entries in file order
	Sizes []image.Point
}

type iconEntry struct {
	width, height int
	bitCount      int
	size, offset  uint32
}

// IsIcon reports whether b starts with an icon directory
func IsIcon(b []byte) bool {
	if len(b) < iconDirSize {
		return false
	}
	return binary.LittleEndian.Uint16(b[0:]) == 0 && binary.LittleEndian.Uint16(b[2:]) == 1 &&
		binary.LittleEndian.Uint16(b[4:]) > 0
}

// DecodeIcon decodes an icon file. Entries may be PNG streams or device independent bitmaps; the alpha channel
// of 32 bit entries and the transparency mask of the others are kept.
func DecodeIcon(r io.Reader) (*Icon, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !IsIcon(b) {
		return nil, ErrInvalidIcon
	}
	count := int(binary.LittleEndian.Uint16(b[4:]))
	if len(b) < iconDirSize+count*iconDirEntrySize {
		return nil, fmt.Errorf("%w: truncated directory", ErrInvalidIcon)
	}

	icon := &Icon{}
	var best *iconEntry
	for i := 0; i < count; i++ {
		e := b[iconDirSize+i*iconDirEntrySize:]
		entry := iconEntry{
			width:    int(e[0]),
			height:   int(e[1]),
			bitCount: int(binary.LittleEndian.Uint16(e[6:])),
			size:     binary.LittleEndian.Uint32(e[8:]),
			offset:   binary.LittleEndian.Uint32(e[12:]),
		}
		// 0 means 256
		if entry.width == 0 {
			entry.width = 256
		}
		if entry.height == 0 {
			entry.height = 256
		}
		icon.Sizes = append(icon.Sizes, image.Pt(entry.width, entry.height))
		if best == nil || entry.width*entry.height > best.width*best.height ||
			(entry.width*entry.height == best.width*best.height && entry.bitCount > best.bitCount) {
			best = &entry
		}
	}

	end := uint64(best.offset) + uint64(best.size)
	if end > uint64(len(b)) {
		return nil, fmt.Errorf("%w: entry exceeds file", ErrInvalidIcon)
	}
	data := b[best.offset:end]
	if bytes.HasPrefix(data, pngSignature) {
		icon.Image, err = png.Decode(bytes.NewReader(data))
	} else {
		icon.Image, err = decodeDIB(data)
	}
	if err != nil {
		return nil, err
	}
	return icon, nil
}

// decodeDIB decodes a bitmap without file header, as stored in icons: the height in the info header covers
// the color bitmap and the transparency mask following it.
func decodeDIB(data []byte) (image.Image, error) {
	if len(data) < 40 {
		return nil, fmt.Errorf("%w: truncated bitmap header", ErrInvalidIcon)
	}
	headerSize := uint64(binary.LittleEndian.Uint32(data[0:]))
	rawWidth := int32(binary.LittleEndian.Uint32(data[4:]))
	rawHeight := int32(binary.LittleEndian.Uint32(data[8:]))
	bitCount := int(binary.LittleEndian.Uint16(data[14:]))
	colorsUsed := uint64(binary.LittleEndian.Uint32(data[32:]))
	if rawWidth <= 0 || rawWidth > maxIconSide || rawHeight <= 0 || rawHeight/2 > maxIconSide ||
		headerSize < 40 || headerSize > uint64(len(data)) {
		return nil, fmt.Errorf("%w: bad bitmap header", ErrInvalidIcon)
	}
	width, height := int(rawWidth), int(rawHeight/2)
	if height == 0 {
		return nil, fmt.Errorf("%w: bad bitmap header", ErrInvalidIcon)
	}
	switch bitCount {
	case 1, 4, 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: unsupported bit count %d", ErrInvalidIcon, bitCount)
	}
	var paletteSize uint64
	if bitCount <= 8 {
		if colorsUsed == 0 {
			colorsUsed = 1 << bitCount
		}
		if colorsUsed > 1<<bitCount {
			return nil, fmt.Errorf("%w: bad palette size", ErrInvalidIcon)
		}
		paletteSize = colorsUsed * 4
	}

	stride := ((width*bitCount + 31) / 32) * 4
	maskStride := ((width + 31) / 32) * 4
	pixelsEnd := headerSize + paletteSize + uint64(stride)*uint64(height)
	if pixelsEnd > uint64(len(data)) {
		return nil, fmt.Errorf("%w: truncated bitmap", ErrInvalidIcon)
	}
	pixelsAt, maskAt := int(headerSize+paletteSize), int(pixelsEnd)

	if bitCount == 32 {
		return decodeBGRA(data[pixelsAt:maskAt], width, height, stride), nil
	}

	// prepend a file header and fix the height, so that the bitmap decoder accepts it
	var buf bytes.Buffer
	buf.Grow(fileHeaderSize + maskAt)
	buf.WriteString("BM")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(fileHeaderSize+maskAt))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(fileHeaderSize+pixelsAt))
	dib := append([]byte(nil), data[:maskAt]...)
	binary.LittleEndian.PutUint32(dib[8:], uint32(height))
	buf.Write(dib)
	img, err := bmp.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIcon, err)
	}

	res := image.NewNRGBA(img.Bounds())
	hasMask := maskAt+maskStride*height <= len(data)
	for y := 0; y < height; y++ {
		row := data[maskAt+(height-1-y)*maskStride:]
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if hasMask && row[x/8]&(0x80>>(x%8)) != 0 {
				c.A = 0
			}
			res.SetNRGBA(x, y, c)
		}
	}
	return res, nil
}

func decodeBGRA(pix []byte, width, height, stride int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	anyAlpha := false
	for y := 0; y < height; y++ {
		src := pix[(height-1-y)*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			dst[x*4+0] = src[x*4+2]
			dst[x*4+1] = src[x*4+1]
			dst[x*4+2] = src[x*4+0]
			dst[x*4+3] = src[x*4+3]
			if src[x*4+3] != 0 {
				anyAlpha = true
			}
		}
	}
	// bitmaps with an unused alpha channel are opaque
	if !anyAlpha {
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 0xff
		}
	}
	return img
}
