package imaging

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type iconImage struct {
	w, h, bpp int
	data      []byte
}

func buildIcon(entries ...iconImage) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, []uint16{0, 1, uint16(len(entries))})
	offset := iconDirSize + len(entries)*iconDirEntrySize
	for _, e := range entries {
		buf.Write([]byte{byte(e.w), byte(e.h), 0, 0})
		_ = binary.Write(&buf, le, []uint16{1, uint16(e.bpp)})
		_ = binary.Write(&buf, le, []uint32{uint32(len(e.data)), uint32(offset)})
		offset += len(e.data)
	}
	for _, e := range entries {
		buf.Write(e.data)
	}
	return buf.Bytes()
}

// bgraDIB returns a 32 bit bitmap without file header, filled with c, followed by an empty mask
func bgraDIB(w, h int, c color.NRGBA) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, uint32(40))
	_ = binary.Write(&buf, le, []int32{int32(w), int32(2 * h)})
	_ = binary.Write(&buf, le, []uint16{1, 32})
	_ = binary.Write(&buf, le, make([]uint32, 6))
	for i := 0; i < w*h; i++ {
		buf.Write([]byte{c.B, c.G, c.R, c.A})
	}
	buf.Write(make([]byte, ((w+31)/32)*4*h))
	return buf.Bytes()
}

// rgbDIB returns a 24 bit bitmap without file header, filled with c, with the first pixel of the top row
// masked as transparent
func rgbDIB(w, h int, c color.NRGBA) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, uint32(40))
	_ = binary.Write(&buf, le, []int32{int32(w), int32(2 * h)})
	_ = binary.Write(&buf, le, []uint16{1, 24})
	_ = binary.Write(&buf, le, make([]uint32, 6))
	stride := ((w*24 + 31) / 32) * 4
	for y := 0; y < h; y++ {
		row := make([]byte, stride)
		for x := 0; x < w; x++ {
			copy(row[x*3:], []byte{c.B, c.G, c.R})
		}
		buf.Write(row)
	}
	maskStride := ((w + 31) / 32) * 4
	for y := 0; y < h; y++ {
		row := make([]byte, maskStride)
		// rows are stored bottom-up
		if y == h-1 {
			row[0] = 0x80
		}
		buf.Write(row)
	}
	return buf.Bytes()
}

func pngData(t *testing.T, w, h int, c color.NRGBA) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeIcon_PicksLargestEntry(t *testing.T) {
	red := color.NRGBA{R: 255, A: 128}
	blue := color.NRGBA{B: 255, A: 255}
	data := buildIcon(
		iconImage{w: 16, h: 16, bpp: 32, data: bgraDIB(16, 16, red)},
		iconImage{w: 32, h: 32, bpp: 32, data: pngData(t, 32, 32, blue)},
	)
	assert.True(t, IsIcon(data))
	assert.True(t, LooksLikeImage(data))

	icon, err := DecodeIcon(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []image.Point{image.Pt(16, 16), image.Pt(32, 32)}, icon.Sizes)
	assert.Equal(t, image.Rect(0, 0, 32, 32), icon.Bounds())
	assert.Equal(t, blue, color.NRGBAModel.Convert(icon.At(3, 3)))
}

func TestDecodeIcon_KeepsAlpha(t *testing.T) {
	semi := color.NRGBA{R: 10, G: 20, B: 30, A: 77}
	icon, err := DecodeIcon(bytes.NewReader(buildIcon(iconImage{w: 4, h: 4, bpp: 32, data: bgraDIB(4, 4, semi)})))
	require.NoError(t, err)
	assert.Equal(t, semi, icon.At(1, 2))

	noAlpha := color.NRGBA{R: 10, G: 20, B: 30}
	icon, err = DecodeIcon(bytes.NewReader(buildIcon(iconImage{w: 4, h: 4, bpp: 32, data: bgraDIB(4, 4, noAlpha)})))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, icon.At(1, 2))
}

func TestDecodeIcon_Mask(t *testing.T) {
	green := color.NRGBA{G: 200, A: 255}
	icon, err := DecodeIcon(bytes.NewReader(buildIcon(iconImage{w: 2, h: 2, bpp: 24, data: rgbDIB(2, 2, green)})))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), icon.Bounds())
	assert.Equal(t, uint8(0), icon.At(0, 0).(color.NRGBA).A)
	assert.Equal(t, green, icon.At(1, 0))
	assert.Equal(t, green, icon.At(0, 1))
}

func TestDecodeIcon_Invalid(t *testing.T) {
	_, err := DecodeIcon(bytes.NewReader([]byte("not an icon")))
	assert.ErrorIs(t, err, ErrInvalidIcon)

	data := buildIcon(iconImage{w: 4, h: 4, bpp: 32, data: bgraDIB(4, 4, color.NRGBA{})})
	_, err = DecodeIcon(bytes.NewReader(data[:len(data)-10]))
	assert.ErrorIs(t, err, ErrInvalidIcon)
}

// dibHeader returns an info header with the given fields padded to n bytes
func dibHeader(headerSize uint32, w, h int32, bpp uint16, colorsUsed uint32, n int) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, headerSize)
	_ = binary.Write(&buf, le, []int32{w, h})
	_ = binary.Write(&buf, le, []uint16{1, bpp})
	_ = binary.Write(&buf, le, make([]uint32, 4))
	_ = binary.Write(&buf, le, []uint32{colorsUsed, 0})
	buf.Write(make([]byte, n-buf.Len()))
	return buf.Bytes()
}

func TestDecodeIcon_BadBitmapHeader(t *testing.T) {
	tests := []struct {
		name       string
		headerSize uint32
		w, h       int32
		bpp        uint16
		colorsUsed uint32
	}{
		{"huge sides and bit count", 40, 0x7fffffff, 0x40000000, 1000, 0},
		{"huge sides", 40, 0x7fffffff, 0x40000000, 32, 0},
		{"huge width", 40, 0x7fffffff, 8, 1, 0},
		{"huge height", 40, 4, 0x7ffffffe, 24, 0},
		{"too wide", 40, 257, 8, 24, 0},
		{"negative height", 40, 4, -8, 24, 0},
		{"flat", 40, 4, 1, 24, 0},
		{"unknown bit count", 40, 4, 8, 1000, 0},
		{"huge palette", 40, 4, 8, 8, 0xffffffff},
		{"palette exceeds data", 40, 4, 8, 8, 0},
		{"huge header", 0xffffffff, 4, 8, 24, 0},
		{"pixels exceed data", 40, 256, 512, 32, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data := buildIcon(iconImage{w: 4, h: 4, bpp: int(test.bpp),
				data: dibHeader(test.headerSize, test.w, test.h, test.bpp, test.colorsUsed, 86)})
			assert.NotPanics(t, func() {
				_, err := DecodeIcon(bytes.NewReader(data))
				assert.ErrorIs(t, err, ErrInvalidIcon)
			})
		})
	}
}

func TestDecodeImage(t *testing.T) {
	c := color.NRGBA{R: 1, G: 2, B: 3, A: 255}
	img, err := DecodeImage(bytes.NewReader(pngData(t, 3, 2, c)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	_, err = DecodeImage(bytes.NewReader([]byte("plain text")))
	assert.ErrorIs(t, err, ErrNotAnImage)
	assert.False(t, LooksLikeImage([]byte("plain text")))
}
