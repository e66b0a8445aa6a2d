package hal

import "encoding/binary"

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// rgb332 is the index of a color in the palette built by RGB332Palette.
func rgb332(r, g, b uint8) uint8 {
	return r&0xE0 | (g>>3)&0x1C | b>>6
}

// RGB332Palette returns a 256-entry palette in which index i encodes
// rrrgggbb, so PixelFormatIndexed8 buffers can be drawn with EncodeRGB.
func RGB332Palette() (red, green, blue []byte) {
	red = make([]byte, 256)
	green = make([]byte, 256)
	blue = make([]byte, 256)
	for i := 0; i < 256; i++ {
		red[i] = uint8(((i >> 5) & 7) * 255 / 7)
		green[i] = uint8(((i >> 2) & 7) * 255 / 7)
		blue[i] = uint8((i & 3) * 255 / 3)
	}
	return red, green, blue
}

// FormatForDepth picks the pixel format a buffer of bpp bits per pixel
// is drawn in.
func FormatForDepth(bpp int) PixelFormat {
	switch {
	case bpp <= 8:
		return PixelFormatIndexed8
	case bpp <= 16:
		return PixelFormatRGB565
	}
	return PixelFormatXRGB8888
}

// BytesPerPixel returns the storage size of one pixel.
func BytesPerPixel(f PixelFormat) int {
	switch f {
	case PixelFormatIndexed8:
		return 1
	case PixelFormatRGB565:
		return 2
	case PixelFormatXRGB8888:
		return 4
	}
	return 0
}

// EncodeRGB converts an 8-bit color to the raw pixel value of f.
func EncodeRGB(f PixelFormat, r, g, b uint8) uint32 {
	switch f {
	case PixelFormatIndexed8:
		return uint32(rgb332(r, g, b))
	case PixelFormatRGB565:
		return uint32(rgb565(r, g, b))
	}
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// PutPixel stores a raw pixel value at off. It reports false if the pixel
// does not fit in buf.
func PutPixel(buf []byte, off int, f PixelFormat, v uint32) bool {
	n := BytesPerPixel(f)
	if n == 0 || off < 0 || off+n > len(buf) {
		return false
	}
	switch n {
	case 1:
		buf[off] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(buf[off:], uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf[off:], v)
	}
	return true
}

func fillRGB(buf []byte, f PixelFormat, stride, width, height int, r, g, b uint8) {
	v := EncodeRGB(f, r, g, b)
	n := BytesPerPixel(f)
	for y := 0; y < height; y++ {
		row := y * stride
		for x := 0; x < width; x++ {
			PutPixel(buf, row+x*n, f, v)
		}
	}
}

// decodeRGB reads the pixel at off back to 8-bit color. Indexed pixels
// are looked up in pal, which holds 3 bytes per entry.
func decodeRGB(buf []byte, off int, f PixelFormat, pal []byte) (r, g, b uint8) {
	switch f {
	case PixelFormatIndexed8:
		i := int(buf[off]) * 3
		if i+2 < len(pal) {
			return pal[i], pal[i+1], pal[i+2]
		}
		return 0, 0, 0
	case PixelFormatRGB565:
		return rgb888From565(binary.LittleEndian.Uint16(buf[off:]))
	}
	v := binary.LittleEndian.Uint32(buf[off:])
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}
