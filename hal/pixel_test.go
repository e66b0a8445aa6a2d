package hal

import "testing"

func TestFormatForDepth(t *testing.T) {
	tests := map[int]PixelFormat{
		8:  PixelFormatIndexed8,
		16: PixelFormatRGB565,
		32: PixelFormatXRGB8888,
	}
	for bpp, want := range tests {
		if got := FormatForDepth(bpp); got != want {
			t.Fatalf("FormatForDepth(%d)=%s want %s", bpp, got, want)
		}
		if got := BytesPerPixel(want) * 8; got != bpp {
			t.Fatalf("BytesPerPixel(%s)*8=%d want %d", want, got, bpp)
		}
	}
}

func TestEncodeDecodeRGB(t *testing.T) {
	red, green, blue := RGB332Palette()
	pal := make([]byte, 256*3)
	for i := range red {
		pal[i*3], pal[i*3+1], pal[i*3+2] = red[i], green[i], blue[i]
	}

	colors := [][3]uint8{{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255}}
	for _, f := range []PixelFormat{PixelFormatIndexed8, PixelFormatRGB565, PixelFormatXRGB8888} {
		for _, c := range colors {
			buf := make([]byte, 4)
			if !PutPixel(buf, 0, f, EncodeRGB(f, c[0], c[1], c[2])) {
				t.Fatalf("%s: PutPixel refused", f)
			}
			r, g, b := decodeRGB(buf, 0, f, pal)
			if r != c[0] || g != c[1] || b != c[2] {
				t.Fatalf("%s: %v round tripped to %d,%d,%d", f, c, r, g, b)
			}
		}
	}
}

func TestXRGBByteOrder(t *testing.T) {
	buf := make([]byte, 4)
	PutPixel(buf, 0, PixelFormatXRGB8888, EncodeRGB(PixelFormatXRGB8888, 0x33, 0x66, 0x99))
	if buf[0] != 0x99 || buf[1] != 0x66 || buf[2] != 0x33 || buf[3] != 0 {
		t.Fatalf("bytes % x", buf)
	}
}

func TestPutPixelBounds(t *testing.T) {
	buf := make([]byte, 6)
	if PutPixel(buf, 4, PixelFormatXRGB8888, 1) {
		t.Fatal("wrote past the end")
	}
	if PutPixel(buf, -1, PixelFormatIndexed8, 1) {
		t.Fatal("wrote before the start")
	}
	if !PutPixel(buf, 4, PixelFormatRGB565, 0xABCD) || buf[4] != 0xCD || buf[5] != 0xAB {
		t.Fatalf("rgb565 bytes % x", buf[4:])
	}
}
