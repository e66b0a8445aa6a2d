package x11fb

import "testing"

func TestNormalizeDepth(t *testing.T) {
	tests := map[int]int{
		1:  8,
		4:  8,
		8:  8,
		12: 16,
		15: 16,
		16: 16,
		24: 32,
		30: 32,
		32: 32,
	}
	for native, want := range tests {
		if got := normalizeDepth(native); got != want {
			t.Fatalf("normalizeDepth(%d)=%d want %d", native, got, want)
		}
	}
}

func TestLayout(t *testing.T) {
	tests := []struct {
		bpp, w, h      int
		stride, length int
	}{
		{bpp: 32, w: 320, h: 240, stride: 1280, length: 307200},
		{bpp: 16, w: 320, h: 240, stride: 640, length: 153600},
		{bpp: 8, w: 320, h: 240, stride: 320, length: 76800},
		{bpp: 32, w: 1, h: 1, stride: 4, length: 4},
	}
	for _, tc := range tests {
		stride, length := layout(tc.bpp, tc.w, tc.h)
		if stride != tc.stride || length != tc.length {
			t.Fatalf("layout(%d, %d, %d) = %d, %d; want %d, %d",
				tc.bpp, tc.w, tc.h, stride, length, tc.stride, tc.length)
		}
	}
}
