package main

import (
	"testing"

	"simfb/hal/x11fb"
)

func TestFill(t *testing.T) {
	tests := []struct {
		bpp  int
		want []byte
	}{
		{bpp: 8, want: []byte{0x2E}},
		{bpp: 16, want: []byte{0x33, 0x33}},
		{bpp: 32, want: []byte{0x99, 0x66, 0x33, 0x00}},
	}
	for _, tc := range tests {
		n := tc.bpp / 8
		fb := x11fb.Framebuffer{Width: 3, Height: 2, BitsPerPixel: tc.bpp, Stride: 3 * n}
		fb.Len = fb.Stride * fb.Height
		fb.Buf = make([]byte, fb.Len)
		fill(fb, 0x336699)
		for i := 0; i < fb.Len; i += n {
			for j, b := range tc.want {
				if fb.Buf[i+j] != b {
					t.Fatalf("bpp %d: pixel %d = % x want % x", tc.bpp, i/n, fb.Buf[i:i+n], tc.want)
				}
			}
		}
	}
}
