package hal

import (
	"fmt"
	"sync"
)

// memFramebuffer is a heap framebuffer with no display attached. It backs
// the headless and preview backends.
type memFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	format PixelFormat
	stride int
	buf    []byte
	pal    []byte
	frames uint64
}

func newMemFramebuffer(width, height int, format PixelFormat) *memFramebuffer {
	stride := width * BytesPerPixel(format)
	return &memFramebuffer{
		width:  width,
		height: height,
		format: format,
		stride: stride,
		buf:    make([]byte, stride*height),
		pal:    make([]byte, 256*3),
	}
}

func (f *memFramebuffer) Width() int          { return f.width }
func (f *memFramebuffer) Height() int         { return f.height }
func (f *memFramebuffer) Format() PixelFormat { return f.format }
func (f *memFramebuffer) BitsPerPixel() int   { return BytesPerPixel(f.format) * 8 }
func (f *memFramebuffer) StrideBytes() int    { return f.stride }
func (f *memFramebuffer) Buffer() []byte      { return f.buf }

func (f *memFramebuffer) Present() error {
	f.mu.Lock()
	f.frames++
	f.mu.Unlock()
	return nil
}

func (f *memFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fillRGB(f.buf, f.format, f.stride, f.width, f.height, r, g, b)
}

func (f *memFramebuffer) SetPalette(first int, red, green, blue []byte) error {
	n := len(red)
	if first < 0 || len(green) < n || len(blue) < n || first+n > 256 {
		return fmt.Errorf("palette: invalid range %d+%d", first, n)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < n; i++ {
		j := (first + i) * 3
		f.pal[j], f.pal[j+1], f.pal[j+2] = red[i], green[i], blue[i]
	}
	return nil
}

// snapshotRGBA converts the buffer into dst as packed RGBA.
func (f *memFramebuffer) snapshotRGBA(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := BytesPerPixel(f.format)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			j := (y*f.width + x) * 4
			if j+3 >= len(dst) {
				return
			}
			r, g, b := decodeRGB(f.buf, y*f.stride+x*n, f.format, f.pal)
			dst[j+0] = r
			dst[j+1] = g
			dst[j+2] = b
			dst[j+3] = 0xFF
		}
	}
}
