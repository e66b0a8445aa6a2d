package hal

import (
	"fmt"
	"sync"

	"simfb/hal/x11fb"
)

// x11Framebuffer adapts an initialized x11fb.Device to Framebuffer. The
// device is not safe for concurrent use, so every call that reaches the
// server goes through mu.
//
// On 8bpp visuals the app draws palette indices into idx; Present maps
// them through lut to the pixels the server allocated before flushing.
type x11Framebuffer struct {
	mu     sync.Mutex
	dev    *x11fb.Device
	fb     x11fb.Framebuffer
	format PixelFormat

	idx []byte
	lut pixelLUT
}

func newX11Framebuffer(dev *x11fb.Device, fb x11fb.Framebuffer) *x11Framebuffer {
	f := &x11Framebuffer{dev: dev, fb: fb, format: FormatForDepth(fb.BitsPerPixel)}
	if f.format == PixelFormatIndexed8 {
		f.idx = make([]byte, len(fb.Buf))
		f.lut = identityLUT()
	}
	return f
}

func (f *x11Framebuffer) Width() int          { return f.fb.Width }
func (f *x11Framebuffer) Height() int         { return f.fb.Height }
func (f *x11Framebuffer) Format() PixelFormat { return f.format }
func (f *x11Framebuffer) BitsPerPixel() int   { return f.fb.BitsPerPixel }
func (f *x11Framebuffer) StrideBytes() int    { return f.fb.Stride }

func (f *x11Framebuffer) Buffer() []byte {
	if f.idx != nil {
		return f.idx
	}
	return f.fb.Buf
}

func (f *x11Framebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fillRGB(f.Buffer(), f.format, f.fb.Stride, f.fb.Width, f.fb.Height, r, g, b)
}

// SetPalette allocates the colors on the server. Entries allocated before
// a refused one are still picked up by the lookup table.
func (f *x11Framebuffer) SetPalette(first int, red, green, blue []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.dev.SetPalette(first, len(red), red, green, blue, nil)
	if f.idx != nil {
		f.lut.refresh(f.dev.PalettePixel, first, len(red))
	}
	return err
}

func (f *x11Framebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.translateLocked()
	return f.dev.Flush()
}

func (f *x11Framebuffer) translateLocked() {
	if f.idx != nil {
		f.lut.translate(f.fb.Buf, f.idx)
	}
}

// pixelLUT maps 8-bit palette indices to server pixel values.
type pixelLUT [256]byte

func identityLUT() pixelLUT {
	var l pixelLUT
	for i := range l {
		l[i] = byte(i)
	}
	return l
}

// refresh reloads count entries starting at first. Indices the server
// never allocated keep their previous mapping.
func (l *pixelLUT) refresh(pixel func(int) (uint32, bool), first, count int) {
	for i := first; i < first+count && i < len(l); i++ {
		if i < 0 {
			continue
		}
		if p, ok := pixel(i); ok {
			l[i] = byte(p)
		}
	}
}

func (l *pixelLUT) translate(dst, src []byte) {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = l[src[i]]
	}
}

// x11Input turns raw window events into key and pointer events.
type x11Input struct {
	kbd     *hostKeyboard
	ptr     *hostPointer
	buttons uint8
}

func (in *x11Input) handle(ev x11fb.Event) {
	switch ev.Kind {
	case x11fb.EventKeyPress, x11fb.EventKeyRelease:
		code, r := translateX11Key(ev.Keycode, ev.State&x11ShiftMask != 0)
		if code == KeyUnknown && r == 0 {
			return
		}
		press := ev.Kind == x11fb.EventKeyPress
		if !press {
			r = 0
		}
		in.kbd.emit(KeyEvent{Code: code, Press: press, Rune: r})
	case x11fb.EventButtonPress, x11fb.EventButtonRelease:
		if ev.Button == 0 || ev.Button > 8 {
			return
		}
		bit := uint8(1) << (ev.Button - 1)
		if ev.Kind == x11fb.EventButtonPress {
			in.buttons |= bit
		} else {
			in.buttons &^= bit
		}
		in.ptr.emit(PointerEvent{X: ev.X, Y: ev.Y, Buttons: in.buttons})
	case x11fb.EventMotion:
		in.ptr.emit(PointerEvent{X: ev.X, Y: ev.Y, Buttons: in.buttons})
	}
}

// newX11HAL opens the X11 framebuffer device and maps its window.
func newX11HAL(cfg HostConfig, logger *hostLogger) (*hostHAL, error) {
	dev := x11fb.New(cfg.X11, x11fb.WithLogger(logger))
	fb, err := dev.Initialize(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	if err := dev.OpenWindow(); err != nil {
		dev.Close()
		return nil, err
	}
	logger.WriteLineString(fmt.Sprintf("x11: %dx%d depth %d (%d bpp), shm=%v",
		fb.Width, fb.Height, dev.NativeDepth(), fb.BitsPerPixel, dev.SharedMemory()))

	h := newHostHAL(logger)
	xfb := newX11Framebuffer(dev, fb)
	h.fb = xfb
	in := &x11Input{kbd: h.kbd, ptr: h.ptr}
	h.poll = func() {
		xfb.mu.Lock()
		defer xfb.mu.Unlock()
		for {
			ev, ok := dev.PollEvent()
			if !ok {
				return
			}
			in.handle(ev)
		}
	}
	h.close = func() error {
		xfb.mu.Lock()
		defer xfb.mu.Unlock()
		return dev.Close()
	}
	return h, nil
}
