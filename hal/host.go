package hal

import (
	"fmt"
	"io"
	"os"
	"sync"

	"simfb/hal/x11fb"
)

// Backend selects where the framebuffer is shown.
type Backend string

const (
	// BackendX11 shows the framebuffer in an X11 window through x11fb.
	BackendX11 Backend = "x11"
	// BackendEbiten shows a heap framebuffer in an ebiten preview window.
	BackendEbiten Backend = "ebiten"
	// BackendHeadless keeps a heap framebuffer and shows nothing.
	BackendHeadless Backend = "headless"
)

// HostConfig selects and sizes the host backend.
type HostConfig struct {
	Backend Backend
	Width   int
	Height  int
	// BitsPerPixel is used by the heap backends; the X11 backend takes its
	// depth from the server.
	BitsPerPixel int
	X11          x11fb.Config
}

// DefaultHostConfig returns a 320x240 X11 configuration.
func DefaultHostConfig() HostConfig {
	return HostConfig{
		Backend:      BackendX11,
		Width:        320,
		Height:       240,
		BitsPerPixel: 32,
		X11:          x11fb.DefaultConfig().FromEnv(),
	}
}

type hostHAL struct {
	logger *hostLogger
	fb     Framebuffer
	mem    *memFramebuffer
	kbd    *hostKeyboard
	ptr    *hostPointer

	// poll moves pending backend input onto the channels; close releases
	// the backend. Both may be nil.
	poll  func()
	close func() error
}

func newHostHAL(logger *hostLogger) *hostHAL {
	return &hostHAL{
		logger: logger,
		kbd:    newHostKeyboard(),
		ptr:    newHostPointer(),
	}
}

// newHeapHAL builds a HAL around an in-memory framebuffer.
func newHeapHAL(cfg HostConfig, logger *hostLogger) (*hostHAL, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", cfg.Width, cfg.Height)
	}
	h := newHostHAL(logger)
	h.mem = newMemFramebuffer(cfg.Width, cfg.Height, FormatForDepth(cfg.BitsPerPixel))
	h.fb = h.mem
	return h, nil
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd, ptr: h.ptr} }

func (h *hostHAL) pollInput() {
	if h.poll != nil {
		h.poll()
	}
}

func (h *hostHAL) Close() error {
	if h.close == nil {
		return nil
	}
	c := h.close
	h.close = nil
	return c()
}

type hostDisplay struct {
	fb Framebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func newHostLogger() *hostLogger { return &hostLogger{w: os.Stdout} }

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
