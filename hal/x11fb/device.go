// Package x11fb presents an X11 window as a raw framebuffer device.
//
// A Device owns one display connection, one fixed-size window and one
// image surface. Initialize returns a Framebuffer whose Buf the caller
// writes pixels into; Flush copies the whole buffer to the window and
// waits for the server. When the server supports MIT-SHM the buffer is a
// shared-memory segment, otherwise it is a heap buffer. Callers observe
// the same geometry and pixels either way.
//
// A Device is not safe for concurrent use.
package x11fb

import (
	"fmt"
)

// State is the lifecycle stage of a Device.
type State uint8

const (
	StateUninitialized State = iota
	StateInitializing
	StateNegotiating
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateNegotiating:
		return "negotiating"
	case StateReady:
		return "ready"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Framebuffer describes the pixel buffer handed to the graphics stack.
// Buf aliases the image memory and stays valid until Close.
type Framebuffer struct {
	Buf          []byte
	Len          int
	BitsPerPixel int
	Stride       int
	Width        int
	Height       int
}

// Logger receives diagnostic lines. hal.Logger satisfies it.
type Logger interface {
	WriteLineString(s string)
}

type nopLogger struct{}

func (nopLogger) WriteLineString(string) {}

// Option configures a Device.
type Option func(*Device)

// WithDialer replaces the function used to open the display.
func WithDialer(dial Dialer) Option {
	return func(d *Device) { d.dial = dial }
}

// WithSharedMemory replaces the host shared-memory allocator.
func WithSharedMemory(shm SharedMemory) Option {
	return func(d *Device) { d.shmem = shm }
}

// WithLogger sets the diagnostic log sink.
func WithLogger(l Logger) Option {
	return func(d *Device) {
		if l != nil {
			d.log = l
		}
	}
}

// Device is an emulated framebuffer backed by an X11 window.
type Device struct {
	cfg   Config
	dial  Dialer
	shmem SharedMemory
	log   Logger

	state  State
	dpy    Display
	screen Screen
	win    Window
	gc     GC

	width  int
	height int
	native int

	img     *Image
	backing backing
	fb      Framebuffer
	palette map[int]uint32

	// frame holds the connection, window, grab and GC; surface holds the
	// image checkpoints. surface is always unwound first.
	frame   cleanupStack
	surface cleanupStack
}

// New returns an uninitialized device.
func New(cfg Config, opts ...Option) *Device {
	d := &Device{
		cfg:   cfg,
		dial:  DialXGB,
		shmem: SysVSharedMemory(),
		log:   nopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) logf(format string, args ...any) {
	d.log.WriteLineString("x11fb: " + fmt.Sprintf(format, args...))
}

// State reports the lifecycle stage.
func (d *Device) State() State { return d.state }

// Checkpoint reports how many image-surface resources are held.
// A shared-memory surface holds 4 (image, segment, process attach,
// server attach); a heap surface holds 1.
func (d *Device) Checkpoint() int { return d.surface.depth() }

// SharedMemory reports whether the surface is backed by MIT-SHM.
func (d *Device) SharedMemory() bool {
	_, ok := d.backing.(*sharedBacking)
	return ok
}

// NativeDepth is the server's root depth, before normalization.
func (d *Device) NativeDepth() int { return d.native }

// Framebuffer returns the descriptor from the last successful Initialize.
func (d *Device) Framebuffer() (Framebuffer, error) {
	if d.state != StateReady {
		return Framebuffer{}, ErrNotInitialized
	}
	return d.fb, nil
}

// Initialize opens the display, creates a width x height window and
// allocates the pixel buffer. Only an unreachable display, or a server
// that cannot describe an image of its own depth, makes it fail; a
// failed shared-memory negotiation falls back to a heap buffer.
func (d *Device) Initialize(width, height int) (Framebuffer, error) {
	if d.state != StateUninitialized {
		return Framebuffer{}, ErrAlreadyInitialized
	}
	if width <= 0 || height <= 0 || width > 0xFFFF || height > 0xFFFF {
		return Framebuffer{}, fmt.Errorf("%w: %dx%d", ErrInvalidGeometry, width, height)
	}

	d.state = StateInitializing
	d.width, d.height = width, height

	if err := d.createWindow(); err != nil {
		d.logf("unable to open display: %v", err)
		d.reset()
		return Framebuffer{}, err
	}

	native, err := d.dpy.RootDepth()
	if err != nil || native <= 0 {
		if err == nil {
			err = fmt.Errorf("root depth %d", native)
		}
		d.logf("unable to query root depth: %v", err)
		d.teardown()
		return Framebuffer{}, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	d.native = native

	bpp := normalizeDepth(native)
	stride, length := layout(bpp, width, height)

	d.state = StateNegotiating
	if err := d.acquireImageSurface(native, length); err != nil {
		d.logf("unable to create image: %v", err)
		d.teardown()
		return Framebuffer{}, err
	}

	d.fb = Framebuffer{
		Buf:          d.backing.pixels()[:length],
		Len:          length,
		BitsPerPixel: bpp,
		Stride:       stride,
		Width:        width,
		Height:       height,
	}
	d.palette = make(map[int]uint32)
	d.state = StateReady
	return d.fb, nil
}

// Close releases the image surface, the window and the connection, in
// reverse order of acquisition. It is safe to call more than once and
// after a failed Initialize.
func (d *Device) Close() error {
	if d.dpy == nil {
		d.reset()
		return nil
	}
	err := d.teardown()
	if err != nil {
		d.logf("teardown: %v", err)
	}
	return err
}

func (d *Device) teardown() error {
	err := d.releaseImageSurface()
	if ferr := d.frame.unwind(); ferr != nil {
		if err == nil {
			err = ferr
		} else {
			err = fmt.Errorf("%w; %w", err, ferr)
		}
	}
	d.reset()
	return err
}

func (d *Device) reset() {
	d.state = StateUninitialized
	d.dpy = nil
	d.win, d.gc = 0, 0
	d.screen = Screen{}
	d.img, d.backing = nil, nil
	d.fb = Framebuffer{}
	d.palette = nil
}
