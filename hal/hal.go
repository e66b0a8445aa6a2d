package hal

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatIndexed8 is 8bpp palette indices.
	PixelFormatIndexed8 PixelFormat = iota + 1
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb, little endian.
	PixelFormatRGB565
	// PixelFormatXRGB8888 is 32bpp: 0x00RRGGBB, little endian.
	PixelFormatXRGB8888
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatIndexed8:
		return "indexed8"
	case PixelFormatRGB565:
		return "rgb565"
	case PixelFormatXRGB8888:
		return "xrgb8888"
	}
	return "unknown"
}

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	BitsPerPixel() int
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	// SetPalette loads len(red) colors starting at index first. Only
	// meaningful for PixelFormatIndexed8.
	SetPalette(first int, red, green, blue []byte) error
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyHome
	KeyEnd
	KeyF1
	KeyF2
	KeyF3
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerEvent is a pointer sample in framebuffer coordinates. Buttons is
// a bit set, bit 0 being the primary button.
type PointerEvent struct {
	X, Y    int
	Buttons uint8
}

// Pointer provides pointer (mouse or emulated touch) samples.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// HAL provides the only contact point between the simulator and the
// outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
}
