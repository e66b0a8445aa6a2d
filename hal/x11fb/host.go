package x11fb

// Window identifies a window on the display server.
type Window uint32

// GC identifies a server-side graphics context.
type GC uint32

// Colormap identifies a server-side colormap.
type Colormap uint32

// Segment identifies a shared-memory segment registered with the server.
type Segment uint32

// EventMask selects which window events the server reports.
// Bit values follow the X11 core protocol.
type EventMask uint32

const (
	EventMaskKeyPress      EventMask = 1 << 0
	EventMaskKeyRelease    EventMask = 1 << 1
	EventMaskButtonPress   EventMask = 1 << 2
	EventMaskButtonRelease EventMask = 1 << 3
	EventMaskPointerMotion EventMask = 1 << 6
	EventMaskButtonMotion  EventMask = 1 << 13
)

// Screen describes the default screen of a display connection.
type Screen struct {
	Root            Window
	DefaultColormap Colormap
	BlackPixel      uint32
	WhitePixel      uint32
	Width           int
	Height          int
}

// WindowSpec is the geometry and decoration of a new window.
type WindowSpec struct {
	X, Y          int
	Width, Height int
	BorderWidth   int
	Background    uint32
	Border        uint32
}

// WMProperties are the window-manager properties set on the window.
type WMProperties struct {
	Name     string
	IconName string
	Command  []string

	// Size hints. Equal min and max sizes pin the window size.
	Width, Height       int
	MinWidth, MinHeight int
	MaxWidth, MaxHeight int
}

// ColorFlags select which channels of a Color are meaningful.
type ColorFlags uint8

const (
	DoRed ColorFlags = 1 << iota
	DoGreen
	DoBlue
)

// Color is a colormap entry with 16-bit channels.
type Color struct {
	Pixel            uint32
	Red, Green, Blue uint16
	Flags            ColorFlags
}

// Image is the client-side description of a ZPixmap image.
// Depth is the server depth; BitsPerPixel and BytesPerLine follow the
// server's pixmap format for that depth.
type Image struct {
	Width        int
	Height       int
	Depth        int
	BitsPerPixel int
	BytesPerLine int
	Data         []byte
}

// Display is the part of a display-server connection the device drives.
//
// Requests may fail asynchronously: such failures are delivered to the
// handler installed with SetErrorHandler while Sync runs.
type Display interface {
	DefaultScreen() Screen
	RootDepth() (int, error)

	CreateWindow(parent Window, spec WindowSpec) (Window, error)
	DestroyWindow(w Window) error
	SetWMProperties(w Window, p WMProperties) error
	SelectInput(w Window, mask EventMask) error
	GrabButton(w Window, button uint8, mask EventMask) error
	UngrabButton(w Window, button uint8) error
	MapWindow(w Window) error
	UnmapWindow(w Window) error

	CreateGC(w Window, graphicsExposures bool) (GC, error)
	FreeGC(gc GC) error

	CreateImage(depth, width, height int, data []byte) (*Image, error)
	PutImage(w Window, gc GC, img *Image, dstX, dstY int) error

	AllocColor(cmap Colormap, c *Color) error

	ShmQueryExtension() bool
	ShmCreateImage(depth, width, height int) (*Image, error)
	ShmAttach(shmid int, readOnly bool) (Segment, error)
	ShmDetach(seg Segment) error
	ShmPutImage(w Window, gc GC, img *Image, seg Segment, dstX, dstY int) error

	// SetErrorHandler installs h and returns the previous handler.
	SetErrorHandler(h func(error)) func(error)
	// Sync blocks until the server has processed every request sent so far.
	Sync() error
	// PollEvent returns the next queued window event without blocking.
	PollEvent() (Event, bool)
	Close() error
}

// Dialer opens a display connection. An empty name selects the default display.
type Dialer func(name string) (Display, error)

// SharedMemory allocates host shared-memory segments.
type SharedMemory interface {
	Get(size int) (id int, err error)
	Attach(id int) ([]byte, error)
	Detach(addr []byte) error
	Remove(id int) error
}
