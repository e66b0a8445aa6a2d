package x11fb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shm"
	"github.com/jezek/xgb/xproto"
)

// WM_NORMAL_HINTS flags.
const (
	hintPSize    = 1 << 3
	hintPMinSize = 1 << 4
	hintPMaxSize = 1 << 5

	sizeHintsWords = 18
	putImageHeader = 24
)

type xgbDisplay struct {
	conn   *xgb.Conn
	setup  *xproto.SetupInfo
	screen *xproto.ScreenInfo
	hasShm bool

	onError func(error)
	pending []Event
	scratch []byte
}

// DialXGB connects to an X server with the pure Go protocol bindings.
// An empty name uses $DISPLAY.
func DialXGB(name string) (Display, error) {
	conn, err := xgb.NewConnDisplay(name)
	if err != nil {
		return nil, err
	}
	setup := xproto.Setup(conn)
	d := &xgbDisplay{
		conn:   conn,
		setup:  setup,
		screen: setup.DefaultScreen(conn),
	}
	d.hasShm = shm.Init(conn) == nil
	return d, nil
}

func (d *xgbDisplay) DefaultScreen() Screen {
	s := d.screen
	return Screen{
		Root:            Window(s.Root),
		DefaultColormap: Colormap(s.DefaultColormap),
		BlackPixel:      s.BlackPixel,
		WhitePixel:      s.WhitePixel,
		Width:           int(s.WidthInPixels),
		Height:          int(s.HeightInPixels),
	}
}

func (d *xgbDisplay) RootDepth() (int, error) {
	g, err := xproto.GetGeometry(d.conn, xproto.Drawable(d.screen.Root)).Reply()
	if err != nil {
		return 0, err
	}
	return int(g.Depth), nil
}

func (d *xgbDisplay) CreateWindow(parent Window, spec WindowSpec) (Window, error) {
	wid, err := xproto.NewWindowId(d.conn)
	if err != nil {
		return 0, err
	}
	// Depth 0 copies the parent's depth.
	err = xproto.CreateWindowChecked(d.conn, 0, wid, xproto.Window(parent),
		int16(spec.X), int16(spec.Y), uint16(spec.Width), uint16(spec.Height),
		uint16(spec.BorderWidth), xproto.WindowClassInputOutput, d.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwBorderPixel,
		[]uint32{spec.Background, spec.Border}).Check()
	if err != nil {
		return 0, err
	}
	return Window(wid), nil
}

func (d *xgbDisplay) DestroyWindow(w Window) error {
	return xproto.DestroyWindowChecked(d.conn, xproto.Window(w)).Check()
}

func (d *xgbDisplay) SetWMProperties(w Window, p WMProperties) error {
	win := xproto.Window(w)
	if err := d.setString(win, xproto.AtomWmName, p.Name); err != nil {
		return err
	}
	if err := d.setString(win, xproto.AtomWmIconName, p.IconName); err != nil {
		return err
	}
	if len(p.Command) > 0 {
		argv := strings.Join(p.Command, "\x00") + "\x00"
		if err := d.setString(win, xproto.AtomWmCommand, argv); err != nil {
			return err
		}
	}

	hints := make([]byte, sizeHintsWords*4)
	words := []uint32{
		hintPSize | hintPMinSize | hintPMaxSize,
		0, 0,
		uint32(p.Width), uint32(p.Height),
		uint32(p.MinWidth), uint32(p.MinHeight),
		uint32(p.MaxWidth), uint32(p.MaxHeight),
	}
	for i, v := range words {
		xgb.Put32(hints[i*4:], v)
	}
	return xproto.ChangePropertyChecked(d.conn, xproto.PropModeReplace, win,
		xproto.AtomWmNormalHints, xproto.AtomWmSizeHints, 32,
		sizeHintsWords, hints).Check()
}

func (d *xgbDisplay) setString(w xproto.Window, prop xproto.Atom, s string) error {
	return xproto.ChangePropertyChecked(d.conn, xproto.PropModeReplace, w,
		prop, xproto.AtomString, 8, uint32(len(s)), []byte(s)).Check()
}

func (d *xgbDisplay) SelectInput(w Window, mask EventMask) error {
	return xproto.ChangeWindowAttributesChecked(d.conn, xproto.Window(w),
		xproto.CwEventMask, []uint32{uint32(mask)}).Check()
}

// GrabButton releases any frozen event processing and then grabs the
// button with any modifier, in asynchronous pointer and keyboard modes.
func (d *xgbDisplay) GrabButton(w Window, button uint8, mask EventMask) error {
	xproto.AllowEvents(d.conn, xproto.AllowAsyncBoth, xproto.TimeCurrentTime)
	return xproto.GrabButtonChecked(d.conn, true, xproto.Window(w), uint16(mask),
		xproto.GrabModeAsync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
		button, xproto.ModMaskAny).Check()
}

func (d *xgbDisplay) UngrabButton(w Window, button uint8) error {
	return xproto.UngrabButtonChecked(d.conn, button, xproto.Window(w), xproto.ModMaskAny).Check()
}

func (d *xgbDisplay) MapWindow(w Window) error {
	xproto.MapWindow(d.conn, xproto.Window(w))
	return nil
}

func (d *xgbDisplay) UnmapWindow(w Window) error {
	xproto.UnmapWindow(d.conn, xproto.Window(w))
	return nil
}

func (d *xgbDisplay) CreateGC(w Window, graphicsExposures bool) (GC, error) {
	gid, err := xproto.NewGcontextId(d.conn)
	if err != nil {
		return 0, err
	}
	var exposures uint32
	if graphicsExposures {
		exposures = 1
	}
	err = xproto.CreateGCChecked(d.conn, gid, xproto.Drawable(w),
		xproto.GcGraphicsExposures, []uint32{exposures}).Check()
	if err != nil {
		return 0, err
	}
	return GC(gid), nil
}

func (d *xgbDisplay) FreeGC(gc GC) error {
	return xproto.FreeGCChecked(d.conn, xproto.Gcontext(gc)).Check()
}

// newImage describes a ZPixmap image using the server's pixmap format
// for depth.
func (d *xgbDisplay) newImage(depth, width, height int) (*Image, error) {
	for _, f := range d.setup.PixmapFormats {
		if int(f.Depth) != depth {
			continue
		}
		bpp, pad := int(f.BitsPerPixel), int(f.ScanlinePad)
		if pad == 0 {
			pad = 8
		}
		bitsPerLine := (width*bpp + pad - 1) / pad * pad
		return &Image{
			Width:        width,
			Height:       height,
			Depth:        depth,
			BitsPerPixel: bpp,
			BytesPerLine: bitsPerLine / 8,
		}, nil
	}
	return nil, fmt.Errorf("no pixmap format for depth %d", depth)
}

func (d *xgbDisplay) CreateImage(depth, width, height int, data []byte) (*Image, error) {
	img, err := d.newImage(depth, width, height)
	if err != nil {
		return nil, err
	}
	img.Data = data
	return img, nil
}

// PutImage sends the image in bands of whole rows small enough for the
// server's maximum request length. Rows in img.Data are packed; when the
// server pads scanlines further they are copied into a padded band.
func (d *xgbDisplay) PutImage(w Window, gc GC, img *Image, dstX, dstY int) error {
	packed := img.Width * img.BitsPerPixel / 8
	padded := img.BytesPerLine
	if packed <= 0 || padded < packed || len(img.Data) < packed*img.Height {
		return fmt.Errorf("image data %d bytes for %dx%d", len(img.Data), img.Width, img.Height)
	}

	rows, err := bandRows(int(d.setup.MaximumRequestLength), padded)
	if err != nil {
		return err
	}

	for y := 0; y < img.Height; y += rows {
		n := min(rows, img.Height-y)
		var band []byte
		if packed == padded {
			band = img.Data[y*packed : (y+n)*packed]
		} else {
			if cap(d.scratch) < n*padded {
				d.scratch = make([]byte, n*padded)
			}
			band = padRows(d.scratch[:n*padded], img.Data[y*packed:(y+n)*packed], packed, padded)
		}
		xproto.PutImage(d.conn, xproto.ImageFormatZPixmap, xproto.Drawable(w), xproto.Gcontext(gc),
			uint16(img.Width), uint16(n), int16(dstX), int16(dstY+y), 0, byte(img.Depth), band)
	}
	return nil
}

// bandRows returns how many scanlines of bytesPerLine fit in one PutImage
// request. maxRequestLength is in 4-byte units, as the server reports it.
func bandRows(maxRequestLength, bytesPerLine int) (int, error) {
	if bytesPerLine <= 0 {
		return 0, fmt.Errorf("invalid scanline length %d", bytesPerLine)
	}
	rows := (maxRequestLength*4 - putImageHeader) / bytesPerLine
	if rows < 1 {
		return 0, fmt.Errorf("scanline of %d bytes exceeds request limit", bytesPerLine)
	}
	return rows, nil
}

// padRows copies packed rows from src into dst, starting each row at a
// multiple of padded. Padding bytes are left as they are.
func padRows(dst, src []byte, packed, padded int) []byte {
	for r := 0; r*packed < len(src) && (r+1)*padded <= len(dst); r++ {
		copy(dst[r*padded:r*padded+packed], src[r*packed:(r+1)*packed])
	}
	return dst
}

func (d *xgbDisplay) AllocColor(cmap Colormap, c *Color) error {
	r, err := xproto.AllocColor(d.conn, xproto.Colormap(cmap), c.Red, c.Green, c.Blue).Reply()
	if err != nil {
		return err
	}
	if r == nil {
		return errors.New("empty AllocColor reply")
	}
	c.Pixel = r.Pixel
	c.Red, c.Green, c.Blue = r.Red, r.Green, r.Blue
	return nil
}

func (d *xgbDisplay) ShmQueryExtension() bool {
	if !d.hasShm {
		return false
	}
	_, err := shm.QueryVersion(d.conn).Reply()
	return err == nil
}

func (d *xgbDisplay) ShmCreateImage(depth, width, height int) (*Image, error) {
	return d.newImage(depth, width, height)
}

// ShmAttach is sent unchecked: a refusal arrives through the error
// handler on the next Sync.
func (d *xgbDisplay) ShmAttach(shmid int, readOnly bool) (Segment, error) {
	seg, err := shm.NewSegId(d.conn)
	if err != nil {
		return 0, err
	}
	shm.Attach(d.conn, seg, uint32(shmid), readOnly)
	return Segment(seg), nil
}

func (d *xgbDisplay) ShmDetach(seg Segment) error {
	return shm.DetachChecked(d.conn, shm.Seg(seg)).Check()
}

func (d *xgbDisplay) ShmPutImage(w Window, gc GC, img *Image, seg Segment, dstX, dstY int) error {
	shm.PutImage(d.conn, xproto.Drawable(w), xproto.Gcontext(gc),
		uint16(img.Width), uint16(img.Height), 0, 0, uint16(img.Width), uint16(img.Height),
		int16(dstX), int16(dstY), byte(img.Depth), xproto.ImageFormatZPixmap, 0, shm.Seg(seg), 0)
	return nil
}

func (d *xgbDisplay) SetErrorHandler(h func(error)) func(error) {
	prev := d.onError
	d.onError = h
	return prev
}

// Sync waits for a round trip, then moves everything the connection has
// read so far into the event queue or the error handler.
func (d *xgbDisplay) Sync() error {
	if _, err := xproto.GetInputFocus(d.conn).Reply(); err != nil {
		return err
	}
	d.drain()
	return nil
}

func (d *xgbDisplay) drain() {
	for {
		ev, xerr := d.conn.PollForEvent()
		if ev == nil && xerr == nil {
			return
		}
		if xerr != nil {
			if d.onError != nil {
				d.onError(xerr)
			}
			continue
		}
		if e, ok := translateEvent(ev); ok {
			d.pending = append(d.pending, e)
		}
	}
}

func (d *xgbDisplay) PollEvent() (Event, bool) {
	if len(d.pending) == 0 {
		d.drain()
	}
	if len(d.pending) == 0 {
		return Event{}, false
	}
	e := d.pending[0]
	d.pending = d.pending[1:]
	return e, true
}

func (d *xgbDisplay) Close() error {
	d.conn.Close()
	return nil
}

func translateEvent(ev xgb.Event) (Event, bool) {
	switch e := ev.(type) {
	case xproto.MotionNotifyEvent:
		return Event{Kind: EventMotion, X: int(e.EventX), Y: int(e.EventY), State: e.State}, true
	case xproto.ButtonPressEvent:
		return Event{Kind: EventButtonPress, X: int(e.EventX), Y: int(e.EventY), Button: uint8(e.Detail), State: e.State}, true
	case xproto.ButtonReleaseEvent:
		return Event{Kind: EventButtonRelease, X: int(e.EventX), Y: int(e.EventY), Button: uint8(e.Detail), State: e.State}, true
	case xproto.KeyPressEvent:
		return Event{Kind: EventKeyPress, X: int(e.EventX), Y: int(e.EventY), Keycode: uint8(e.Detail), State: e.State}, true
	case xproto.KeyReleaseEvent:
		return Event{Kind: EventKeyRelease, X: int(e.EventX), Y: int(e.EventY), Keycode: uint8(e.Detail), State: e.State}, true
	}
	return Event{}, false
}
