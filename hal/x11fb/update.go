package x11fb

import "fmt"

// Flush copies the whole framebuffer to the window and returns once the
// server has processed the copy.
func (d *Device) Flush() error {
	if d.state != StateReady {
		return ErrNotInitialized
	}

	var err error
	switch b := d.backing.(type) {
	case *sharedBacking:
		err = d.dpy.ShmPutImage(d.win, d.gc, d.img, b.server, 0, 0)
	case *heapBacking:
		err = d.dpy.PutImage(d.win, d.gc, d.img, 0, 0)
	default:
		return ErrNotInitialized
	}
	if err != nil {
		return fmt.Errorf("put image: %w", err)
	}
	return d.sync()
}
