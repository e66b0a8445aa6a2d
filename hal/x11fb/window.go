package x11fb

import "fmt"

const (
	windowBorderWidth = 2
	grabButton        = 1
)

// createWindow opens the display and builds the window the framebuffer is
// shown in. On failure everything acquired so far is released again, so
// the connection and the window exist together or not at all.
func (d *Device) createWindow() (err error) {
	dpy, err := d.dial(d.cfg.DisplayName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if dpy == nil {
		return ErrDeviceUnavailable
	}
	d.dpy = dpy
	d.frame.push("display connection", dpy.Close)
	defer func() {
		if err != nil {
			if uerr := d.frame.unwind(); uerr != nil {
				d.logf("unwind window: %v", uerr)
			}
			err = fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
	}()

	dpy.SetErrorHandler(func(err error) {
		d.logf("X error: %v", err)
	})

	d.screen = dpy.DefaultScreen()
	win, err := dpy.CreateWindow(d.screen.Root, WindowSpec{
		Width:       d.width,
		Height:      d.height,
		BorderWidth: windowBorderWidth,
		Background:  d.screen.BlackPixel,
		Border:      d.screen.BlackPixel,
	})
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	d.win = win
	d.frame.push("window", func() error { return dpy.DestroyWindow(win) })

	err = dpy.SetWMProperties(win, WMProperties{
		Name:      d.cfg.Title,
		IconName:  d.cfg.IconName,
		Command:   d.cfg.Command,
		Width:     d.width,
		Height:    d.height,
		MinWidth:  d.width,
		MinHeight: d.height,
		MaxWidth:  d.width,
		MaxHeight: d.height,
	})
	if err != nil {
		return fmt.Errorf("set wm properties: %w", err)
	}

	if err := dpy.SelectInput(win, d.inputMask()); err != nil {
		return fmt.Errorf("select input: %w", err)
	}

	if d.cfg.GrabPointer {
		mask := EventMaskButtonPress | EventMaskButtonRelease | EventMaskButtonMotion
		if err := dpy.GrabButton(win, grabButton, mask); err != nil {
			return fmt.Errorf("grab button: %w", err)
		}
		d.frame.push("button grab", func() error { return dpy.UngrabButton(win, grabButton) })
	}

	gc, err := dpy.CreateGC(win, false)
	if err != nil {
		return fmt.Errorf("create gc: %w", err)
	}
	d.gc = gc
	d.frame.push("graphics context", func() error { return dpy.FreeGC(gc) })
	return nil
}

func (d *Device) inputMask() EventMask {
	mask := EventMaskButtonPress | EventMaskButtonRelease | EventMaskPointerMotion
	if d.cfg.Keyboard {
		mask |= EventMaskKeyPress | EventMaskKeyRelease
	}
	return mask
}

// OpenWindow maps the window and waits until the server has done so.
func (d *Device) OpenWindow() error {
	if d.state != StateReady {
		return ErrNotInitialized
	}
	if err := d.dpy.MapWindow(d.win); err != nil {
		return fmt.Errorf("map window: %w", err)
	}
	return d.sync()
}

// CloseWindow unmaps the window. The pixel buffer stays valid.
func (d *Device) CloseWindow() error {
	if d.state != StateReady {
		return ErrNotInitialized
	}
	if err := d.dpy.UnmapWindow(d.win); err != nil {
		return fmt.Errorf("unmap window: %w", err)
	}
	return d.sync()
}

func (d *Device) sync() error {
	if err := d.dpy.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %v", ErrDeviceUnavailable, err)
	}
	return nil
}
